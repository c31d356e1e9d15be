package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/rollcall/internal/command"
	"github.com/mmynk/rollcall/pkg/logging"
)

func main() {
	logging.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
