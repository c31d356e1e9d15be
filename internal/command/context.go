package command

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/config"
	"github.com/mmynk/rollcall/internal/favorites"
	"github.com/mmynk/rollcall/internal/middleware"
	"github.com/mmynk/rollcall/internal/service"
	"github.com/mmynk/rollcall/internal/storage"
	"github.com/mmynk/rollcall/internal/storage/sqlite"
	"github.com/mmynk/rollcall/pkg/logging"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Config   *config.Config
	Store    storage.Store
	Client   *api.Client
	Registry *prometheus.Registry
	JSONMode bool
	Force    bool

	Groups     *service.GroupService
	Attendance *service.AttendanceService
	Edit       *service.EditService
	Transfer   *service.TransferService
}

// GetContext loads the configuration, applies flag overrides and wires the
// services. Callers must Close the context.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.SetDefault(logging.New(cmd.ErrOrStderr(), logging.ParseLevel(cfg.LogLevel)))

	collator, err := favorites.NewCollator(cfg.Locale)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	client, err := api.New(cfg.Server,
		api.WithTimeout(cfg.GetTimeout()),
		api.WithMetrics(middleware.NewMetrics(reg)),
	)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.New(cfg.DBPath())
	if err != nil {
		return nil, err
	}

	jsonMode, _ := cmd.Flags().GetBool("json")
	force, _ := cmd.Flags().GetBool("force")

	ctx := &CommandContext{
		Config:   cfg,
		Store:    store,
		Client:   client,
		Registry: reg,
		JSONMode: jsonMode,
		Force:    force,
	}
	ctx.Groups = service.NewGroupService(client, favorites.New(store, collator), collator)
	ctx.Attendance = service.NewAttendanceService(client, store)
	ctx.Edit = service.NewEditService(client, newConfirmer(cmd, force), newNotifier(cmd))
	ctx.Transfer = service.NewTransferService(client, cfg.DownloadDir)
	return ctx, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	for flag, dst := range map[string]*string{
		"server": &cfg.Server,
		"data":   &cfg.DataDir,
		"out":    &cfg.DownloadDir,
		"locale": &cfg.Locale,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
}

// Close logs the request counters and closes the store.
func (c *CommandContext) Close() {
	logRequestCounts(c.Registry)
	if err := c.Store.Close(); err != nil {
		slog.Warn("Failed to close store", "error", err)
	}
}

func logRequestCounts(reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		slog.Debug("Failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		if mf.GetName() != "rollcall_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			attrs := []any{"count", m.GetCounter().GetValue()}
			for _, l := range m.GetLabel() {
				attrs = append(attrs, l.GetName(), l.GetValue())
			}
			slog.Debug("API requests", attrs...)
		}
	}
}
