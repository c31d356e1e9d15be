package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/rollcall/internal/rowedit"
)

func TestBus_DispatchOrder(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.On(KindSelectionChanged, func(_ context.Context, ev Event) error {
		calls = append(calls, "first:"+ev.(SelectionChanged).Group)
		return nil
	})
	bus.On(KindSelectionChanged, func(_ context.Context, ev Event) error {
		calls = append(calls, "second:"+ev.(SelectionChanged).Group)
		return nil
	})
	bus.On(KindFavoriteToggled, func(context.Context, Event) error {
		calls = append(calls, "favorite")
		return nil
	})

	if err := bus.Dispatch(context.Background(), SelectionChanged{Group: "5b"}); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	want := []string{"first:5b", "second:5b"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBus_DispatchJoinsErrors(t *testing.T) {
	bus := NewBus()
	errA := errors.New("a")
	errB := errors.New("b")
	ran := 0

	bus.On(KindSaveRequested, func(context.Context, Event) error { ran++; return errA })
	bus.On(KindSaveRequested, func(context.Context, Event) error { ran++; return nil })
	bus.On(KindSaveRequested, func(context.Context, Event) error { ran++; return errB })

	err := bus.Dispatch(context.Background(), SaveRequested{Row: "r1"})
	if ran != 3 {
		t.Errorf("expected all 3 handlers to run, ran %d", ran)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected joined errors, got %v", err)
	}
}

func TestBus_DispatchUnhandled(t *testing.T) {
	bus := NewBus()
	if err := bus.Dispatch(context.Background(), DeleteRequested{Row: "r1"}); err != nil {
		t.Errorf("expected nil for unhandled event, got %v", err)
	}
}

func TestBus_HandlerMayRegister(t *testing.T) {
	bus := NewBus()
	bus.On(KindFieldChanged, func(context.Context, Event) error {
		bus.On(KindFieldChanged, func(context.Context, Event) error { return nil })
		return nil
	})

	ev := FieldChanged{Row: "r1", Field: rowedit.FieldStatus, Value: "ausgetreten"}
	if err := bus.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if got := bus.Handlers(KindFieldChanged); got != 2 {
		t.Errorf("expected 2 handlers, got %d", got)
	}
}

func TestBus_ConcurrentOn(t *testing.T) {
	bus := NewBus()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.On(KindSelectionChanged, func(context.Context, Event) error { return nil })
		}()
	}
	wg.Wait()

	if got := bus.Handlers(KindSelectionChanged); got != 20 {
		t.Errorf("expected 20 handlers, got %d", got)
	}
}

func TestEventKinds(t *testing.T) {
	tests := []struct {
		ev   Event
		want Kind
	}{
		{SelectionChanged{}, KindSelectionChanged},
		{FavoriteToggled{}, KindFavoriteToggled},
		{FieldChanged{}, KindFieldChanged},
		{SaveRequested{}, KindSaveRequested},
		{DeleteRequested{}, KindDeleteRequested},
	}
	for _, tt := range tests {
		if got := tt.ev.Kind(); got != tt.want {
			t.Errorf("%T.Kind() = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
