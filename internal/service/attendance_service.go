package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/rollcall/internal/api"
	"github.com/mmynk/rollcall/internal/middleware"
	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/storage"
	"github.com/mmynk/rollcall/internal/validation"
)

// SubmitInput is one attendance submit as entered by the operator.
type SubmitInput struct {
	Initials string
	Group    string
	// People are person IDs out of the group's roster.
	People []string
	// All selects the whole roster and ignores People.
	All    bool
	Action models.Action
}

// AttendanceService logs people in and out of groups.
type AttendanceService struct {
	roster    Roster
	store     storage.Store
	validator *validation.Validator
}

// NewAttendanceService creates an AttendanceService. The store keeps the
// last used initials.
func NewAttendanceService(roster Roster, store storage.Store) *AttendanceService {
	return &AttendanceService{roster: roster, store: store, validator: newValidator()}
}

// Members returns the roster of group.
func (s *AttendanceService) Members(ctx context.Context, group string) ([]models.Member, error) {
	if group == "" {
		return nil, ErrNoGroup
	}
	members, err := s.roster.Members(ctx, group)
	if err != nil {
		slog.Error("Members failed", "group", group, "error", err)
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	return members, nil
}

// Submit validates in and logs the action for the selected people. Nothing
// is sent and nothing is stored if validation fails; a *validation.Error
// then lists every problem. The initials are remembered once validation
// passes, even if the request itself fails.
func (s *AttendanceService) Submit(ctx context.Context, in SubmitInput) (*api.SubmitResponse, error) {
	members, err := roster(ctx, s.roster.Members, in.Group)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	selected, unknown := pick(members, in.People, in.All)

	sub := submission{
		Initials: strings.TrimSpace(in.Initials),
		Group:    in.Group,
		Members:  members,
		Selected: selected,
		Unknown:  unknown,
		Action:   in.Action,
	}
	if err := s.validator.Validate(sub); err != nil {
		slog.Info("Submit rejected locally", "error", err)
		return nil, err
	}

	if err := s.store.Set(ctx, storage.KeyInitials, sub.Initials); err != nil {
		return nil, fmt.Errorf("failed to save initials: %w", err)
	}

	slog.Info("Submitting action",
		"group", sub.Group,
		"action", sub.Action,
		"people_count", len(sub.Selected),
	)

	ctx = middleware.WithOperator(ctx, sub.Initials)
	resp, err := s.roster.SubmitAction(ctx, api.SubmitRequest{
		Initials: sub.Initials,
		Group:    sub.Group,
		People:   sub.Selected,
		Action:   sub.Action,
	})
	if err != nil {
		slog.Error("Submit failed", "group", sub.Group, "error", err)
		return nil, fmt.Errorf("failed to submit action: %w", err)
	}

	slog.Info("Action logged", "group", sub.Group, "action", resp.Action)
	return resp, nil
}

// SavedInitials returns the initials of the last successful validation, or
// "" if there are none.
func (s *AttendanceService) SavedInitials(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, storage.KeyInitials)
	if err != nil {
		return "", fmt.Errorf("failed to read initials: %w", err)
	}
	return v, nil
}
