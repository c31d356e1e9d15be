package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmynk/rollcall/internal/events"
	"github.com/mmynk/rollcall/internal/favorites"
	"github.com/mmynk/rollcall/internal/models"
)

// GroupService lists groups in display order and keeps the favorites.
type GroupService struct {
	source    GroupSource
	favorites *favorites.Favorites
	collator  *favorites.Collator

	mu       sync.Mutex
	selected string
}

// NewGroupService creates a GroupService.
func NewGroupService(source GroupSource, favs *favorites.Favorites, collator *favorites.Collator) *GroupService {
	return &GroupService{source: source, favorites: favs, collator: collator}
}

// ListGroups fetches the group list and returns it in display order with
// favorite labels.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.GroupOption, error) {
	options, err := s.source.Groups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	favs, err := s.favorites.Load(ctx)
	if err != nil {
		return nil, err
	}

	ordered := s.collator.DisplayOrder(options, favs)
	slog.Debug("ListGroups successful", "count", len(ordered), "favorites", favs.Len())
	return ordered, nil
}

// ToggleFavorite flips the favorite mark of group and returns the list in
// its new order.
func (s *GroupService) ToggleFavorite(ctx context.Context, group string) ([]models.GroupOption, error) {
	if group == "" {
		return nil, ErrNoGroup
	}

	options, err := s.source.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	if !containsGroup(options, group) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}

	favs, err := s.favorites.Toggle(ctx, group)
	if err != nil {
		slog.Error("ToggleFavorite failed", "group", group, "error", err)
		return nil, err
	}

	slog.Info("Favorite toggled", "group", group, "favorite", favs.Contains(group))
	return s.collator.DisplayOrder(options, favs), nil
}

// Star returns the star state shown next to group.
func (s *GroupService) Star(ctx context.Context, group string) (favorites.StarState, error) {
	favs, err := s.favorites.Load(ctx)
	if err != nil {
		return favorites.StarDisabled, err
	}
	return favorites.StarFor(group, favs), nil
}

// Selected returns the group chosen by the last SelectionChanged event.
func (s *GroupService) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Register subscribes the service to selection and favorite events.
func (s *GroupService) Register(bus *events.Bus) {
	bus.On(events.KindSelectionChanged, func(_ context.Context, ev events.Event) error {
		group := ev.(events.SelectionChanged).Group
		s.mu.Lock()
		s.selected = group
		s.mu.Unlock()
		slog.Debug("Group selected", "group", group)
		return nil
	})
	bus.On(events.KindFavoriteToggled, func(ctx context.Context, ev events.Event) error {
		group := ev.(events.FavoriteToggled).Group
		if group == "" {
			group = s.Selected()
		}
		_, err := s.ToggleFavorite(ctx, group)
		return err
	})
}

func containsGroup(options []models.GroupOption, group string) bool {
	for _, o := range options {
		if !o.IsPlaceholder() && o.ID == group {
			return true
		}
	}
	return false
}
