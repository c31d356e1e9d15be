package favorites

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/rollcall/internal/models"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "de"

// Star prefixes the label of a favorite group.
const Star = "★ "

// Collator compares group IDs using locale-aware collation. IDs that
// collate equal fall back to byte order so the ordering is total.
// A Collator is safe for concurrent use.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator returns a collator for the given BCP 47 locale.
func NewCollator(locale string) (*Collator, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return &Collator{c: collate.New(tag)}, nil
}

// Compare returns -1, 0 or +1. It returns 0 only for identical strings.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	r := c.c.CompareString(a, b)
	c.mu.Unlock()
	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Sort sorts ids in place.
func (c *Collator) Sort(ids []string) {
	slices.SortFunc(ids, c.Compare)
}

// DisplayOrder returns the options ordered for display: a leading
// placeholder stays first, then favorites, then everything else, each
// partition sorted by Compare. Labels are re-rendered from favs.
// The input slice is not modified and applying DisplayOrder to its own
// output returns the same sequence.
func (c *Collator) DisplayOrder(options []models.GroupOption, favs Set) []models.GroupOption {
	out := make([]models.GroupOption, 0, len(options))
	rest := options
	if len(rest) > 0 && rest[0].IsPlaceholder() {
		out = append(out, rest[0])
		rest = rest[1:]
	}

	var favOpts, otherOpts []models.GroupOption
	for _, opt := range rest {
		isFav := favs.Contains(opt.ID)
		opt.Label = RenderLabel(opt.ID, isFav)
		if isFav {
			favOpts = append(favOpts, opt)
		} else {
			otherOpts = append(otherOpts, opt)
		}
	}

	byID := func(a, b models.GroupOption) int { return c.Compare(a.ID, b.ID) }
	slices.SortStableFunc(favOpts, byID)
	slices.SortStableFunc(otherOpts, byID)

	out = append(out, favOpts...)
	return append(out, otherOpts...)
}

// RenderLabel returns the display label for a group.
func RenderLabel(group string, isFav bool) string {
	if isFav {
		return Star + group
	}
	return group
}
