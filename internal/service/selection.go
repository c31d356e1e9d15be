package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/rollcall/internal/models"
	"github.com/mmynk/rollcall/internal/validation"
)

// selector is implemented by inputs that pick people out of a group.
type selector interface {
	selection() (group string, members, selected []models.Member, unknown []string)
}

// submission is a validated attendance submit.
type submission struct {
	Initials string          `json:"initials" validate:"required"`
	Group    string          `json:"group" validate:"required"`
	Members  []models.Member `json:"members"`
	Selected []models.Member `json:"selected"`
	Unknown  []string        `json:"-"`
	Action   models.Action   `json:"action" validate:"action"`
}

func (s submission) selection() (string, []models.Member, []models.Member, []string) {
	return s.Group, s.Members, s.Selected, s.Unknown
}

// exportSelection is a validated group export.
type exportSelection struct {
	FileType models.FileType `json:"fileType" validate:"oneof=CSV PDF"`
	Group    string          `json:"group" validate:"required"`
	Members  []models.Member `json:"members"`
	Selected []models.Member `json:"selected"`
	Unknown  []string        `json:"-"`
}

func (s exportSelection) selection() (string, []models.Member, []models.Member, []string) {
	return s.Group, s.Members, s.Selected, s.Unknown
}

// selectionRule reports a group without members, a roster with nobody
// selected and IDs that are not in the roster.
func selectionRule(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(selector)
	if !ok {
		return
	}
	group, members, selected, unknown := s.selection()
	if group != "" && len(members) == 0 {
		sl.ReportError(members, "members", "Members", validation.TagMembersFound, "")
	}
	if len(unknown) > 0 {
		sl.ReportError(unknown, "selected", "Selected", validation.TagKnown, strings.Join(unknown, ", "))
	} else if len(members) > 0 && len(selected) == 0 {
		sl.ReportError(selected, "selected", "Selected", validation.TagSelection, "")
	}
}

func newValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructRule(selectionRule, submission{}, exportSelection{})
	return v
}

// pick returns the members named by ids in roster order, or every member
// when all is set. IDs not in the roster are returned separately.
func pick(members []models.Member, ids []string, all bool) (selected []models.Member, unknown []string) {
	if all {
		return append([]models.Member(nil), members...), nil
	}

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, m := range members {
		if want[m.ID] {
			selected = append(selected, m)
			delete(want, m.ID)
		}
	}
	for _, id := range ids {
		if want[id] {
			unknown = append(unknown, id)
			delete(want, id)
		}
	}
	return selected, unknown
}

// roster fetches the members of group, or nothing if no group is set.
func roster(ctx context.Context, fetch func(context.Context, string) ([]models.Member, error), group string) ([]models.Member, error) {
	if group == "" {
		return nil, nil
	}
	return fetch(ctx, group)
}
