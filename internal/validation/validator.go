// Package validation checks operator input before anything is sent to the
// backend.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/rollcall/internal/models"
)

// Tags reported by struct rules.
const (
	TagMembersFound = "members_found"
	TagSelection    = "selection"
	TagKnown        = "known"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string
	Message string
}

// Error lists every failed check of one input, in field order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Message returns the message for field, or "" if it passed.
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validator wraps go-playground/validator with friendlier errors.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that reports fields by their JSON names and knows
// the "action" tag.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("action", func(fl validator.FieldLevel) bool {
		return models.Action(fl.Field().String()).Valid()
	})

	return &Validator{v: v}
}

// RegisterStructRule adds a cross-field rule for the given types. Rules
// report failures with StructLevel.ReportError.
func (v *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...any) {
	v.v.RegisterStructValidation(fn, types...)
}

// Validate checks s and returns an *Error listing every failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := &Error{}
	for _, e := range validationErrs {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: friendlyMessage(e)})
	}
	return out
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s item(s)", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "action":
		return fmt.Sprintf("must be %q or %q", models.ActionEntered, models.ActionExited)
	case TagMembersFound:
		return "has no members"
	case TagSelection:
		return "must name at least one person"
	case TagKnown:
		return "names a person not in the group: " + e.Param()
	default:
		return "is invalid"
	}
}
