package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// OperatorKey is the context key for the initials of the operator
	// issuing requests.
	OperatorKey contextKey = "operator"
	// ProcedureKey is the context key for the backend path being called.
	ProcedureKey contextKey = "procedure"
)

// WithOperator returns a context carrying the operator's initials.
func WithOperator(ctx context.Context, initials string) context.Context {
	return context.WithValue(ctx, OperatorKey, initials)
}

// GetOperator extracts the operator's initials from the context.
// Returns empty string if not found.
func GetOperator(ctx context.Context) string {
	initials, _ := ctx.Value(OperatorKey).(string)
	return initials
}

// WithProcedure returns a context naming the backend path being called.
// Connect derives procedure names from the last two path segments, which
// turns single-segment paths like /get_members into "/".
func WithProcedure(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ProcedureKey, path)
}

// GetProcedure returns the path set by WithProcedure, or fallback.
func GetProcedure(ctx context.Context, fallback string) string {
	if p, ok := ctx.Value(ProcedureKey).(string); ok && p != "" {
		return p
	}
	return fallback
}
