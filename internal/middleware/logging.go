package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every backend
// call with its path, operator and duration. Successful calls log at DEBUG,
// errors the server answered with at WARN, and anything else at ERROR.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", GetProcedure(ctx, req.Spec().Procedure)),
				slog.String("operator", GetOperator(ctx)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			level, msg := callLevel(err)
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					attrs = append(attrs,
						slog.Any("code", connectErr.Code()),
						slog.String("error", connectErr.Message()),
					)
				} else {
					attrs = append(attrs, slog.Any("error", err))
				}
			}
			slog.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

func callLevel(err error) (slog.Level, string) {
	if err == nil {
		return slog.LevelDebug, "API ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return slog.LevelWarn, "API error"
	}
	return slog.LevelError, "API error"
}
