package pg

import "context"

// logger is the minimal structured-logging surface needed to route goose
// migration output through the application logger. *slog.Logger satisfies it.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
