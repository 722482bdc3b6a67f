package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/modulink/pkg/domain"
)

// Logger logs link entry at debug level and link exit at info level.
// Exits with an exception are logged at error level.
type Logger struct {
	logger *slog.Logger
}

// Logging returns a middleware writing to logger.
func Logging(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Name() string { return "logging" }

func (l *Logger) Before(ctx context.Context, e *domain.HookEvent) error {
	l.logger.DebugContext(ctx, "link_enter",
		"chain", e.Chain,
		"run_id", e.RunID,
		"link", e.Link,
		"position", e.Placement.Position,
	)
	return nil
}

func (l *Logger) After(ctx context.Context, e *domain.HookEvent) error {
	attrs := []any{
		"chain", e.Chain,
		"run_id", e.RunID,
		"link", e.Link,
		"position", e.Placement.Position,
		"status", e.Result.Status(),
	}
	if err := e.Result.Exception(); err != nil {
		l.logger.ErrorContext(ctx, "link_leave", append(attrs, "error", err)...)
		return nil
	}
	if e.Result.HasErrors() {
		attrs = append(attrs, "errors", len(e.Result.Errors()))
	}
	l.logger.InfoContext(ctx, "link_leave", attrs...)
	return nil
}
