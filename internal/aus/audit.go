package aus

import (
	"context"
	"log/slog"
	"time"
)

// LevelSecure ranks above ERROR so credential-bearing events always
// survive level filtering.
const LevelSecure = slog.Level(12)

// Auditor records every AUS interaction with a severity level,
// timestamp, action and outcome.
type Auditor struct {
	log *slog.Logger
}

func NewAuditor(log *slog.Logger) *Auditor {
	if log == nil {
		log = slog.Default()
	}

	return &Auditor{log: log.With("component", "aus")}
}

// Record writes one audit entry.
func (a *Auditor) Record(ctx context.Context, level slog.Level, action, outcome string, args ...any) {
	entry := append([]any{
		"action", action,
		"outcome", outcome,
		"at", time.Now().UTC().Format(time.RFC3339),
	}, args...)

	a.log.Log(ctx, level, "aus audit", entry...)
}

func (a *Auditor) Info(ctx context.Context, action, outcome string, args ...any) {
	a.Record(ctx, slog.LevelInfo, action, outcome, args...)
}

func (a *Auditor) Warn(ctx context.Context, action, outcome string, args ...any) {
	a.Record(ctx, slog.LevelWarn, action, outcome, args...)
}

func (a *Auditor) Error(ctx context.Context, action, outcome string, args ...any) {
	a.Record(ctx, slog.LevelError, action, outcome, args...)
}

// Secure records credential lifecycle events (authentication, token
// refresh) at the SECURE level.
func (a *Auditor) Secure(ctx context.Context, action, outcome string, args ...any) {
	a.Record(ctx, LevelSecure, action, outcome, args...)
}
