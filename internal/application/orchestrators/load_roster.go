package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"rollcall/internal/adapters/storage/kv"
	"rollcall/internal/domain/roster"
)

// RosterStore defines the roster persistence needed by the orchestrators.
type RosterStore interface {
	Load(ctx context.Context) (roster.Roster, error)
	Save(ctx context.Context, r roster.Roster) error
}

// LoadRosterInput carries input for the load roster orchestrator.
type LoadRosterInput struct {
	StudentCount int // size of the generated roster on first run
}

// LoadRosterDeps holds dependencies for LoadRoster.
type LoadRosterDeps struct {
	RosterStore RosterStore
}

// ExecuteLoadRoster returns the persisted roster, generating one on first run.
// PRE: none
// POST: returns a valid, non-empty roster
// INVARIANT: a stored value that fails to decode is never overwritten
func ExecuteLoadRoster(ctx context.Context, input LoadRosterInput, deps LoadRosterDeps) (roster.Roster, error) {
	r, err := deps.RosterStore.Load(ctx)
	if err == nil {
		return r, nil
	}

	generated := roster.Generate(input.StudentCount)
	if !errors.Is(err, kv.ErrNotFound) {
		slog.Warn("roster_event", "event", "roster_load_failed", "error", err, "fallback_size", len(generated))
		return generated, nil
	}

	if err := deps.RosterStore.Save(ctx, generated); err != nil {
		slog.Warn("roster_event", "event", "roster_persist_failed", "error", err)
		return generated, nil
	}
	slog.Info("roster_event", "event", "roster_generated", "size", len(generated))
	return generated, nil
}
