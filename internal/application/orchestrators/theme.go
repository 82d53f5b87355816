package orchestrators

import (
	"context"
	"log/slog"

	"rollcall/internal/domain/theme"
)

// ThemeStore defines the theme preference persistence.
type ThemeStore interface {
	Load(ctx context.Context) (theme.Theme, error)
	Save(ctx context.Context, t theme.Theme) error
}

// ThemeDeps holds dependencies for the theme orchestrators.
type ThemeDeps struct {
	ThemeStore ThemeStore
}

// ExecuteLoadTheme returns the saved theme.
// POST: storage failures read as theme.Default
func ExecuteLoadTheme(ctx context.Context, deps ThemeDeps) theme.Theme {
	t, err := deps.ThemeStore.Load(ctx)
	if err != nil {
		slog.Warn("theme_event", "event", "theme_load_failed", "error", err)
		return theme.Default
	}
	return t
}

// ToggleThemeInput carries input for the toggle theme orchestrator.
type ToggleThemeInput struct {
	Current theme.Theme
}

// ExecuteToggleTheme flips the theme and persists it.
// POST: returns the flipped theme even when persisting fails
func ExecuteToggleTheme(ctx context.Context, input ToggleThemeInput, deps ThemeDeps) (theme.Theme, error) {
	next := input.Current.Toggle()
	if err := deps.ThemeStore.Save(ctx, next); err != nil {
		return next, err
	}
	slog.Debug("theme_event", "event", "theme_toggled", "theme", string(next))
	return next, nil
}
