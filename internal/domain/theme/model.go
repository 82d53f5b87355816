package theme

// Theme is the persisted colour scheme preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default is used when no preference has been stored.
const Default = Light

// Parse returns the theme named by s, or Default for anything unrecognised.
func Parse(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// IsDark reports whether the dark scheme is active.
func (t Theme) IsDark() bool {
	return t == Dark
}

// ToggleIcon is the label of the toggle button: it shows the theme you would switch to.
func (t Theme) ToggleIcon() string {
	if t == Dark {
		return "☀️"
	}
	return "🌙"
}
