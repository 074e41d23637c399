package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the scene and the side panel.
type Theme struct {
	Name   string
	Square lipgloss.Color
	Border lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Warn   lipgloss.Color
}

var (
	// ThemeDefault matches the desktop window: magenta square, dark red walls.
	ThemeDefault = Theme{
		Name:   "default",
		Square: lipgloss.Color("#ff00ff"),
		Border: lipgloss.Color("#b30000"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	ThemeNeon = Theme{
		Name:   "neon",
		Square: lipgloss.Color("#39ff14"),
		Border: lipgloss.Color("#ff00ff"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Warn:   lipgloss.Color("#ff8800"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Square: lipgloss.Color("#88ff88"),
		Border: lipgloss.Color("#00cc00"),
		Accent: lipgloss.Color("#00ff00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Square: lipgloss.Color("#ffffff"),
		Border: lipgloss.Color("#888888"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Square: lipgloss.Color("#ffd700"),
		Border: lipgloss.Color("#0077be"),
		Accent: lipgloss.Color("#00a8cc"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		Warn:   lipgloss.Color("#ffcc00"),
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeNeon,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RGB splits a "#rrggbb" theme colour into bytes for the window backends.
func RGB(c lipgloss.Color) (r, g, b uint8) {
	ri, gi, bi := parseHex(string(c))
	return uint8(ri), uint8(gi), uint8(bi)
}
