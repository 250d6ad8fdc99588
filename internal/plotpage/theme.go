package plotpage

// Theme selects a color theme for dashboard pages.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Accent.
	Accent string

	// Chart-specific.
	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// SeriesPalette returns the chart series colors for a given theme.
func SeriesPalette(theme Theme) []string {
	if theme == ThemeDark {
		return darkPalette
	}

	return lightPalette
}

// HeatPalette returns the sequential colors for heat maps, light to dark.
func HeatPalette(theme Theme) []string {
	if theme == ThemeDark {
		return []string{"#1c1917", "#0e4429", "#006d32", "#26a641", "#39d353"}
	}

	return []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}
}

var lightTheme = ThemeConfig{
	Background: "#fafaf9", // stone-50.
	Surface:    "#ffffff",
	Border:     "#e7e5e4", // stone-200.

	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.

	Accent: "#0369a1", // sky-700.

	ChartBackground: "transparent",
	ChartGrid:       "#e7e5e4", // stone-200.
	ChartAxis:       "#a8a29e", // stone-400.
	ChartText:       "#44403c", // stone-700.
	ChartTextMuted:  "#78716c", // stone-500.
}

var darkTheme = ThemeConfig{
	Background: "#0c0a09", // stone-950.
	Surface:    "#1c1917", // stone-900.
	Border:     "#44403c", // stone-700.

	TextPrimary:   "#fafaf9", // stone-50.
	TextSecondary: "#d6d3d1", // stone-300.
	TextMuted:     "#a8a29e", // stone-400.

	Accent: "#38bdf8", // sky-400.

	ChartBackground: "transparent",
	ChartGrid:       "#44403c", // stone-700.
	ChartAxis:       "#57534e", // stone-600.
	ChartText:       "#d6d3d1", // stone-300.
	ChartTextMuted:  "#a8a29e", // stone-400.
}

var lightPalette = []string{
	"#0369a1", // sky-700.
	"#c2410c", // orange-700.
	"#4d7c0f", // lime-700.
	"#7c3aed", // violet-600.
	"#be185d", // pink-700.
	"#0891b2", // cyan-600.
	"#a16207", // amber-700.
	"#4338ca", // indigo-700.
	"#15803d", // green-700.
	"#b91c1c", // red-700.
}

var darkPalette = []string{
	"#38bdf8", // sky-400.
	"#fb923c", // orange-400.
	"#a3e635", // lime-400.
	"#a78bfa", // violet-400.
	"#f472b6", // pink-400.
	"#22d3ee", // cyan-400.
	"#fbbf24", // amber-400.
	"#818cf8", // indigo-400.
	"#4ade80", // green-400.
	"#f87171", // red-400.
}
