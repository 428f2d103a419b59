// Package charttheme turns minimal chart descriptions into Chart.js
// configurations colored for the light or dark site theme.
//
// The theme is never looked up from global state. Callers hand a ThemeSource
// to NewResolver (or pass a Palette explicitly) and every function returns a
// fresh value, leaving the caller's maps untouched:
//
//	r := charttheme.NewResolver(charttheme.Mode("light"))
//	cfg := r.BuildConfig(charttheme.Bar, data, nil)
//	out, _ := json.Marshal(cfg)
package charttheme

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Palette is the fixed set of chart colors for one theme variant.
type Palette struct {
	Primary    []string
	Secondary  []string
	Background string
	Text       string
	Grid       string
	Border     string
	Shadow     string
}

var palettes = map[string]Palette{
	ThemeLight: {
		Primary:    []string{"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#8b5cf6", "#ec4899", "#06b6d4"},
		Secondary:  []string{"#60a5fa", "#f87171", "#34d399", "#fbbf24", "#a78bfa", "#f472b6", "#22d3ee"},
		Background: "#ffffff",
		Text:       "#1a202c",
		Grid:       "rgba(0, 0, 0, 0.1)",
		Border:     "rgba(0, 0, 0, 0.1)",
		Shadow:     "rgba(0, 0, 0, 0.1)",
	},
	ThemeDark: {
		Primary:    []string{"#60a5fa", "#f87171", "#34d399", "#fbbf24", "#a78bfa", "#f472b6", "#22d3ee"},
		Secondary:  []string{"#93c5fd", "#fca5a5", "#6ee7b7", "#fcd34d", "#c4b5fd", "#f9a8d4", "#67e8f9"},
		Background: "#2d3748",
		Text:       "#e2e8f0",
		Grid:       "rgba(255, 255, 255, 0.1)",
		Border:     "rgba(255, 255, 255, 0.1)",
		Shadow:     "rgba(0, 0, 0, 0.3)",
	},
}

var themes = [...]string{ThemeLight, ThemeDark}

// Themes lists the theme names that have a palette.
func Themes() []string {
	return append([]string(nil), themes[:]...)
}

// ThemeSource reports the theme currently selected by the surrounding UI.
type ThemeSource interface {
	Theme() string
}

// Mode is a fixed ThemeSource.
type Mode string

func (m Mode) Theme() string { return string(m) }

// PaletteFor returns the palette for theme. Unknown or empty names get the
// dark palette.
func PaletteFor(theme string) Palette {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}
	return p.clone()
}

// Light returns a copy of the light palette.
func Light() Palette { return PaletteFor(ThemeLight) }

// Dark returns a copy of the dark palette.
func Dark() Palette { return PaletteFor(ThemeDark) }

// PrimaryAt picks a primary color, wrapping index around the sequence.
// The palette must have at least one primary color.
func (p Palette) PrimaryAt(index int) string {
	n := len(p.Primary)
	i := index % n
	if i < 0 {
		i += n
	}
	return p.Primary[i]
}

func (p Palette) clone() Palette {
	p.Primary = append([]string(nil), p.Primary...)
	p.Secondary = append([]string(nil), p.Secondary...)
	return p
}
