package charttheme

// Known chart kinds. The type field stays an open string so newer kinds pass
// through unchanged.
const (
	Line      = "line"
	Bar       = "bar"
	Pie       = "pie"
	Doughnut  = "doughnut"
	PolarArea = "polarArea"
	Radar     = "radar"
	Scatter   = "scatter"
	Bubble    = "bubble"
)

// fillAlphaSuffix is appended to a 6-digit hex color to get a translucent fill.
const fillAlphaSuffix = "20"

// Dataset is one chart series.
type Dataset map[string]any

// Options is a sparse chart options tree.
type Options map[string]any

// Data is the chart data block. Only the "datasets" key is interpreted.
type Data map[string]any

// Config is a ready-to-render chart configuration.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// Resolver binds the chart helpers to a theme source.
type Resolver struct {
	source ThemeSource
}

func NewResolver(source ThemeSource) *Resolver {
	return &Resolver{source: source}
}

// ActiveTheme returns the source's current theme when it has a palette and
// "dark" otherwise.
func (r *Resolver) ActiveTheme() string {
	if r == nil || r.source == nil {
		return ThemeDark
	}
	if theme := r.source.Theme(); theme == ThemeLight || theme == ThemeDark {
		return theme
	}
	return ThemeDark
}

// ActivePalette returns the palette for the source's current theme, falling
// back to dark.
func (r *Resolver) ActivePalette() Palette {
	return PaletteFor(r.ActiveTheme())
}

// DecorateDataset is DecorateDataset with the active palette.
func (r *Resolver) DecorateDataset(ds Dataset, colorIndex int) Dataset {
	return DecorateDataset(ds, colorIndex, r.ActivePalette())
}

// RetintOptions is RetintOptions with the active palette.
func (r *Resolver) RetintOptions(opts Options) Options {
	return RetintOptions(opts, r.ActivePalette())
}

// BuildConfig assembles a themed config using the active palette, resolved once.
func (r *Resolver) BuildConfig(chartType string, data Data, opts Options) Config {
	return Build(chartType, data, opts, r.ActivePalette())
}

// DecorateDataset returns a copy of ds whose unset color fields are filled
// from the palette. Colors the caller already set are kept.
func DecorateDataset(ds Dataset, colorIndex int, p Palette) Dataset {
	color := p.PrimaryAt(colorIndex)

	out := Dataset(copyMap(ds))
	if out == nil {
		out = Dataset{}
	}
	fill := func(key, value string) {
		if !isSet(out[key]) {
			out[key] = value
		}
	}
	fill("borderColor", color)
	fill("backgroundColor", color+fillAlphaSuffix)
	fill("pointBackgroundColor", color)
	fill("pointBorderColor", color)
	return out
}

// RetintOptions returns a deep copy of opts with every title, legend label,
// tick and grid color replaced by the palette's. Paths missing from opts stay
// missing.
func RetintOptions(opts Options, p Palette) Options {
	out := Options(copyMap(opts))
	if out == nil {
		return Options{}
	}

	if plugins, ok := asMap(out["plugins"]); ok {
		if title, ok := asMap(plugins["title"]); ok {
			title["color"] = p.Text
		}
		if legend, ok := asMap(plugins["legend"]); ok {
			if labels, ok := asMap(legend["labels"]); ok {
				labels["color"] = p.Text
			}
		}
	}

	if scales, ok := asMap(out["scales"]); ok {
		for _, s := range scales {
			scale, ok := asMap(s)
			if !ok {
				continue
			}
			if ticks, ok := asMap(scale["ticks"]); ok {
				ticks["color"] = p.Text
			}
			if grid, ok := asMap(scale["grid"]); ok {
				grid["color"] = p.Grid
			}
			if title, ok := asMap(scale["title"]); ok {
				title["color"] = p.Text
			}
		}
	}
	return out
}

// Build assembles a Config for chartType from caller data and option
// overrides, themed with p.
//
// The baseline (responsive layout, top legend, x/y axes for cartesian kinds)
// is merged with opts.plugins and opts.scales and retinted. Every top-level
// entry of opts is then applied on top as-is, so colors set there win over
// the palette.
func Build(chartType string, data Data, opts Options, p Palette) Config {
	themed := Data(copyMap(data))
	if themed == nil {
		themed = Data{}
	}
	src := datasetsOf(data["datasets"])
	datasets := make([]Dataset, len(src))
	for i, ds := range src {
		datasets[i] = DecorateDataset(ds, i, p)
	}
	themed["datasets"] = datasets

	plugins := map[string]any{
		"legend": map[string]any{
			"display":  true,
			"position": "top",
			"labels":   map[string]any{"color": p.Text},
		},
	}
	if extra, ok := asMap(opts["plugins"]); ok {
		for k, v := range extra {
			plugins[k] = copyValue(v)
		}
	}

	base := Options{
		"responsive":          true,
		"maintainAspectRatio": false,
		"plugins":             plugins,
	}

	if hasCartesianAxes(chartType) {
		scales := map[string]any{
			"x": axis(p),
			"y": axis(p),
		}
		if extra, ok := asMap(opts["scales"]); ok {
			for k, v := range extra {
				scales[k] = copyValue(v)
			}
		}
		base["scales"] = scales
	} else if s, ok := opts["scales"]; ok && s != nil {
		base["scales"] = copyValue(s)
	}

	final := RetintOptions(base, p)
	for k, v := range opts {
		final[k] = copyValue(v)
	}

	return Config{Type: chartType, Data: themed, Options: final}
}

func hasCartesianAxes(chartType string) bool {
	switch chartType {
	case Pie, Doughnut, PolarArea:
		return false
	}
	return true
}

func axis(p Palette) map[string]any {
	return map[string]any{
		"ticks": map[string]any{"color": p.Text},
		"grid":  map[string]any{"color": p.Grid},
	}
}

// datasetsOf normalizes the shapes a datasets list arrives in. Entries that
// are not maps become empty datasets.
func datasetsOf(v any) []Dataset {
	switch t := v.(type) {
	case []Dataset:
		return t
	case []map[string]any:
		out := make([]Dataset, len(t))
		for i, m := range t {
			out[i] = Dataset(m)
		}
		return out
	case []any:
		out := make([]Dataset, len(t))
		for i, e := range t {
			if m, ok := asMap(e); ok {
				out[i] = Dataset(m)
			} else {
				out[i] = Dataset{}
			}
		}
		return out
	}
	return nil
}
