// Package chartimg draws static PNG versions of themed chart configs for
// readers that do not run scripts.
package chartimg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/charttheme"
)

var (
	// ErrUnsupportedType is returned for chart kinds without a static renderer.
	ErrUnsupportedType = errors.New("unsupported chart type")
	// ErrNoData is returned when no dataset carries numeric values.
	ErrNoData = errors.New("no numeric data")
)

const (
	imageWidth  = 800
	imageHeight = 400
)

// Supported reports whether chartType has a static renderer.
func Supported(chartType string) bool {
	return chartType == charttheme.Line || chartType == charttheme.Bar
}

// Render draws cfg as a PNG using p for text, background and grid colors.
// Series colors come from the datasets themselves.
func Render(w io.Writer, cfg charttheme.Config, p charttheme.Palette) error {
	switch cfg.Type {
	case charttheme.Line:
		return renderLine(w, cfg, p)
	case charttheme.Bar:
		return renderBar(w, cfg, p)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
}

type themeStyles struct {
	text, background, grid drawing.Color
}

func stylesFor(p charttheme.Palette) themeStyles {
	return themeStyles{
		text:       colorOr(p.Text, drawing.Color{A: 255}),
		background: colorOr(p.Background, drawing.Color{R: 255, G: 255, B: 255, A: 255}),
		grid:       colorOr(p.Grid, drawing.Color{R: 128, G: 128, B: 128, A: 40}),
	}
}

func (s themeStyles) axis() chart.Style {
	return chart.Style{
		FontSize:    10,
		FontColor:   s.text,
		StrokeColor: s.grid,
		StrokeWidth: 1,
	}
}

func (s themeStyles) yAxis() chart.YAxis {
	return chart.YAxis{
		Style:          s.axis(),
		GridMajorStyle: chart.Style{StrokeColor: s.grid, StrokeWidth: 1},
		GridMinorStyle: chart.Style{StrokeColor: s.grid, StrokeWidth: 0.5},
	}
}

func renderLine(w io.Writer, cfg charttheme.Config, p charttheme.Palette) error {
	st := stylesFor(p)
	labels := labelsOf(cfg.Data["labels"])

	var series []chart.Series
	named := false
	for i, ds := range datasetsOf(cfg.Data) {
		xs, ys := points(ds["data"])
		if len(ys) == 0 {
			continue
		}
		stroke := colorOr(ds["borderColor"], colorOr(p.PrimaryAt(i), st.text))
		name, _ := ds["label"].(string)
		named = named || name != ""
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: stroke,
				StrokeWidth: 2,
				DotColor:    colorOr(ds["pointBackgroundColor"], stroke),
				DotWidth:    3,
			},
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}

	graph := chart.Chart{
		Width:  imageWidth,
		Height: imageHeight,
		Background: chart.Style{
			FillColor: st.background,
			Padding:   chart.Box{Top: 30, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: st.background},
		XAxis: chart.XAxis{
			Style:          st.axis(),
			Ticks:          ticks,
			GridMajorStyle: chart.Style{StrokeColor: st.grid, StrokeWidth: 1},
		},
		YAxis:  st.yAxis(),
		Series: series,
	}
	if named {
		graph.Elements = []chart.Renderable{
			chart.Legend(&graph, chart.Style{FillColor: st.background, FontColor: st.text, StrokeColor: st.grid}),
		}
	}
	return graph.Render(chart.PNG, w)
}

// renderBar draws the first dataset; grouped bars have no static form.
func renderBar(w io.Writer, cfg charttheme.Config, p charttheme.Palette) error {
	st := stylesFor(p)
	labels := labelsOf(cfg.Data["labels"])

	datasets := datasetsOf(cfg.Data)
	if len(datasets) == 0 {
		return ErrNoData
	}
	ds := datasets[0]
	xs, ys := points(ds["data"])
	if len(ys) == 0 {
		return ErrNoData
	}

	stroke := colorOr(ds["borderColor"], colorOr(p.PrimaryAt(0), st.text))
	bars := make([]chart.Value, len(ys))
	for i, y := range ys {
		label := ""
		if idx := int(xs[i]); idx < len(labels) {
			label = labels[idx]
		}
		bars[i] = chart.Value{
			Label: label,
			Value: y,
			Style: chart.Style{
				FillColor:   drawing.Color{R: stroke.R, G: stroke.G, B: stroke.B, A: 200},
				StrokeColor: stroke,
				StrokeWidth: 1,
			},
		}
	}

	graph := chart.BarChart{
		Width:    imageWidth,
		Height:   imageHeight,
		BarWidth: 40,
		Background: chart.Style{
			FillColor: st.background,
			Padding:   chart.Box{Top: 30, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: st.background},
		XAxis:  st.axis(),
		YAxis:  st.yAxis(),
		Bars:   bars,
	}
	return graph.Render(chart.PNG, w)
}

func datasetsOf(data charttheme.Data) []charttheme.Dataset {
	switch t := data["datasets"].(type) {
	case []charttheme.Dataset:
		return t
	case []any:
		out := make([]charttheme.Dataset, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func labelsOf(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			out[i] = fmt.Sprint(e)
		}
		return out
	}
	return nil
}

// points returns the numeric entries of a data list with their positions.
// Non-numeric entries (gaps) are dropped.
func points(v any) (xs, ys []float64) {
	var raw []any
	switch t := v.(type) {
	case []any:
		raw = t
	case []float64:
		for i, f := range t {
			xs, ys = append(xs, float64(i)), append(ys, f)
		}
		return xs, ys
	case []int:
		for i, n := range t {
			xs, ys = append(xs, float64(i)), append(ys, float64(n))
		}
		return xs, ys
	}
	for i, e := range raw {
		var f float64
		switch n := e.(type) {
		case int:
			f = float64(n)
		case int64:
			f = float64(n)
		case uint64:
			f = float64(n)
		case float64:
			f = n
		default:
			continue
		}
		xs, ys = append(xs, float64(i)), append(ys, f)
	}
	return xs, ys
}

// Writer stores fallback images in Dir and hands back their URLs.
type Writer struct {
	Dir       string
	URLPrefix string
	Palette   charttheme.Palette
	// OnWrite, when set, is told about every file written.
	OnWrite func(path string, size int)
}

// Fallback renders cfg to <Dir>/<name>-<index>.png.
func (wr *Writer) Fallback(name string, index int, cfg charttheme.Config) (string, error) {
	if !Supported(cfg.Type) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
	var buf bytes.Buffer
	if err := Render(&buf, cfg, wr.Palette); err != nil {
		return "", fmt.Errorf("render %s chart %d: %w", name, index, err)
	}
	if err := os.MkdirAll(wr.Dir, 0755); err != nil {
		return "", err
	}
	file := fmt.Sprintf("%s-%d.png", name, index)
	path := filepath.Join(wr.Dir, file)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	if wr.OnWrite != nil {
		wr.OnWrite(path, buf.Len())
	}
	return strings.TrimRight(wr.URLPrefix, "/") + "/" + file, nil
}
