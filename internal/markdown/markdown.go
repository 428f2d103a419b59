// Package markdown renders post bodies to HTML and turns fenced "chart"
// blocks into themed chart canvases.
package markdown

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/charmbracelet/log"
	"github.com/russross/blackfriday/v2"
	"gopkg.in/yaml.v3"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/charttheme"
)

// ChartFallback produces a static image for a chart and returns its URL.
type ChartFallback interface {
	Fallback(name string, index int, cfg charttheme.Config) (string, error)
}

// Options configures a Converter.
type Options struct {
	// Theme selects the palette used for static fallbacks.
	Theme    charttheme.ThemeSource
	Fallback ChartFallback
	Logger   *log.Logger
}

// Rendered is the HTML of one document and the number of charts in it.
type Rendered struct {
	HTML   []byte
	Charts int
}

// Converter renders markdown documents. It is safe for concurrent use.
type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Converter{opts: opts}
}

// Render converts src. name identifies the document in fallback file names
// and log lines.
func (c *Converter) Render(name string, src []byte) Rendered {
	r := &renderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		}),
		conv: c,
		name: name,
	}
	out := blackfriday.Run(src,
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(r),
	)
	return Rendered{HTML: out, Charts: r.charts}
}

// Title returns the text of the first level-one heading, or "" if none.
func Title(src []byte) string {
	for _, line := range bytes.Split(src, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("# ")) {
			return string(bytes.TrimSpace(bytes.TrimPrefix(line, []byte("# "))))
		}
	}
	return ""
}

type renderer struct {
	*blackfriday.HTMLRenderer
	conv   *Converter
	name   string
	charts int
}

func (r *renderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type == blackfriday.CodeBlock && isChartBlock(node.Info) {
		r.renderChart(w, node.Literal)
		return blackfriday.GoToNext
	}
	return r.HTMLRenderer.RenderNode(w, node, entering)
}

func isChartBlock(info []byte) bool {
	fields := bytes.Fields(info)
	return len(fields) > 0 && string(fields[0]) == "chart"
}

type chartBlock struct {
	Type    string         `yaml:"type"`
	Data    map[string]any `yaml:"data"`
	Options map[string]any `yaml:"options"`
}

// parseChart reads a chart block. JSON blocks parse too since JSON is YAML.
func parseChart(src []byte) (chartBlock, error) {
	var b chartBlock
	if err := yaml.Unmarshal(src, &b); err != nil {
		return b, fmt.Errorf("invalid chart block: %w", err)
	}
	if b.Type == "" {
		return b, errors.New("chart block has no type")
	}
	return b, nil
}

func (r *renderer) renderChart(w io.Writer, src []byte) {
	logger := r.conv.opts.Logger
	block, err := parseChart(src)
	if err != nil {
		logger.Warn("skipping chart", "doc", r.name, "err", err)
		fmt.Fprintf(w, "<pre class=\"chart-error\">%s</pre>\n", html.EscapeString(err.Error()))
		return
	}

	index := r.charts
	r.charts++

	attrs := make([]byte, 0, 512)
	for _, theme := range charttheme.Themes() {
		cfg := charttheme.Build(block.Type, block.Data, block.Options, charttheme.PaletteFor(theme))
		raw, err := json.Marshal(cfg)
		if err != nil {
			logger.Warn("skipping chart", "doc", r.name, "err", err)
			fmt.Fprintf(w, "<pre class=\"chart-error\">%s</pre>\n", html.EscapeString(err.Error()))
			return
		}
		attrs = fmt.Appendf(attrs, " data-chart-%s=\"%s\"", theme, html.EscapeString(string(raw)))
	}

	fmt.Fprintf(w, "<figure class=\"chart\"><canvas id=\"chart-%s-%d\"%s></canvas>", r.name, index, attrs)
	if fb := r.conv.opts.Fallback; fb != nil {
		p := charttheme.NewResolver(r.conv.opts.Theme).ActivePalette()
		cfg := charttheme.Build(block.Type, block.Data, block.Options, p)
		url, err := fb.Fallback(r.name, index, cfg)
		if err != nil {
			logger.Debug("no static chart", "doc", r.name, "chart", index, "err", err)
		} else {
			fmt.Fprintf(w, "<noscript><img src=\"%s\" alt=\"%s chart\"></noscript>", html.EscapeString(url), html.EscapeString(block.Type))
		}
	}
	io.WriteString(w, "</figure>\n")
}
