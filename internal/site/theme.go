package site

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/NicoGrassetto/nico-grassetto-blog/internal/charttheme"
)

// theme holds site-wide styling properties. Colors for text and background
// come from the chart palettes so pages and charts always agree.
type theme struct {
	FontFamily        string
	MaxContentWidth   string
	TextDeEmphasize   string // color for de-emphasized text, e.g. dates
	ArticleLineHeight string // CSS line-height for article content
}

func defaultTheme() theme {
	return theme{
		FontFamily:        "-apple-system, Helvetica, Arial, sans-serif",
		MaxContentWidth:   "720px",
		TextDeEmphasize:   "#8a94a6",
		ArticleLineHeight: "1.6",
	}
}

var propRe = regexp.MustCompile(`^\-\s*([a-z\-]+):\s*(.+)$`)

// loadTheme reads a Markdown theme file and extracts its properties.
// It looks for a "# Properties" section and parses lines like:
//   - font-family: Helvetica
//   - text-de-emphasize: #676767
//   - article-line-height: 1.5
//
// A missing file yields the defaults.
func loadTheme(path string) (theme, error) {
	th := defaultTheme()
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return th, nil
		}
		return th, err
	}

	inProps := false
	for _, line := range bytes.Split(content, []byte("\n")) {
		trim := strings.TrimSpace(string(line))
		if strings.EqualFold(trim, "# Properties") {
			inProps = true
			continue
		}
		if !inProps {
			continue
		}
		// stop at next header
		if strings.HasPrefix(trim, "# ") {
			break
		}
		m := propRe.FindStringSubmatch(trim)
		if m == nil {
			continue
		}
		switch m[1] {
		case "font-family":
			th.FontFamily = m[2]
		case "max-content-width":
			th.MaxContentWidth = m[2]
		case "text-de-emphasize":
			th.TextDeEmphasize = m[2]
		case "article-line-height":
			th.ArticleLineHeight = m[2]
		}
	}
	return th, nil
}

// css renders the page stylesheet. The dark palette is the default so pages
// without a data-theme attribute match the charts' fallback.
func (th theme) css() string {
	light, dark := charttheme.Light(), charttheme.Dark()
	return fmt.Sprintf(`
	:root, [data-theme="dark"] { --fg: %s; --bg: %s; --rule: %s; }
	[data-theme="light"] { --fg: %s; --bg: %s; --rule: %s; }
	body { font-family: %s; color: var(--fg); background-color: var(--bg); }
	a { color: inherit; }
	.container { max-width: %s; margin: auto; padding: 0 1em; }
	.container p { line-height: %s }
	.date { color: %s }
	figure.chart { position: relative; height: 320px; margin: 1.5em 0; }
	pre.chart-error { border-left: 3px solid var(--rule); padding-left: 1em; }
	hr { border: 0; border-top: 1px solid var(--rule); }
`,
		dark.Text, dark.Background, dark.Border,
		light.Text, light.Background, light.Border,
		th.FontFamily, th.MaxContentWidth, th.ArticleLineHeight, th.TextDeEmphasize,
	)
}
