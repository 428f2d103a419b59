package chartimg

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// parseColor understands the color forms the palettes use: #rgb, #rrggbb,
// #rrggbbaa and rgb()/rgba().
func parseColor(s string) (drawing.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		alpha := uint8(255)
		if len(s) == 9 {
			a, err := strconv.ParseUint(s[7:], 16, 8)
			if err != nil {
				return drawing.Color{}, fmt.Errorf("bad alpha in %q: %w", s, err)
			}
			alpha = uint8(a)
			s = s[:7]
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return drawing.Color{}, err
		}
		r, g, b := c.RGB255()
		return drawing.Color{R: r, G: g, B: b, A: alpha}, nil
	case strings.HasPrefix(s, "rgb"):
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return drawing.Color{}, fmt.Errorf("malformed color %q", s)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return drawing.Color{}, fmt.Errorf("malformed color %q", s)
		}
		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
			if err != nil {
				return drawing.Color{}, fmt.Errorf("malformed color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		alpha := uint8(255)
		if len(parts) == 4 {
			f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || f < 0 || f > 1 {
				return drawing.Color{}, fmt.Errorf("malformed alpha in %q", s)
			}
			alpha = uint8(f*255 + 0.5)
		}
		return drawing.Color{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, nil
	}
	return drawing.Color{}, fmt.Errorf("unsupported color %q", s)
}

// colorOr parses v when it is a color string and returns fallback otherwise.
func colorOr(v any, fallback drawing.Color) drawing.Color {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	c, err := parseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
