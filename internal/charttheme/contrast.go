package charttheme

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ContrastRatio returns the WCAG contrast ratio of two hex colors, from 1 to 21.
func ContrastRatio(fg, bg string) (float64, error) {
	a, err := colorful.Hex(fg)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", fg, err)
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", bg, err)
	}

	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05), nil
}

// LowContrast lists the primary colors whose contrast against the palette
// background is below min. Colors that cannot be parsed are listed too.
func (p Palette) LowContrast(min float64) []string {
	var low []string
	for _, c := range p.Primary {
		ratio, err := ContrastRatio(c, p.Background)
		if err != nil || ratio < min {
			low = append(low, c)
		}
	}
	return low
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
