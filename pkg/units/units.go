// Package units converts user-supplied measurements and colours into the
// values the renderers work with.
//
// All lengths are expressed in PDF points (1/72 inch), the native unit of
// both the label sheet database and the canvas backends.
package units

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/asnlabels/pkg/errors"
)

// Unit multipliers converting a value in the named unit to points.
const (
	Pt   = 1.0
	Inch = 72.0
	Pica = 12.0
	Cm   = Inch / 2.54
	Mm   = Cm / 10
)

// suffixes is ordered so that longer suffixes are matched first.
var suffixes = []struct {
	name  string
	scale float64
}{
	{"pica", Pica},
	{"inch", Inch},
	{"mm", Mm},
	{"cm", Cm},
	{"in", Inch},
	{"pt", Pt},
}

// ParseLength parses a length such as "2mm", "0.4cm", "-1.5mm", "1in" or a
// bare number (points) and returns the value in points.
func ParseLength(s string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, errors.New(errors.ErrCodeInvalidLength, "empty length")
	}

	scale := Pt
	for _, suf := range suffixes {
		if strings.HasSuffix(v, suf.name) {
			scale = suf.scale
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.name))
			break
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeInvalidLength, "invalid length %q (examples: 2mm, 0.4cm, 1in, 12pt)", s)
	}
	return f * scale, nil
}

// FormatLength renders points back into millimetres for display.
func FormatLength(pt float64) string {
	return strconv.FormatFloat(pt/Mm, 'f', -1, 64) + "mm"
}

// ParseColor parses a hex colour like "d2dede" or "#d2dede".
// Three-digit shorthand ("#abc") is accepted as well; anything else that is
// not exactly six hex digits is rejected.
func ParseColor(s string) (color.RGBA, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if (len(v) != 3 && len(v) != 6) || strings.Trim(strings.ToLower(v), "0123456789abcdef") != "" {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid colour %q (expected 3 or 6 hex digits, e.g. d2dede)", s)
	}
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	c, err := colorful.Hex("#" + v)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid colour %q (expected hex, e.g. d2dede)", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// HexColor formats a colour as lowercase hex without the leading '#'.
func HexColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "000000"
	}
	return strings.TrimPrefix(cf.Hex(), "#")
}
