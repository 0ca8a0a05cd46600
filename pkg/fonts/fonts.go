// Package fonts provides the built-in font used for label text.
//
// The Go Regular font ships with golang.org/x/image, so it is compiled into
// the binary and needs no font files on the host.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family is the font family name the canvases register the font under.
const Family = "goregular"

// RegularTTF returns the TrueType data of Go Regular.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	parsed    *opentype.Font
	parsedErr error
	parseOnce sync.Once
)

// Regular returns the parsed Go Regular font. The result is cached after the
// first call.
func Regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// Face returns a font face of Go Regular at size points for the given DPI.
func Face(size, dpi float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}
