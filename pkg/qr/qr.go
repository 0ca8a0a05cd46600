// Package qr draws QR code symbols as vector modules onto a label canvas.
//
// Symbols are encoded with github.com/boombuler/barcode at error correction
// level M and drawn without a quiet zone; the caller reserves margins. Each
// row of dark modules is emitted as horizontal runs of filled rectangles so
// the output stays sharp at any print resolution.
package qr

import (
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/label"
)

// Matrix is a square grid of modules, true for dark. Row 0 is the top row.
type Matrix [][]bool

// Size returns the number of modules per side.
func (m Matrix) Size() int { return len(m) }

// Renderer encodes and draws QR symbols. Encoded matrices are memoised per
// payload for the lifetime of the Renderer. It is not safe for concurrent use.
type Renderer struct {
	Level    qr.ErrorCorrectionLevel
	Color    color.Color
	matrices map[string]Matrix
}

// NewRenderer returns a Renderer using error correction level M and black modules.
func NewRenderer() *Renderer {
	return &Renderer{
		Level:    qr.M,
		Color:    color.Black,
		matrices: make(map[string]Matrix),
	}
}

var _ label.Symbol = (*Renderer)(nil)

// Encode returns the module matrix for payload.
func (r *Renderer) Encode(payload string) (Matrix, error) {
	if m, ok := r.matrices[payload]; ok {
		return m, nil
	}
	code, err := qr.Encode(payload, r.Level, qr.Auto)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode qr %q", payload)
	}
	m := toMatrix(code)
	r.matrices[payload] = m
	return m, nil
}

func toMatrix(code barcode.Barcode) Matrix {
	b := code.Bounds()
	n := b.Dx()
	m := make(Matrix, n)
	for y := 0; y < n; y++ {
		m[y] = make([]bool, n)
		for x := 0; x < n; x++ {
			g := color.GrayModel.Convert(code.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			m[y][x] = g.Y < 0x80
		}
	}
	return m
}

// Draw draws the symbol for payload as a side x side square with its
// lower-left corner at (x, y).
func (r *Renderer) Draw(c label.Canvas, payload string, side, x, y float64) error {
	m, err := r.Encode(payload)
	if err != nil {
		return err
	}
	n := m.Size()
	if n == 0 || side <= 0 {
		return nil
	}
	module := side / float64(n)

	for row := 0; row < n; row++ {
		// Canvas Y points up, matrix rows go down.
		my := y + side - float64(row+1)*module
		for col := 0; col < n; {
			if !m[row][col] {
				col++
				continue
			}
			start := col
			for col < n && m[row][col] {
				col++
			}
			if err := c.FillRect(x+float64(start)*module, my, float64(col-start)*module, module, r.Color); err != nil {
				return err
			}
		}
	}
	return nil
}
