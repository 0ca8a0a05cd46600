// Package pdf implements the label canvas on top of github.com/signintech/gopdf.
//
// gopdf measures from the top-left corner of the page. The label engine and
// the sheet driver work with the PDF convention of a bottom-left origin, so
// every coordinate is flipped against the page height here. Translation and
// its save/restore stack are tracked in Go; gopdf only ever sees absolute
// page coordinates.
package pdf

import (
	"image/color"
	"io"

	"github.com/signintech/gopdf"

	"github.com/matzehuels/asnlabels/pkg/canvas"
	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/fonts"
)

// DefaultLineWidth is the stroke width for outlines and circles, in points.
const DefaultLineWidth = 1.0

// Document is a multi-page PDF canvas.
type Document struct {
	pdf    gopdf.GoPdf
	width  float64
	height float64
	state  canvas.Stack
	pages  int
}

// New creates an empty document with pages of width x height points and the
// built-in font registered under fonts.Family.
func New(width, height float64) (*Document, error) {
	d := &Document{width: width, height: height}
	d.pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: gopdf.Rect{W: width, H: height},
	})
	if err := d.pdf.AddTTFFontData(fonts.Family, fonts.RegularTTF()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "register font %s", fonts.Family)
	}
	d.pdf.SetLineWidth(DefaultLineWidth)
	return d, nil
}

// Pages returns the number of pages added so far.
func (d *Document) Pages() int { return d.pages }

// AddPage starts a new page and resets the drawing state.
func (d *Document) AddPage() error {
	d.pdf.AddPage()
	d.pdf.SetLineWidth(DefaultLineWidth)
	d.pdf.SetStrokeColor(0, 0, 0)
	d.state.Reset()
	d.pages++
	return nil
}

// Translate moves the origin by (dx, dy).
func (d *Document) Translate(dx, dy float64) { d.state.Translate(dx, dy) }

// SaveState pushes the current translation.
func (d *Document) SaveState() { d.state.Save() }

// RestoreState pops the translation saved by the matching SaveState.
func (d *Document) RestoreState() { d.state.Restore() }

// page converts a point in the current user space to gopdf coordinates.
func (d *Document) page(x, y float64) (float64, float64) {
	px, py := d.state.Apply(x, y)
	return px, d.height - py
}

func (d *Document) requirePage() error {
	if d.pages == 0 {
		return errors.New(errors.ErrCodeRender, "no page: call AddPage first")
	}
	return nil
}

// FillRect fills the rectangle with lower-left corner (x, y).
func (d *Document) FillRect(x, y, w, h float64, c color.Color) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	r, g, b := rgb(c)
	d.pdf.SetFillColor(r, g, b)
	left, top := d.page(x, y+h)
	d.pdf.RectFromUpperLeftWithStyle(left, top, w, h, "F")
	return nil
}

// StrokeRect outlines the rectangle with lower-left corner (x, y).
func (d *Document) StrokeRect(x, y, w, h float64) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	left, top := d.page(x, y+h)
	d.pdf.RectFromUpperLeftWithStyle(left, top, w, h, "D")
	return nil
}

// Circle strokes a circle around (cx, cy). Filled circles are not supported.
func (d *Document) Circle(cx, cy, r float64, stroke bool) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	if !stroke {
		return errors.New(errors.ErrCodeUnsupported, "filled circles are not supported by the pdf canvas")
	}
	px, py := d.page(cx, cy)
	d.pdf.Oval(px-r, py-r, px+r, py+r)
	return nil
}

// SetFont selects the font family and size in points.
func (d *Document) SetFont(name string, size float64) error {
	if err := d.pdf.SetFont(name, "", size); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "set font %s %.2f", name, size)
	}
	return nil
}

// DrawText draws text with its baseline starting at (x, y).
func (d *Document) DrawText(x, y float64, text string) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	px, py := d.page(x, y)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetXY(px, py)
	if err := d.pdf.Text(text); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "draw text %q", text)
	}
	return nil
}

// WriteTo writes the finished PDF to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.pdf.GetBytesPdfReturnErr()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeIO, err, "finalise pdf")
	}
	n, err := w.Write(data)
	return int64(n), err
}

func rgb(c color.Color) (uint8, uint8, uint8) {
	if c == nil {
		return 0, 0, 0
	}
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
