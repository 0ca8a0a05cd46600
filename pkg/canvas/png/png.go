// Package png implements the label canvas on top of github.com/fogleman/gg,
// producing one raster image per page.
//
// It is meant for quick previews of a layout. Coordinates follow the same
// bottom-left, point-based convention as the PDF canvas and are scaled to
// pixels with the configured DPI.
package png

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/asnlabels/pkg/canvas"
	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/fonts"
)

// DefaultDPI is the raster resolution used when none is given.
const DefaultDPI = 150.0

// Document is a multi-page raster canvas.
type Document struct {
	width, height float64 // page size in points
	dpi           float64
	scale         float64 // pixels per point
	state         canvas.Stack
	dc            *gg.Context
	pages         []image.Image
	faces         map[float64]font.Face
}

// New creates an empty document with pages of width x height points rendered
// at dpi. A dpi of 0 selects DefaultDPI.
func New(width, height, dpi float64) *Document {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Document{
		width:  width,
		height: height,
		dpi:    dpi,
		scale:  dpi / 72,
		faces:  make(map[float64]font.Face),
	}
}

// AddPage starts a new white page and resets the drawing state.
func (d *Document) AddPage() error {
	d.flush()
	w := int(d.width*d.scale + 0.5)
	h := int(d.height*d.scale + 0.5)
	d.dc = gg.NewContext(w, h)
	d.dc.SetRGB(1, 1, 1)
	d.dc.Clear()
	d.dc.SetLineWidth(d.scale)
	d.state.Reset()
	return nil
}

func (d *Document) flush() {
	if d.dc != nil {
		d.pages = append(d.pages, d.dc.Image())
		d.dc = nil
	}
}

// Translate moves the origin by (dx, dy).
func (d *Document) Translate(dx, dy float64) { d.state.Translate(dx, dy) }

// SaveState pushes the current translation.
func (d *Document) SaveState() { d.state.Save() }

// RestoreState pops the translation saved by the matching SaveState.
func (d *Document) RestoreState() { d.state.Restore() }

// pixel converts a point in user space to image pixels (origin top-left).
func (d *Document) pixel(x, y float64) (float64, float64) {
	px, py := d.state.Apply(x, y)
	return px * d.scale, (d.height - py) * d.scale
}

func (d *Document) requirePage() error {
	if d.dc == nil {
		return errors.New(errors.ErrCodeRender, "no page: call AddPage first")
	}
	return nil
}

// FillRect fills the rectangle with lower-left corner (x, y).
func (d *Document) FillRect(x, y, w, h float64, c color.Color) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	left, top := d.pixel(x, y+h)
	d.dc.DrawRectangle(left, top, w*d.scale, h*d.scale)
	d.dc.SetColor(c)
	d.dc.Fill()
	return nil
}

// StrokeRect outlines the rectangle with lower-left corner (x, y).
func (d *Document) StrokeRect(x, y, w, h float64) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	left, top := d.pixel(x, y+h)
	d.dc.DrawRectangle(left, top, w*d.scale, h*d.scale)
	d.dc.SetColor(color.Black)
	d.dc.Stroke()
	return nil
}

// Circle draws a circle around (cx, cy), outlined or filled.
func (d *Document) Circle(cx, cy, r float64, stroke bool) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	px, py := d.pixel(cx, cy)
	d.dc.DrawCircle(px, py, r*d.scale)
	d.dc.SetColor(color.Black)
	if stroke {
		d.dc.Stroke()
	} else {
		d.dc.Fill()
	}
	return nil
}

// SetFont selects the built-in font at size points. Only fonts.Family is
// available.
func (d *Document) SetFont(name string, size float64) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	if name != fonts.Family {
		return errors.New(errors.ErrCodeUnsupported, "font %q is not available, only %q", name, fonts.Family)
	}
	face, ok := d.faces[size]
	if !ok {
		var err error
		face, err = fonts.Face(size, d.dpi)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "load font face %.2f", size)
		}
		d.faces[size] = face
	}
	d.dc.SetFontFace(face)
	return nil
}

// DrawText draws text with its baseline starting at (x, y).
func (d *Document) DrawText(x, y float64, text string) error {
	if err := d.requirePage(); err != nil {
		return err
	}
	px, py := d.pixel(x, y)
	d.dc.SetColor(color.Black)
	d.dc.DrawString(text, px, py)
	return nil
}

// Pages finishes the current page and returns all page images.
func (d *Document) Pages() []image.Image {
	d.flush()
	return d.pages
}

// EncodePage writes page i (0-based) as PNG to w.
func (d *Document) EncodePage(i int, w io.Writer) error {
	pages := d.Pages()
	if i < 0 || i >= len(pages) {
		return errors.New(errors.ErrCodeInternal, "page %d out of range (have %d)", i+1, len(pages))
	}
	ctx := gg.NewContextForImage(pages[i])
	if err := ctx.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode page %d", i+1)
	}
	return nil
}

// PageName returns the file name for page i (0-based) derived from base,
// e.g. "labels-1.png".
func PageName(base string, i int) string {
	return fmt.Sprintf("%s-%d.png", base, i+1)
}

// WritePages writes every page to base-N.png and returns the file names.
func (d *Document) WritePages(base string) ([]string, error) {
	pages := d.Pages()
	names := make([]string, 0, len(pages))
	for i := range pages {
		name := PageName(base, i)
		f, err := os.Create(name)
		if err != nil {
			return names, errors.Wrap(errors.ErrCodeIO, err, "create %s", name)
		}
		if err := d.EncodePage(i, f); err != nil {
			f.Close()
			return names, err
		}
		if err := f.Close(); err != nil {
			return names, errors.Wrap(errors.ErrCodeIO, err, "close %s", name)
		}
		names = append(names, name)
	}
	return names, nil
}

// Close releases cached font faces.
func (d *Document) Close() error {
	for size, f := range d.faces {
		f.Close()
		delete(d.faces, size)
	}
	return nil
}
