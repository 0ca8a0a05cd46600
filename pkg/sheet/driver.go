// Package sheet tiles physical labels onto label sheets.
//
// It holds the built-in database of supported sheet types ([Lookup], [All])
// and the [Driver] that walks the label slots of consecutive pages and calls a
// render function once per slot with the slot's size.
//
// Slots are filled column by column: top to bottom within a column, then the
// next column to the right. A start offset skips already used slots on the
// first page.
package sheet

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/label"
	"github.com/matzehuels/asnlabels/pkg/observability"
)

// Document is a paginated canvas.
type Document interface {
	label.Canvas
	// AddPage starts a new, empty page and resets the drawing state.
	AddPage() error
}

// RenderFunc renders one physical label of size width x height at the
// current canvas origin. It should return ctx.Err() once ctx is done.
type RenderFunc func(ctx context.Context, c label.Canvas, width, height float64) error

// Driver places physical labels on the pages of a Document.
type Driver struct {
	Type    Type
	OffsetX float64 // Print offset applied to every label, points
	OffsetY float64
	Debug   bool // Outline every label slot
	Logger  *log.Logger
}

// NewDriver creates a driver for the given sheet type.
func NewDriver(t Type, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{Type: t, Logger: logger}
}

// Pages returns how many pages count labels need when the first offset slots
// of the first page are skipped. A negative offset is rejected by Render and
// yields 0 here.
func (d *Driver) Pages(count, offset int) int {
	if count <= 0 || offset < 0 {
		return 0
	}
	per := d.Type.PerPage()
	offset %= per
	return (offset + count + per - 1) / per
}

// Position returns the lower-left corner of slot n (0-based) on a page, in
// page coordinates with the origin at the bottom-left, before the print
// offset is applied.
func (d *Driver) Position(n int) (x, y float64) {
	t := d.Type
	down := n % t.Rows
	across := n / t.Rows
	x = t.MarginX + float64(across)*(t.LabelWidth+t.GapX)
	y = t.Page.Height - t.MarginY - t.LabelHeight - float64(down)*(t.LabelHeight+t.GapY)
	return x, y
}

// Render calls fn once for each of count physical labels, starting a new page
// whenever the current one is full. It returns the number of pages used.
func (d *Driver) Render(ctx context.Context, doc Document, fn RenderFunc, count, offset int) (int, error) {
	t := d.Type
	per := t.PerPage()
	if offset < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "offset must not be negative, got %d", offset)
	}
	if offset >= per {
		d.Logger.Warn("offset exceeds labels per page, wrapping", "offset", offset, "per_page", per)
		offset %= per
	}

	hooks := observability.Render()
	pages := 0
	pos := offset
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		if i == 0 || pos == per {
			if err := doc.AddPage(); err != nil {
				return pages, errors.Wrap(errors.ErrCodeRender, err, "add page %d", pages+1)
			}
			pages++
			hooks.OnPageAdded(ctx, pages)
			d.Logger.Debug("started page", "page", pages)
			if pos == per {
				pos = 0
			}
		}

		if err := d.renderSlot(ctx, doc, fn, pos); err != nil {
			return pages, err
		}
		hooks.OnLabelRendered(ctx, i+1, count)
		pos++
	}
	return pages, nil
}

func (d *Driver) renderSlot(ctx context.Context, doc Document, fn RenderFunc, pos int) error {
	t := d.Type
	x, y := d.Position(pos)

	doc.SaveState()
	defer doc.RestoreState()
	doc.Translate(x+d.OffsetX, y+d.OffsetY)

	if d.Debug {
		if err := doc.StrokeRect(0, 0, t.LabelWidth, t.LabelHeight); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "outline slot %d", pos)
		}
	}
	return fn(ctx, doc, t.LabelWidth, t.LabelHeight)
}
