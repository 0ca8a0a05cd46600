package label

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/asnlabels/pkg/errors"
)

// Position helper geometry. In debug mode the guides are pulled inside the
// cell so they show on the label body; otherwise they sit exactly on the
// corners and only matter when checking a print against a template.
const (
	helperRadius      = 0.1
	debugHelperRadius = 0.5
)

// Engine renders physical labels for one run.
type Engine struct {
	cfg     Config
	counter *Counter
	symbol  Symbol
	logger  *log.Logger
}

// NewEngine creates an engine drawing symbols with symbol and taking
// identifiers from counter. If logger is nil, log.Default() is used.
func NewEngine(cfg Config, counter *Counter, symbol Symbol, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{cfg: cfg, counter: counter, symbol: symbol, logger: logger}
}

// Config returns the engine's render configuration.
func (e *Engine) Config() Config { return e.cfg }

// Counter returns the counter shared by all physical labels of the run.
func (e *Engine) Counter() *Counter { return e.counter }

// Cells returns the cell geometry of a width x height physical label in
// rendering order. The returned cells carry no identifiers.
func (e *Engine) Cells(width, height float64) []Cell {
	return Cells(e.cfg.SubLabelsX, e.cfg.SubLabelsY, width, height)
}

// Cells partitions a width x height label into cols x rows cells and returns
// them in rendering order: columns ascending, rows descending.
func Cells(cols, rows int, width, height float64) []Cell {
	w := width / float64(cols)
	h := height / float64(rows)

	cells := make([]Cell, 0, cols*rows)
	for i := 0; i < cols; i++ {
		for j := rows - 1; j >= 0; j-- {
			cells = append(cells, Cell{
				Column: i,
				Row:    j,
				X:      w * float64(i),
				Y:      h * float64(j),
				Width:  w,
				Height: h,
			})
		}
	}
	return cells
}

// RenderPhysicalLabel draws every cell of one width x height physical label
// onto c, advancing the counter once per cell. The canvas state after return
// equals the state before the call, also when a primitive fails.
func (e *Engine) RenderPhysicalLabel(c Canvas, width, height float64) error {
	return e.RenderPhysicalLabelContext(context.Background(), c, width, height)
}

// RenderPhysicalLabelContext is like RenderPhysicalLabel but stops before the
// next cell once ctx is done. Cells not yet started keep their identifiers.
func (e *Engine) RenderPhysicalLabelContext(ctx context.Context, c Canvas, width, height float64) error {
	for _, cell := range e.Cells(width, height) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.renderCell(c, cell); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) renderCell(c Canvas, cell Cell) error {
	c.SaveState()
	defer c.RestoreState()
	c.Translate(cell.X, cell.Y)

	cell.ID = FormatID(e.cfg.Prefix, e.counter.Next(), e.cfg.NumDigits)
	e.logger.Debug("rendering cell", "id", cell.ID, "column", cell.Column, "row", cell.Row)

	if err := e.drawCell(c, cell); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "render %s at cell %d/%d", cell.ID, cell.Column, cell.Row)
	}
	return nil
}

func (e *Engine) drawCell(c Canvas, cell Cell) error {
	cfg := e.cfg
	w, h := cell.Width, cell.Height

	side := QRSide(h, cfg.QRSize, cfg.QRMargin)
	if err := e.symbol.Draw(c, cell.ID, side, cfg.QRMargin, (h-side)/2); err != nil {
		return err
	}

	if err := c.SetFont(cfg.FontName, cfg.FontSize); err != nil {
		return err
	}
	if err := c.DrawText(side+2*cfg.QRMargin, (h-cfg.FontSize)/2, cell.ID); err != nil {
		return err
	}

	if cfg.BarWidth > 0 {
		if err := c.FillRect(w-cfg.BarWidth, 0, cfg.BarWidth, h, cfg.BarColor); err != nil {
			return err
		}
	}
	// Drawn even without a primary bar, in which case it is flush right.
	if cfg.HighlightBarWidth > 0 {
		x := w - cfg.BarWidth - cfg.HighlightBarWidth
		if err := c.FillRect(x, 0, cfg.HighlightBarWidth, h, cfg.HighlightBarColor); err != nil {
			return err
		}
	}

	if cfg.PositionHelper {
		return drawPositionHelpers(c, w, h, cfg.Debug)
	}
	return nil
}

// QRSide returns the QR box side for a cell of the given height: the
// configured fraction of the height, capped so the top and bottom margins
// still fit.
func QRSide(cellHeight, fraction, margin float64) float64 {
	return math.Min(cellHeight*fraction, cellHeight-2*margin)
}

// HelperGeometry returns the radius and corner inset of the position helpers.
func HelperGeometry(debug bool) (radius, inset float64) {
	if debug {
		return debugHelperRadius, debugHelperRadius
	}
	return helperRadius, 0
}

func drawPositionHelpers(c Canvas, w, h float64, debug bool) error {
	r, d := HelperGeometry(debug)
	corners := [4][2]float64{
		{d, d},
		{w - d, d},
		{d, h - d},
		{w - d, h - d},
	}
	for _, p := range corners {
		if err := c.Circle(p[0], p[1], r, true); err != nil {
			return err
		}
	}
	return nil
}
