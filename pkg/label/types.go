package label

import (
	"fmt"
	"image/color"
)

// Canvas is the drawing surface the engine renders onto.
//
// Coordinates have their origin at the bottom-left corner, Y pointing up,
// in points. Translate is relative to the current state; SaveState and
// RestoreState must be paired.
type Canvas interface {
	Translate(dx, dy float64)
	SaveState()
	RestoreState()
	FillRect(x, y, w, h float64, c color.Color) error
	StrokeRect(x, y, w, h float64) error
	Circle(cx, cy, r float64, stroke bool) error
	SetFont(name string, size float64) error
	DrawText(x, y float64, text string) error
}

// Symbol draws a square machine-readable symbol (a QR code) for payload
// with its lower-left corner at (x, y) and the given side length, without
// a quiet-zone border.
type Symbol interface {
	Draw(c Canvas, payload string, side, x, y float64) error
}

// Config is the per-run render configuration. It is built once before a run
// and treated as read-only afterwards. Lengths are in points.
type Config struct {
	SubLabelsX int // Columns per physical label, at least 1
	SubLabelsY int // Rows per physical label, at least 1

	Prefix    string // Prepended to every identifier
	NumDigits int    // Minimum zero-padded width of the numeric part

	FontName string  // Font family registered on the canvas
	FontSize float64 // Also used as the text height for vertical centring
	QRSize   float64 // QR side as a fraction of the cell height (0-1)
	QRMargin float64

	BarWidth          float64 // 0 disables the bar
	BarColor          color.Color
	HighlightBarWidth float64 // 0 disables the highlight bar
	HighlightBarColor color.Color

	Debug          bool // Larger, inset position helpers
	PositionHelper bool // Corner guides on every cell
}

// Validate reports the first configuration value that violates the engine's
// preconditions.
func (c Config) Validate() error {
	switch {
	case c.SubLabelsX < 1:
		return fmt.Errorf("sub labels x must be at least 1, got %d", c.SubLabelsX)
	case c.SubLabelsY < 1:
		return fmt.Errorf("sub labels y must be at least 1, got %d", c.SubLabelsY)
	case c.NumDigits < 0:
		return fmt.Errorf("num digits must not be negative, got %d", c.NumDigits)
	case c.FontSize < 0, c.QRMargin < 0, c.BarWidth < 0, c.HighlightBarWidth < 0:
		return fmt.Errorf("lengths must not be negative")
	case c.QRSize < 0 || c.QRSize > 1:
		return fmt.Errorf("qr size must be between 0 and 1, got %v", c.QRSize)
	}
	return nil
}

// PerLabel returns the number of identifiers one physical label consumes.
func (c Config) PerLabel() int {
	return c.SubLabelsX * c.SubLabelsY
}

// Cell is one sub-label inside a physical label. X and Y are the offset of
// the cell origin from the physical label origin.
type Cell struct {
	Column, Row   int
	X, Y          float64
	Width, Height float64
	ID            string
}

// Counter hands out sequential identifier values. One Counter is shared by
// every physical label of a run and is never reset mid-run. It is not safe
// for concurrent use.
type Counter struct {
	start   int
	current int
}

// NewCounter creates a counter whose first value is start.
func NewCounter(start int) *Counter {
	return &Counter{start: start, current: start}
}

// Current returns the value the next call to Next will hand out.
func (c *Counter) Current() int { return c.current }

// Next returns the current value and advances the counter by one.
func (c *Counter) Next() int {
	v := c.current
	c.current++
	return v
}

// Rendered returns how many values have been handed out.
func (c *Counter) Rendered() int { return c.current - c.start }

// FormatID returns prefix followed by value zero-padded to digits.
// Values wider than digits are kept in full.
func FormatID(prefix string, value, digits int) string {
	return prefix + fmt.Sprintf("%0*d", digits, value)
}
