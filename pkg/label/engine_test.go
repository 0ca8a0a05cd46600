package label

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"testing"

	apperrors "github.com/matzehuels/asnlabels/pkg/errors"
)

// op is one recorded drawing call in cell-local coordinates.
type op struct {
	kind       string
	x, y, w, h float64 // rect; circle uses x, y and w as radius
	text       string
	origin     [2]float64 // translation at the time of the call
	color      color.Color
}

// recorder is a Canvas that records calls and can fail on the n-th primitive.
type recorder struct {
	tx, ty float64
	stack  [][2]float64
	ops    []op
	calls  int
	failAt int // 1-based primitive call that fails; 0 never fails
}

var errInjected = errors.New("injected failure")

func (r *recorder) Translate(dx, dy float64) { r.tx += dx; r.ty += dy }
func (r *recorder) SaveState()               { r.stack = append(r.stack, [2]float64{r.tx, r.ty}) }
func (r *recorder) RestoreState() {
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.tx, r.ty = top[0], top[1]
}

func (r *recorder) record(o op) error {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return errInjected
	}
	o.origin = [2]float64{r.tx, r.ty}
	r.ops = append(r.ops, o)
	return nil
}

func (r *recorder) FillRect(x, y, w, h float64, c color.Color) error {
	return r.record(op{kind: "rect", x: x, y: y, w: w, h: h, color: c})
}
func (r *recorder) StrokeRect(x, y, w, h float64) error {
	return r.record(op{kind: "outline", x: x, y: y, w: w, h: h})
}
func (r *recorder) Circle(cx, cy, rad float64, stroke bool) error {
	return r.record(op{kind: "circle", x: cx, y: cy, w: rad})
}
func (r *recorder) SetFont(name string, size float64) error {
	return r.record(op{kind: "font", text: name, h: size})
}
func (r *recorder) DrawText(x, y float64, text string) error {
	return r.record(op{kind: "text", x: x, y: y, text: text})
}

func (r *recorder) byKind(kind string) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// fakeSymbol records the QR box as a "qr" op on the canvas.
type fakeSymbol struct{}

func (fakeSymbol) Draw(c Canvas, payload string, side, x, y float64) error {
	r := c.(*recorder)
	return r.record(op{kind: "qr", x: x, y: y, w: side, h: side, text: payload})
}

func baseConfig() Config {
	return Config{
		SubLabelsX:        1,
		SubLabelsY:        1,
		Prefix:            "ASN",
		NumDigits:         6,
		FontName:          "goregular",
		FontSize:          5,
		QRSize:            0.9,
		QRMargin:          3,
		BarColor:          color.RGBA{0xd2, 0xde, 0xde, 0xff},
		HighlightBarColor: color.RGBA{0xd9, 0xa4, 0xa6, 0xff},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCounterAdvancesByGridSize(t *testing.T) {
	for x := 1; x <= 4; x++ {
		for y := 1; y <= 4; y++ {
			t.Run(fmt.Sprintf("%dx%d", x, y), func(t *testing.T) {
				cfg := baseConfig()
				cfg.SubLabelsX, cfg.SubLabelsY = x, y
				counter := NewCounter(10)
				e := NewEngine(cfg, counter, fakeSymbol{}, nil)

				if err := e.RenderPhysicalLabel(&recorder{}, 100, 40); err != nil {
					t.Fatalf("RenderPhysicalLabel() error = %v", err)
				}
				if got := counter.Current(); got != 10+x*y {
					t.Errorf("counter = %d, want %d", got, 10+x*y)
				}
				if got := counter.Rendered(); got != x*y {
					t.Errorf("Rendered() = %d, want %d", got, x*y)
				}
			})
		}
	}
}

func TestIdentifierAssignment(t *testing.T) {
	const cols, rows, start = 3, 4, 100
	cfg := baseConfig()
	cfg.SubLabelsX, cfg.SubLabelsY = cols, rows
	cfg.NumDigits = 4
	rec := &recorder{}
	e := NewEngine(cfg, NewCounter(start), fakeSymbol{}, nil)

	if err := e.RenderPhysicalLabel(rec, 90, 80); err != nil {
		t.Fatalf("RenderPhysicalLabel() error = %v", err)
	}

	cellW, cellH := 90.0/cols, 80.0/rows
	texts := rec.byKind("text")
	if len(texts) != cols*rows {
		t.Fatalf("got %d texts, want %d", len(texts), cols*rows)
	}
	for _, o := range texts {
		col := int(math.Round(o.origin[0] / cellW))
		row := int(math.Round(o.origin[1] / cellH))
		want := FormatID("ASN", start+col*rows+(rows-1-row), 4)
		if o.text != want {
			t.Errorf("cell (%d,%d) = %q, want %q", col, row, o.text, want)
		}
	}
}

func TestEndToEndOrder(t *testing.T) {
	cfg := baseConfig()
	cfg.SubLabelsX, cfg.SubLabelsY = 2, 3
	cfg.NumDigits = 3
	rec := &recorder{}
	e := NewEngine(cfg, NewCounter(1), fakeSymbol{}, nil)

	if err := e.RenderPhysicalLabel(rec, 60, 30); err != nil {
		t.Fatalf("RenderPhysicalLabel() error = %v", err)
	}

	want := []struct {
		id       string
		col, row int
	}{
		{"001", 0, 2}, {"002", 0, 1}, {"003", 0, 0},
		{"004", 1, 2}, {"005", 1, 1}, {"006", 1, 0},
	}
	texts := rec.byKind("text")
	if len(texts) != len(want) {
		t.Fatalf("got %d texts, want %d", len(texts), len(want))
	}
	for i, w := range want {
		got := texts[i]
		if got.text != w.id {
			t.Errorf("text[%d] = %q, want %q", i, got.text, w.id)
		}
		wantOrigin := [2]float64{float64(w.col) * 30, float64(w.row) * 10}
		if !approx(got.origin[0], wantOrigin[0]) || !approx(got.origin[1], wantOrigin[1]) {
			t.Errorf("text[%d] origin = %v, want %v", i, got.origin, wantOrigin)
		}
	}
}

func TestCellsOrder(t *testing.T) {
	cells := Cells(2, 3, 60, 30)
	want := [][2]int{{0, 2}, {0, 1}, {0, 0}, {1, 2}, {1, 1}, {1, 0}}
	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i, c := range cells {
		if c.Column != want[i][0] || c.Row != want[i][1] {
			t.Errorf("cell[%d] = (%d,%d), want %v", i, c.Column, c.Row, want[i])
		}
		if !approx(c.Width, 30) || !approx(c.Height, 10) {
			t.Errorf("cell[%d] size = %vx%v, want 30x10", i, c.Width, c.Height)
		}
	}
}

func TestFormatID(t *testing.T) {
	tests := []struct {
		prefix string
		value  int
		digits int
		want   string
	}{
		{"", 42, 6, "000042"},
		{"", 1234567, 6, "1234567"},
		{"ASN", 1, 6, "ASN000001"},
		{"B-", 7, 0, "B-7"},
		{"ASN", 999999, 6, "ASN999999"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatID(tt.prefix, tt.value, tt.digits); got != tt.want {
				t.Errorf("FormatID(%q, %d, %d) = %q, want %q", tt.prefix, tt.value, tt.digits, got, tt.want)
			}
		})
	}
}

func TestQRSide(t *testing.T) {
	tests := []struct {
		name                     string
		height, fraction, margin float64
		want                     float64
	}{
		{"margin caps", 40, 0.9, 3, 34},
		{"fraction caps", 40, 0.5, 3, 20},
		{"no margin", 40, 1, 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QRSide(tt.height, tt.fraction, tt.margin)
			if !approx(got, tt.want) {
				t.Errorf("QRSide() = %v, want %v", got, tt.want)
			}
			if got > tt.height-2*tt.margin+1e-9 || got > tt.height*tt.fraction+1e-9 {
				t.Errorf("QRSide() = %v exceeds a bound", got)
			}
		})
	}
}

func TestQRAndTextPlacement(t *testing.T) {
	cfg := baseConfig()
	rec := &recorder{}
	e := NewEngine(cfg, NewCounter(42), fakeSymbol{}, nil)

	if err := e.RenderPhysicalLabel(rec, 100, 40); err != nil {
		t.Fatalf("RenderPhysicalLabel() error = %v", err)
	}

	qr := rec.byKind("qr")[0]
	if qr.text != "ASN000042" {
		t.Errorf("qr payload = %q, want %q", qr.text, "ASN000042")
	}
	if !approx(qr.w, 34) || !approx(qr.x, 3) || !approx(qr.y, 3) {
		t.Errorf("qr = side %v at (%v,%v), want side 34 at (3,3)", qr.w, qr.x, qr.y)
	}

	text := rec.byKind("text")[0]
	if !approx(text.x, 34+6) || !approx(text.y, (40-5)/2.0) {
		t.Errorf("text at (%v,%v), want (40,17.5)", text.x, text.y)
	}

	font := rec.byKind("font")[0]
	if font.text != "goregular" || !approx(font.h, 5) {
		t.Errorf("font = %q %v, want goregular 5", font.text, font.h)
	}
}

func TestBars(t *testing.T) {
	tests := []struct {
		name              string
		bar, highlight    float64
		wantRects         int
		wantHighlightLeft float64
	}{
		{"no bars", 0, 0, 0, 0},
		{"bar only", 4, 0, 1, 0},
		{"highlight flush right", 0, 2, 1, 98},
		{"both", 4, 2, 2, 94},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.BarWidth = tt.bar
			cfg.HighlightBarWidth = tt.highlight
			rec := &recorder{}
			e := NewEngine(cfg, NewCounter(1), fakeSymbol{}, nil)

			if err := e.RenderPhysicalLabel(rec, 100, 40); err != nil {
				t.Fatalf("RenderPhysicalLabel() error = %v", err)
			}
			rects := rec.byKind("rect")
			if len(rects) != tt.wantRects {
				t.Fatalf("got %d rects, want %d", len(rects), tt.wantRects)
			}
			for _, r := range rects {
				if !approx(r.y, 0) || !approx(r.h, 40) {
					t.Errorf("rect y=%v h=%v, want full height", r.y, r.h)
				}
			}
			if tt.bar > 0 {
				bar := rects[0]
				if !approx(bar.x, 100-tt.bar) || !approx(bar.x+bar.w, 100) {
					t.Errorf("bar spans %v..%v, want %v..100", bar.x, bar.x+bar.w, 100-tt.bar)
				}
				if bar.color != cfg.BarColor {
					t.Errorf("bar color = %v, want %v", bar.color, cfg.BarColor)
				}
			}
			if tt.highlight > 0 {
				hl := rects[len(rects)-1]
				if !approx(hl.x, tt.wantHighlightLeft) {
					t.Errorf("highlight left = %v, want %v", hl.x, tt.wantHighlightLeft)
				}
				if !approx(hl.x+hl.w, 100-tt.bar) {
					t.Errorf("highlight right = %v, want %v", hl.x+hl.w, 100-tt.bar)
				}
				if hl.color != cfg.HighlightBarColor {
					t.Errorf("highlight color = %v, want %v", hl.color, cfg.HighlightBarColor)
				}
			}
		})
	}
}

func TestPositionHelpers(t *testing.T) {
	tests := []struct {
		name         string
		debug        bool
		radius, inst float64
	}{
		{"template check", false, 0.1, 0},
		{"debug", true, 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.PositionHelper = true
			cfg.Debug = tt.debug
			rec := &recorder{}
			e := NewEngine(cfg, NewCounter(1), fakeSymbol{}, nil)

			if err := e.RenderPhysicalLabel(rec, 100, 40); err != nil {
				t.Fatalf("RenderPhysicalLabel() error = %v", err)
			}
			circles := rec.byKind("circle")
			if len(circles) != 4 {
				t.Fatalf("got %d circles, want 4", len(circles))
			}
			want := [][2]float64{
				{tt.inst, tt.inst},
				{100 - tt.inst, tt.inst},
				{tt.inst, 40 - tt.inst},
				{100 - tt.inst, 40 - tt.inst},
			}
			for i, c := range circles {
				if !approx(c.w, tt.radius) {
					t.Errorf("circle[%d] radius = %v, want %v", i, c.w, tt.radius)
				}
				if !approx(c.x, want[i][0]) || !approx(c.y, want[i][1]) {
					t.Errorf("circle[%d] at (%v,%v), want %v", i, c.x, c.y, want[i])
				}
			}
		})
	}

	t.Run("disabled", func(t *testing.T) {
		rec := &recorder{}
		e := NewEngine(baseConfig(), NewCounter(1), fakeSymbol{}, nil)
		if err := e.RenderPhysicalLabel(rec, 100, 40); err != nil {
			t.Fatalf("RenderPhysicalLabel() error = %v", err)
		}
		if n := len(rec.byKind("circle")); n != 0 {
			t.Errorf("got %d circles, want 0", n)
		}
	})
}

// cancellingSymbol cancels the run once it has drawn after symbols.
type cancellingSymbol struct {
	cancel context.CancelFunc
	after  int
	drawn  *int
}

func (s cancellingSymbol) Draw(c Canvas, payload string, side, x, y float64) error {
	*s.drawn++
	if *s.drawn == s.after {
		s.cancel()
	}
	return fakeSymbol{}.Draw(c, payload, side, x, y)
}

func TestRenderPhysicalLabelContextStopsBetweenCells(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := baseConfig()
	cfg.SubLabelsX, cfg.SubLabelsY = 2, 2
	drawn := 0
	counter := NewCounter(1)
	e := NewEngine(cfg, counter, cancellingSymbol{cancel: cancel, after: 2, drawn: &drawn}, nil)
	rec := &recorder{tx: 3, ty: 4}

	err := e.RenderPhysicalLabelContext(ctx, rec, 100, 40)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RenderPhysicalLabelContext() error = %v, want context.Canceled", err)
	}
	if drawn != 2 {
		t.Errorf("drew %d cells, want 2", drawn)
	}
	if counter.Current() != 3 {
		t.Errorf("counter = %d, want 3", counter.Current())
	}
	if rec.tx != 3 || rec.ty != 4 || len(rec.stack) != 0 {
		t.Errorf("canvas state not restored: (%v,%v) depth %d", rec.tx, rec.ty, len(rec.stack))
	}
}

func TestRenderPhysicalLabelContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counter := NewCounter(1)
	e := NewEngine(baseConfig(), counter, fakeSymbol{}, nil)
	if err := e.RenderPhysicalLabelContext(ctx, &recorder{}, 100, 40); !errors.Is(err, context.Canceled) {
		t.Fatalf("RenderPhysicalLabelContext() error = %v, want context.Canceled", err)
	}
	if counter.Rendered() != 0 {
		t.Errorf("Rendered() = %d, want 0", counter.Rendered())
	}
}

func TestCanvasStateRestored(t *testing.T) {
	cfg := baseConfig()
	cfg.SubLabelsX, cfg.SubLabelsY = 2, 2
	cfg.BarWidth = 2
	cfg.HighlightBarWidth = 1
	cfg.PositionHelper = true

	// 4 cells x (qr, font, text, bar, highlight, 4 circles) = 36 primitives.
	for failAt := 0; failAt <= 36; failAt++ {
		t.Run(fmt.Sprintf("fail at %d", failAt), func(t *testing.T) {
			rec := &recorder{tx: 7, ty: 11, failAt: failAt}
			counter := NewCounter(1)
			e := NewEngine(cfg, counter, fakeSymbol{}, nil)

			err := e.RenderPhysicalLabel(rec, 80, 40)
			if failAt == 0 && err != nil {
				t.Fatalf("RenderPhysicalLabel() error = %v", err)
			}
			if failAt > 0 {
				if !errors.Is(err, errInjected) {
					t.Fatalf("error = %v, want injected failure", err)
				}
				if !apperrors.Is(err, apperrors.ErrCodeRender) {
					t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeRender)
				}
				// The failing cell keeps its identifier.
				if want := (failAt-1)/9 + 2; counter.Current() != want {
					t.Errorf("counter = %d, want %d", counter.Current(), want)
				}
			}
			if rec.tx != 7 || rec.ty != 11 {
				t.Errorf("translation = (%v,%v), want (7,11)", rec.tx, rec.ty)
			}
			if len(rec.stack) != 0 {
				t.Errorf("state stack depth = %d, want 0", len(rec.stack))
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"zero columns", func(c *Config) { c.SubLabelsX = 0 }, true},
		{"zero rows", func(c *Config) { c.SubLabelsY = 0 }, true},
		{"negative digits", func(c *Config) { c.NumDigits = -1 }, true},
		{"negative bar", func(c *Config) { c.BarWidth = -1 }, true},
		{"qr size above one", func(c *Config) { c.QRSize = 1.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
