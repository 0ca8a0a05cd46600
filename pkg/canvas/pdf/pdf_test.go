package pdf

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/fonts"
)

func TestDocumentWritesPDF(t *testing.T) {
	d, err := New(595, 842)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.AddPage(); err != nil {
		t.Fatalf("AddPage() error = %v", err)
	}

	d.SaveState()
	d.Translate(20, 30)
	if err := d.FillRect(0, 0, 10, 10, color.RGBA{0xd2, 0xde, 0xde, 0xff}); err != nil {
		t.Fatalf("FillRect() error = %v", err)
	}
	if err := d.StrokeRect(0, 0, 50, 20); err != nil {
		t.Fatalf("StrokeRect() error = %v", err)
	}
	if err := d.Circle(0, 0, 0.5, true); err != nil {
		t.Fatalf("Circle() error = %v", err)
	}
	if err := d.SetFont(fonts.Family, 6); err != nil {
		t.Fatalf("SetFont() error = %v", err)
	}
	if err := d.DrawText(12, 4, "ASN000001"); err != nil {
		t.Fatalf("DrawText() error = %v", err)
	}
	d.RestoreState()

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %q", buf.Bytes()[:min(8, buf.Len())])
	}
	if d.Pages() != 1 {
		t.Errorf("Pages() = %d, want 1", d.Pages())
	}
}

func TestCoordinateFlip(t *testing.T) {
	d, err := New(100, 200)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	d.SaveState()
	d.Translate(10, 20)
	x, y := d.page(5, 5)
	if x != 15 || y != 175 {
		t.Errorf("page(5,5) = (%v,%v), want (15,175)", x, y)
	}
	d.RestoreState()
	x, y = d.page(0, 0)
	if x != 0 || y != 200 {
		t.Errorf("page(0,0) after restore = (%v,%v), want (0,200)", x, y)
	}
}

func TestDrawingRequiresPage(t *testing.T) {
	d, err := New(100, 100)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.FillRect(0, 0, 1, 1, color.Black); !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("FillRect() before AddPage error = %v, want %v", err, errors.ErrCodeRender)
	}
}

func TestFilledCircleUnsupported(t *testing.T) {
	d, _ := New(100, 100)
	_ = d.AddPage()
	if err := d.Circle(5, 5, 1, false); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Circle(stroke=false) error = %v, want %v", err, errors.ErrCodeUnsupported)
	}
}

func TestUnknownFont(t *testing.T) {
	d, _ := New(100, 100)
	_ = d.AddPage()
	if err := d.SetFont("no-such-font", 6); err == nil {
		t.Error("SetFont() with unknown family expected error")
	}
}
