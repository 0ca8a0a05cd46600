package png

import (
	"bytes"
	"image/color"
	stdpng "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/fonts"
)

func TestDocumentPages(t *testing.T) {
	d := New(72, 144, 72)
	defer d.Close()

	for i := 0; i < 2; i++ {
		if err := d.AddPage(); err != nil {
			t.Fatalf("AddPage() error = %v", err)
		}
	}
	pages := d.Pages()
	if len(pages) != 2 {
		t.Fatalf("Pages() = %d images, want 2", len(pages))
	}
	b := pages[0].Bounds()
	if b.Dx() != 72 || b.Dy() != 144 {
		t.Errorf("page bounds = %dx%d, want 72x144", b.Dx(), b.Dy())
	}
}

func TestFillRectFlipsY(t *testing.T) {
	d := New(100, 100, 72)
	_ = d.AddPage()
	red := color.RGBA{0xff, 0, 0, 0xff}

	// Lower-left 10x10 square in user space is the bottom-left of the image.
	if err := d.FillRect(0, 0, 10, 10, red); err != nil {
		t.Fatalf("FillRect() error = %v", err)
	}
	img := d.Pages()[0]

	r, g, b, _ := img.At(5, 95).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 {
		t.Errorf("pixel (5,95) = %v, want red", img.At(5, 95))
	}
	r, g, b, _ = img.At(5, 5).RGBA()
	if r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("pixel (5,5) = %v, want white", img.At(5, 5))
	}
}

func TestTranslate(t *testing.T) {
	d := New(100, 100, 72)
	d.SaveState()
	d.Translate(10, 20)
	x, y := d.pixel(0, 0)
	if x != 10 || y != 80 {
		t.Errorf("pixel(0,0) = (%v,%v), want (10,80)", x, y)
	}
	d.RestoreState()
	x, y = d.pixel(0, 0)
	if x != 0 || y != 100 {
		t.Errorf("pixel(0,0) after restore = (%v,%v), want (0,100)", x, y)
	}
}

func TestScale(t *testing.T) {
	d := New(72, 72, 144)
	_ = d.AddPage()
	b := d.Pages()[0].Bounds()
	if b.Dx() != 144 || b.Dy() != 144 {
		t.Errorf("page bounds = %dx%d, want 144x144", b.Dx(), b.Dy())
	}
}

func TestDrawingRequiresPage(t *testing.T) {
	d := New(10, 10, 72)
	if err := d.StrokeRect(0, 0, 1, 1); !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("StrokeRect() before AddPage error = %v, want %v", err, errors.ErrCodeRender)
	}
}

func TestTextAndEncode(t *testing.T) {
	d := New(100, 40, 72)
	defer d.Close()
	_ = d.AddPage()

	if err := d.SetFont(fonts.Family, 8); err != nil {
		t.Fatalf("SetFont() error = %v", err)
	}
	if err := d.DrawText(4, 16, "ASN000001"); err != nil {
		t.Fatalf("DrawText() error = %v", err)
	}
	if err := d.Circle(50, 20, 2, false); err != nil {
		t.Fatalf("Circle() error = %v", err)
	}
	if err := d.SetFont("Helvetica", 8); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("SetFont(Helvetica) error = %v, want %v", err, errors.ErrCodeUnsupported)
	}

	var buf bytes.Buffer
	if err := d.EncodePage(0, &buf); err != nil {
		t.Fatalf("EncodePage() error = %v", err)
	}
	img, err := stdpng.Decode(&buf)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("decoded width = %d, want 100", img.Bounds().Dx())
	}
	if err := d.EncodePage(3, &buf); err == nil {
		t.Error("EncodePage(3) expected out-of-range error")
	}
}

func TestPageName(t *testing.T) {
	if got := PageName("out/label-4731", 0); got != "out/label-4731-1.png" {
		t.Errorf("PageName() = %q", got)
	}
}

func TestWritePages(t *testing.T) {
	d := New(20, 20, 72)
	_ = d.AddPage()
	_ = d.AddPage()

	base := filepath.Join(t.TempDir(), "labels")
	names, err := d.WritePages(base)
	if err != nil {
		t.Fatalf("WritePages() error = %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("WritePages() wrote %d files, want 2", len(names))
	}
	for _, name := range names {
		if _, err := os.Stat(name); err != nil {
			t.Errorf("stat %s: %v", name, err)
		}
	}
	if names[1] != base+"-2.png" {
		t.Errorf("names[1] = %q, want %q", names[1], base+"-2.png")
	}
}
