package dataset

import (
	"image"
	"image/color"
	"testing"
)

func TestGradientBackground(t *testing.T) {
	img := GradientBackground(64, 32)
	b := img.Bounds()
	if b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("size = %dx%d, want 64x32", b.Dx(), b.Dy())
	}
	upper := img.At(0, 0)
	lower := img.At(0, 31)
	if upper == lower {
		t.Error("upper and lower bands have the same color")
	}
}

func TestCompositeWithNilBackground(t *testing.T) {
	// A transparent foreground over the nil background must show the
	// built-in gradient; an opaque pixel must cover it.
	fg := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fg.SetRGBA(3, 3, color.RGBA{10, 20, 30, 255})

	out := Composite(fg, nil)
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Fatalf("size = %v, want 16x16", out.Bounds())
	}

	r, g, b, _ := out.At(3, 3).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("opaque pixel = (%d,%d,%d), want (10,20,30)", r>>8, g>>8, b>>8)
	}

	wr, wg, wb, _ := GradientBackground(16, 16).At(8, 2).RGBA()
	gr, gg, gb, _ := out.At(8, 2).RGBA()
	if gr != wr || gg != wg || gb != wb {
		t.Error("transparent pixel does not show the gradient background")
	}
}

func TestCompositeResizesBackground(t *testing.T) {
	fg := image.NewRGBA(image.Rect(0, 0, 20, 10))

	bg := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			bg.SetRGBA(x, y, color.RGBA{0, 200, 0, 255})
		}
	}

	out := Composite(fg, bg)
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 10 {
		t.Fatalf("size = %v, want the foreground's 20x10", out.Bounds())
	}
	_, g, _, _ := out.At(10, 5).RGBA()
	if g>>8 < 190 {
		t.Errorf("background green = %d, want the resized backdrop to show through", g>>8)
	}
}
