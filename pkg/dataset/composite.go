package dataset

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/transform"
)

// Composite places a rendered foreground over a background image, resizing
// the background to the foreground's size. A nil background falls back to
// the built-in gradient. Foreground alpha, where present, controls the
// blend; a fully opaque render simply covers the backdrop.
func Composite(fg image.Image, bg image.Image) image.Image {
	b := fg.Bounds()
	w, h := b.Dx(), b.Dy()

	var backdrop image.Image
	if bg == nil {
		backdrop = GradientBackground(w, h)
	} else {
		backdrop = transform.Resize(bg, w, h, transform.Linear)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), backdrop, backdrop.Bounds().Min, draw.Src)
	draw.Draw(out, out.Bounds(), fg, b.Min, draw.Over)
	return out
}

// GradientBackground returns a two-band light backdrop: a lighter upper
// half over a pale blue lower half.
func GradientBackground(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	upper := color.RGBA{R: 255, G: 220, B: 180, A: 255}
	lower := color.RGBA{R: 255, G: 230, B: 200, A: 255}
	for y := 0; y < h; y++ {
		c := lower
		if y < h/2 {
			c = upper
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
