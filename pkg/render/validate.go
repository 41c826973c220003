package render

import (
	"fmt"
	"image"
)

// NearWhiteThreshold is the default mean-intensity cutoff above which an
// image is judged to have missed the subject (or be unlit and washed out).
const NearWhiteThreshold = 240.0

// Validator inspects candidate images for obvious failure signatures. It
// performs no content analysis beyond the near-white mean intensity check.
type Validator struct {
	// Threshold is the mean 8-bit intensity at or above which an image
	// fails. Zero means NearWhiteThreshold.
	Threshold float64
}

// Check returns nil for an acceptable image and a reason error otherwise.
// An absent image always fails.
func (v Validator) Check(img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image produced")
	}
	threshold := v.Threshold
	if threshold == 0 {
		threshold = NearWhiteThreshold
	}
	mean := MeanIntensity(img)
	if mean >= threshold {
		return fmt.Errorf("image mean intensity %.1f >= %.1f: near-white, camera likely missed the subject", mean, threshold)
	}
	return nil
}

// MeanIntensity returns the mean 8-bit channel intensity across all pixels,
// averaging R, G and B.
func MeanIntensity(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0
	}
	var sum uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += uint64(r>>8) + uint64(g>>8) + uint64(b>>8)
		}
	}
	return float64(sum) / float64(bounds.Dx()*bounds.Dy()*3)
}
