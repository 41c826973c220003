package render

import (
	"image/color"
	"testing"

	"github.com/chazu/veneer/pkg/brep"
	"github.com/chazu/veneer/pkg/scene"
)

func TestRaymarcherRendersSphere(t *testing.T) {
	solid, err := brep.Sphere(0.5)
	if err != nil {
		t.Fatal(err)
	}
	comp := scene.NewComposer(nil)
	comp.Width = 64
	comp.Height = 48
	s := comp.ComposeSolid(solid, "", nil)

	res := NewRaymarcher().Render(s)
	if res.Failed() {
		t.Fatalf("Render() failed: %s", res.Reason)
	}
	if res.Backend != "raymarch" {
		t.Errorf("Backend = %q, want raymarch", res.Backend)
	}

	b := res.Image.Bounds()
	if b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("image size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
	if err := (Validator{}).Check(res.Image); err != nil {
		t.Errorf("rendered sphere rejected by validator: %v", err)
	}

	// The camera targets the sphere center, so the center ray must hit and
	// shade darker than the sky gradient in the top corner.
	center := res.Image.At(32, 24)
	corner := res.Image.At(1, 1)
	if center == corner {
		t.Error("center pixel equals corner pixel, sphere does not appear to be drawn")
	}
}

func TestRaymarcherRendersOversizedSolid(t *testing.T) {
	// A disc far wider than the unit frame: the composed orbit must scale
	// with it so the eye starts outside the solid and the march range
	// reaches the subject.
	solid, err := brep.Cylinder(4, 20)
	if err != nil {
		t.Fatal(err)
	}
	comp := scene.NewComposer(nil)
	comp.Width = 64
	comp.Height = 48
	s := comp.ComposeSolid(solid, "", nil)

	if d := solid.Evaluate(s.Camera.Eye); d <= 0 {
		t.Fatalf("camera eye %v is inside the solid (signed distance %g)", s.Camera.Eye, d)
	}

	res := NewRaymarcher().Render(s)
	if res.Failed() {
		t.Fatalf("Render() failed: %s", res.Reason)
	}
	if err := (Validator{}).Check(res.Image); err != nil {
		t.Errorf("rendered solid rejected by validator: %v", err)
	}

	// The center ray hits the disc; the top corner ray shows sky.
	center := res.Image.At(32, 24)
	corner := res.Image.At(1, 1)
	if center == corner {
		t.Error("center pixel equals corner pixel, solid does not appear to be drawn")
	}
}

func TestRaymarcherRequiresSolid(t *testing.T) {
	s := &scene.Scene{Camera: scene.Camera{Width: 8, Height: 8, FOV: 60}}
	res := NewRaymarcher().Render(s)
	if !res.Failed() {
		t.Fatal("Render() succeeded without solid geometry")
	}
}

func TestRaymarcherEnvironmentBackground(t *testing.T) {
	// With a uniform red environment every miss ray must sample red.
	solid, err := brep.Sphere(0.1)
	if err != nil {
		t.Fatal(err)
	}
	comp := scene.NewComposer(nil)
	comp.Width = 16
	comp.Height = 16
	s := comp.ComposeSolid(solid, "", nil)
	s.Environment = uniformImage(32, 16, color.RGBA{200, 0, 0, 255})

	r := NewRaymarcher()
	r.Reflections = false
	res := r.Render(s)
	if res.Failed() {
		t.Fatalf("Render() failed: %s", res.Reason)
	}

	cr, cg, cb, _ := res.Image.At(0, 0).RGBA()
	if cr == 0 || cg != 0 || cb != 0 {
		t.Errorf("corner pixel = (%d,%d,%d), want pure red from the environment", cr>>8, cg>>8, cb>>8)
	}
}

func TestQuantizeChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{1, 255},
		{1.7, 255}, // clamped before gamma
		{-0.3, 0},
	}
	for _, tt := range tests {
		if got := quantizeChannel(tt.in); got != tt.want {
			t.Errorf("quantizeChannel(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
	// Gamma 0.7 lifts midtones: 0.5 maps above the linear 127.
	if got := quantizeChannel(0.5); got <= 127 {
		t.Errorf("quantizeChannel(0.5) = %d, want a lifted value above 127", got)
	}
}
