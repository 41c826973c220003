package brep

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSolidCenter(t *testing.T) {
	s, err := Box(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	moved := Translate(s, 3, -1, 5)
	if c := moved.Center(); !vecNear(c, mgl64.Vec3{3, -1, 5}, 1e-9) {
		t.Errorf("Center() = %v, want (3,-1,5)", c)
	}
}

func TestSolidNormal(t *testing.T) {
	s, err := Sphere(1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		at   mgl64.Vec3
		want mgl64.Vec3
	}{
		{"+x surface", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}},
		{"-y surface", mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, -1, 0}},
		{"diagonal", mgl64.Vec3{1, 1, 1}, mgl64.Vec3{1, 1, 1}.Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Normal(tt.at)
			if math.Abs(got.Len()-1) > 1e-6 {
				t.Errorf("Normal() length = %g, want 1", got.Len())
			}
			if !vecNear(got, tt.want, 1e-4) {
				t.Errorf("Normal(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestIntersectionBounds(t *testing.T) {
	a, err := Box(4, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sphere(1)
	if err != nil {
		t.Fatal(err)
	}
	s := Intersection(a, b)
	if d := s.Evaluate(mgl64.Vec3{}); d >= 0 {
		t.Errorf("distance at center = %g, want negative", d)
	}
	if d := s.Evaluate(mgl64.Vec3{1.5, 0, 0}); d <= 0 {
		t.Errorf("distance outside sphere = %g, want positive", d)
	}
}
