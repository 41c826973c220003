package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() < tol
}

func checkOrthonormal(t *testing.T, right, up, forward mgl64.Vec3) {
	t.Helper()
	for _, v := range []struct {
		name string
		vec  mgl64.Vec3
	}{{"right", right}, {"up", up}, {"forward", forward}} {
		if math.Abs(v.vec.Len()-1) > 1e-9 {
			t.Errorf("%s length = %g, want 1", v.name, v.vec.Len())
		}
	}
	if d := right.Dot(up); math.Abs(d) > 1e-9 {
		t.Errorf("right·up = %g, want 0", d)
	}
	if d := right.Dot(forward); math.Abs(d) > 1e-9 {
		t.Errorf("right·forward = %g, want 0", d)
	}
	if d := up.Dot(forward); math.Abs(d) > 1e-9 {
		t.Errorf("up·forward = %g, want 0", d)
	}
}

func TestCameraBasis(t *testing.T) {
	tests := []struct {
		name string
		cam  Camera
	}{
		{"front view", Camera{Eye: mgl64.Vec3{0, 0, 2.5}, Up: mgl64.Vec3{0, 1, 0}}},
		{"oblique view", Camera{Eye: mgl64.Vec3{1, 2, 3}, Up: mgl64.Vec3{0, 1, 0}}},
		{"top view with provided up", Camera{Eye: mgl64.Vec3{0, 2.5, 0}, Up: mgl64.Vec3{0, 0, -1}}},
		{"view parallel to up", Camera{Eye: mgl64.Vec3{0, 2.5, 0}, Up: mgl64.Vec3{0, 1, 0}}},
		{"view anti-parallel to up", Camera{Eye: mgl64.Vec3{0, -2.5, 0}, Up: mgl64.Vec3{0, 1, 0}}},
		{"degenerate up along z view", Camera{Eye: mgl64.Vec3{0, 0, 2.5}, Up: mgl64.Vec3{0, 0, 1}}},
		{"zero up vector", Camera{Eye: mgl64.Vec3{1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			right, up, forward := tt.cam.Basis()
			checkOrthonormal(t, right, up, forward)

			want := tt.cam.Target.Sub(tt.cam.Eye).Normalize()
			if !vecNear(forward, want, 1e-9) {
				t.Errorf("forward = %v, want %v", forward, want)
			}
		})
	}
}

func TestCameraAspect(t *testing.T) {
	c := Camera{Width: 1024, Height: 768}
	if got := c.Aspect(); math.Abs(got-4.0/3.0) > 1e-9 {
		t.Errorf("Aspect() = %g, want 4/3", got)
	}
}

func TestCanonicalPoses(t *testing.T) {
	poses := CanonicalPoses()
	if len(poses) != 6 {
		t.Fatalf("CanonicalPoses() returned %d poses, want 6", len(poses))
	}

	wantNames := []string{"front", "left", "right", "top", "bottom", "back"}
	seen := make(map[mgl64.Vec3]bool, len(poses))
	for i, p := range poses {
		if p.Name != wantNames[i] {
			t.Errorf("pose %d name = %q, want %q", i, p.Name, wantNames[i])
		}
		if math.Abs(p.Eye.Len()-PoseRadius) > 1e-9 {
			t.Errorf("pose %q eye distance = %g, want %g", p.Name, p.Eye.Len(), PoseRadius)
		}
		if seen[p.Eye] {
			t.Errorf("pose %q duplicates another eye position", p.Name)
		}
		seen[p.Eye] = true

		// Every pose must yield a usable look-at basis toward the origin.
		cam := Camera{Eye: p.Eye, Up: p.Up}
		right, up, forward := cam.Basis()
		checkOrthonormal(t, right, up, forward)
	}
}

func TestCanonicalPosesDeterministic(t *testing.T) {
	a, b := CanonicalPoses(), CanonicalPoses()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pose %d differs between calls: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestOrbitPose(t *testing.T) {
	tests := []struct {
		name               string
		elevation, azimuth float64
		distance           float64
		want               mgl64.Vec3
	}{
		{"straight ahead", 0, 0, 2.5, mgl64.Vec3{0, 0, 2.5}},
		{"overhead", 90, 0, 2.5, mgl64.Vec3{0, 2.5, 0}},
		{"quarter turn", 0, 90, 1, mgl64.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := OrbitPose(tt.elevation, tt.azimuth, tt.distance)
			if !vecNear(p.Eye, tt.want, 1e-9) {
				t.Errorf("OrbitPose eye = %v, want %v", p.Eye, tt.want)
			}
			if math.Abs(p.Eye.Len()-tt.distance) > 1e-9 {
				t.Errorf("orbit distance = %g, want %g", p.Eye.Len(), tt.distance)
			}
		})
	}
}
