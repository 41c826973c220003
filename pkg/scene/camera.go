package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PoseRadius is the camera distance used by the canonical poses. It frames
// a unit-normalized mesh fully inside the default field of view.
const PoseRadius = 2.5

// Camera describes the viewpoint for one render: output resolution,
// vertical field of view in degrees, and a look-at pose.
type Camera struct {
	Width  int
	Height int
	FOV    float64
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// Aspect returns the width/height ratio.
func (c Camera) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}

// Basis returns the right/up/forward orthonormal camera basis. When the
// view direction is parallel to the configured up vector, +Z is substituted
// as a secondary up (and +X when the view itself runs along Z), so the
// basis is always well-formed.
func (c Camera) Basis() (right, up, forward mgl64.Vec3) {
	forward = c.Target.Sub(c.Eye).Normalize()
	upHint := c.Up
	if upHint.Len() == 0 {
		upHint = mgl64.Vec3{0, 1, 0}
	}
	upHint = upHint.Normalize()

	if math.Abs(forward.Dot(upHint)) > 0.999 {
		upHint = mgl64.Vec3{0, 0, 1}
		if math.Abs(forward.Dot(upHint)) > 0.999 {
			upHint = mgl64.Vec3{1, 0, 0}
		}
	}
	right = forward.Cross(upHint).Normalize()
	up = right.Cross(forward).Normalize()
	return right, up, forward
}

// Pose is a camera placement in the post-normalization unit frame.
type Pose struct {
	Name string
	Eye  mgl64.Vec3
	Up   mgl64.Vec3
}

// CanonicalPoses returns the six fixed poses (front, back, left, right,
// top, bottom) at PoseRadius from the origin. The table is constant, so
// pose enumeration is deterministic and restartable.
func CanonicalPoses() []Pose {
	return []Pose{
		{Name: "front", Eye: mgl64.Vec3{0, 0, PoseRadius}, Up: mgl64.Vec3{0, 1, 0}},
		{Name: "left", Eye: mgl64.Vec3{-PoseRadius, 0, 0}, Up: mgl64.Vec3{0, 1, 0}},
		{Name: "right", Eye: mgl64.Vec3{PoseRadius, 0, 0}, Up: mgl64.Vec3{0, 1, 0}},
		{Name: "top", Eye: mgl64.Vec3{0, PoseRadius, 0}, Up: mgl64.Vec3{0, 0, -1}},
		{Name: "bottom", Eye: mgl64.Vec3{0, -PoseRadius, 0}, Up: mgl64.Vec3{0, 0, 1}},
		{Name: "back", Eye: mgl64.Vec3{0, 0, -PoseRadius}, Up: mgl64.Vec3{0, 1, 0}},
	}
}

// OrbitPose places the eye on an elevation/azimuth orbit around the origin
// at the given distance. Angles are degrees.
func OrbitPose(elevation, azimuth, distance float64) Pose {
	el := elevation * math.Pi / 180.0
	az := azimuth * math.Pi / 180.0
	eye := mgl64.Vec3{
		distance * math.Cos(el) * math.Sin(az),
		distance * math.Sin(el),
		distance * math.Cos(el) * math.Cos(az),
	}
	return Pose{Name: "orbit", Eye: eye, Up: mgl64.Vec3{0, 1, 0}}
}
