// Package brep represents boundary-style solids as signed distance fields
// over the deadsy/sdfx kernel. Solids are opaque to the mesh pipeline: they
// carry no vertices or faces and are consumed directly by the raytracing
// backend without mesh conversion.
package brep

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Solid is an opaque solid backed by an sdfx signed distance field.
type Solid struct {
	s sdf.SDF3
}

// FromSDF wraps an sdf.SDF3 as a Solid.
func FromSDF(s sdf.SDF3) *Solid {
	return &Solid{s: s}
}

// unwrap extracts the underlying sdf.SDF3.
func unwrap(s *Solid) sdf.SDF3 {
	return s.s
}

// Evaluate returns the signed distance from p to the solid's surface:
// negative inside, positive outside.
func (s *Solid) Evaluate(p mgl64.Vec3) float64 {
	return s.s.Evaluate(v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()})
}

// Bounds returns the axis-aligned bounding box.
func (s *Solid) Bounds() (min, max mgl64.Vec3) {
	bb := s.s.BoundingBox()
	min = mgl64.Vec3{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = mgl64.Vec3{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// Extent returns the maximum axis-aligned span of the bounding box.
func (s *Solid) Extent() float64 {
	min, max := s.Bounds()
	span := max.Sub(min)
	return math.Max(span.X(), math.Max(span.Y(), span.Z()))
}

// Center returns the center of the bounding box.
func (s *Solid) Center() mgl64.Vec3 {
	min, max := s.Bounds()
	return min.Add(max).Mul(0.5)
}

// Normal estimates the outward surface normal at p by central differences
// on the distance field.
func (s *Solid) Normal(p mgl64.Vec3) mgl64.Vec3 {
	const h = 1e-5
	n := mgl64.Vec3{
		s.Evaluate(mgl64.Vec3{p.X() + h, p.Y(), p.Z()}) - s.Evaluate(mgl64.Vec3{p.X() - h, p.Y(), p.Z()}),
		s.Evaluate(mgl64.Vec3{p.X(), p.Y() + h, p.Z()}) - s.Evaluate(mgl64.Vec3{p.X(), p.Y() - h, p.Z()}),
		s.Evaluate(mgl64.Vec3{p.X(), p.Y(), p.Z() + h}) - s.Evaluate(mgl64.Vec3{p.X(), p.Y(), p.Z() - h}),
	}
	if n.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// ---------------------------------------------------------------------------
// Solid builders (used by the script loader)
// ---------------------------------------------------------------------------

// Box creates a box with the given dimensions, centered at the origin.
func Box(x, y, z float64) (*Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("brep: box: %w", err)
	}
	return FromSDF(s), nil
}

// Sphere creates a sphere with the given radius, centered at the origin.
func Sphere(radius float64) (*Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("brep: sphere: %w", err)
	}
	return FromSDF(s), nil
}

// Cylinder creates a cylinder with the given height and radius, centered at
// the origin with its axis along Z.
func Cylinder(height, radius float64) (*Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("brep: cylinder: %w", err)
	}
	return FromSDF(s), nil
}

// Union returns the union of two solids.
func Union(a, b *Solid) *Solid {
	return FromSDF(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func Difference(a, b *Solid) *Solid {
	return FromSDF(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func Intersection(a, b *Solid) *Solid {
	return FromSDF(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func Translate(s *Solid, x, y, z float64) *Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return FromSDF(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func Rotate(s *Solid, x, y, z float64) *Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return FromSDF(sdf.Transform3D(unwrap(s), m))
}
