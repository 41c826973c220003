// Package scene builds renderable scenes from normalized geometry: camera
// placement, lighting rig, and material binding. A Scene is constructed
// fresh per render attempt and holds exactly one geometry reference, either
// a mesh or a solid.
package scene

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/veneer/pkg/brep"
	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/material"
)

// Light is a directional light: Direction points from the light toward the
// scene.
type Light struct {
	Direction mgl64.Vec3
	Color     [3]float64
	Intensity float64
}

// Scene is the renderable unit consumed by a backend. Exactly one of Mesh
// and Solid is set.
type Scene struct {
	Mesh  *geometry.Mesh
	Solid *brep.Solid

	Lights []Light
	Camera Camera

	MaterialName string
	Material     material.Material

	// Environment, when set, is sampled by backends that support an
	// environment map; otherwise a built-in gradient is used.
	Environment image.Image
}
