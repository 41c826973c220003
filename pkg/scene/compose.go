package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/veneer/pkg/brep"
	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/material"
)

// Rig selects the lighting layout for a composed scene.
type Rig int

const (
	// RigSixAxis places six low-intensity directional lights along the
	// axis pairs so no facet is unlit under typical camera angles.
	RigSixAxis Rig = iota
	// RigHeadlamp places a single directional light collocated with the
	// camera, for faster render modes.
	RigHeadlamp
)

// Default camera parameters, matching the pipeline's output contract.
const (
	DefaultWidth    = 1024
	DefaultHeight   = 768
	DefaultFOV      = 60.0
	DefaultDistance = PoseRadius
)

// Composer builds scenes from normalized geometry. The zero value is not
// usable; construct with NewComposer.
type Composer struct {
	Width    int
	Height   int
	FOV      float64
	Distance float64
	Rig      Rig

	Materials *material.Store
}

// NewComposer returns a Composer with the default camera parameters and the
// six-axis lighting rig. materials may be nil, in which case every scene
// gets the built-in default material.
func NewComposer(materials *material.Store) *Composer {
	return &Composer{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		FOV:       DefaultFOV,
		Distance:  DefaultDistance,
		Rig:       RigSixAxis,
		Materials: materials,
	}
}

// Compose builds a scene around a normalized mesh. pose selects the camera
// placement; nil means the default 45°/45° orbit. The camera always targets
// the mesh centroid so the subject cannot be clipped out of frame.
func (c *Composer) Compose(m *geometry.Mesh, materialName string, pose *Pose) *Scene {
	s := c.newScene(materialName, pose, m.Centroid())
	s.Mesh = m
	return s
}

// ComposeSolid builds a scene around a solid, targeting the center of its
// bounding box. Solids are rendered as-built rather than normalized, so the
// unit-frame pose is scaled by the solid's extent and anchored at its
// center; the bounding volume stays inside the frustum whatever the solid's
// size or position.
func (c *Composer) ComposeSolid(solid *brep.Solid, materialName string, pose *Pose) *Scene {
	target := solid.Center()
	p := OrbitPose(45, 45, c.Distance)
	if pose != nil {
		p = *pose
	}
	scale := solid.Extent()
	if scale <= 0 {
		scale = 1
	}
	p.Eye = target.Add(p.Eye.Mul(scale))

	s := c.newScene(materialName, &p, target)
	s.Solid = solid
	return s
}

func (c *Composer) newScene(materialName string, pose *Pose, target mgl64.Vec3) *Scene {
	p := OrbitPose(45, 45, c.Distance)
	if pose != nil {
		p = *pose
	}

	cam := Camera{
		Width:  c.Width,
		Height: c.Height,
		FOV:    c.FOV,
		Eye:    p.Eye,
		Target: target,
		Up:     p.Up,
	}

	s := &Scene{
		Camera:       cam,
		MaterialName: materialName,
	}
	if c.Materials != nil {
		s.Material = c.Materials.Get(materialName)
	} else {
		s.Material = material.Defaults()[material.DefaultName]
	}

	switch c.Rig {
	case RigHeadlamp:
		s.Lights = []Light{{
			Direction: cam.Target.Sub(cam.Eye).Normalize(),
			Color:     [3]float64{1, 1, 1},
			Intensity: 1.0,
		}}
	default:
		s.Lights = sixAxisLights()
	}
	return s
}

// sixAxisLights returns the three axis pairs of directional lights at fixed
// low intensity.
func sixAxisLights() []Light {
	dirs := []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	}
	lights := make([]Light, 0, len(dirs))
	for _, d := range dirs {
		lights = append(lights, Light{
			Direction: d,
			Color:     [3]float64{1, 1, 1},
			Intensity: 0.5,
		})
	}
	return lights
}
