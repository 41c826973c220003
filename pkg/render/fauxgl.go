package render

import (
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/scene"
)

// Near/far clip planes. The subject is unit-normalized and the camera sits
// at a small fixed radius, so these cover every composed scene.
const (
	clipNear = 0.1
	clipFar  = 100.0
)

// Rasterizer is the primary backend: a pure-Go software rasterizer built on
// fauxgl. It runs headless with no GL context at all.
type Rasterizer struct {
	// Background is the clear color behind the subject.
	Background fauxgl.Color
}

// NewRasterizer returns the fauxgl backend with a neutral gray background.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{Background: fauxgl.HexColor("#C9CFD6")}
}

// Name implements Backend.
func (r *Rasterizer) Name() string { return "fauxgl" }

// Render implements Backend.
func (r *Rasterizer) Render(s *scene.Scene) Result {
	if s.Mesh == nil {
		return failure(r.Name(), "scene has no mesh geometry")
	}

	mesh := toFauxglMesh(s.Mesh)
	if len(mesh.Triangles) == 0 {
		return failure(r.Name(), "mesh has no triangles")
	}
	mesh.SmoothNormals()

	cam := s.Camera
	eye := fauxglVec(cam.Eye)
	target := fauxglVec(cam.Target)
	_, up, _ := cam.Basis()

	ctx := fauxgl.NewContext(cam.Width, cam.Height)
	ctx.ClearColorBufferWith(r.Background)

	matrix := fauxgl.LookAt(eye, target, fauxglVec(up)).
		Perspective(cam.FOV, cam.Aspect(), clipNear, clipFar)

	// fauxgl's phong shader takes one light direction (surface toward
	// light). A single-light rig maps directly; the six-axis rig collapses
	// to a headlamp with raised ambient, which is what it approximates.
	light := eye.Sub(target).Normalize()
	ambient := fauxgl.Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
	if len(s.Lights) == 1 {
		d := s.Lights[0].Direction
		light = fauxglVec(d.Mul(-1)).Normalize()
		ambient = fauxgl.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}
	}

	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.Color{
		R: s.Material.Diffuse[0],
		G: s.Material.Diffuse[1],
		B: s.Material.Diffuse[2],
		A: 1,
	}
	shader.AmbientColor = ambient
	shader.SpecularColor = fauxgl.Color{
		R: s.Material.Specular[0],
		G: s.Material.Specular[1],
		B: s.Material.Specular[2],
		A: 1,
	}
	if s.Material.Shininess > 0 {
		shader.SpecularPower = s.Material.Shininess
	}
	ctx.Shader = shader

	ctx.DrawMesh(mesh)
	return Result{Image: ctx.Image(), Backend: r.Name()}
}

// toFauxglMesh converts the pipeline mesh to fauxgl's triangle form.
func toFauxglMesh(m *geometry.Mesh) *fauxgl.Mesh {
	tris := make([]*fauxgl.Triangle, 0, len(m.Faces))
	for _, f := range m.Faces {
		tris = append(tris, fauxgl.NewTriangleForPoints(
			fauxglVec(m.Vertices[f[0]]),
			fauxglVec(m.Vertices[f[1]]),
			fauxglVec(m.Vertices[f[2]]),
		))
	}
	return fauxgl.NewTriangleMesh(tris)
}

func fauxglVec(v mgl64.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}
