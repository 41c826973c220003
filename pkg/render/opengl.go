package render

import (
	"image"
	"runtime"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/veneer/pkg/scene"
)

// GLRasterizer is the legacy fallback backend: a hidden glfw window with a
// fixed-function immediate-mode draw and a glReadPixels capture of the
// framebuffer. It only runs when the primary rasterizer fails, and it
// requires the software GL stack selected by SetupEnvironment.
type GLRasterizer struct{}

// NewGLRasterizer returns the legacy OpenGL backend.
func NewGLRasterizer() *GLRasterizer {
	return &GLRasterizer{}
}

// Name implements Backend.
func (r *GLRasterizer) Name() string { return "opengl" }

// Render implements Backend. The GL context and window are released on
// every exit path so a long batch run cannot exhaust display handles.
func (r *GLRasterizer) Render(s *scene.Scene) (res Result) {
	if s.Mesh == nil {
		return failure(r.Name(), "scene has no mesh geometry")
	}

	// GLFW and GL calls must stay on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer func() {
		if rec := recover(); rec != nil {
			res = failure(r.Name(), "panic: %v", rec)
		}
	}()

	if err := glfw.Init(); err != nil {
		return failure(r.Name(), "glfw.Init: %v", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)

	cam := s.Camera
	window, err := glfw.CreateWindow(cam.Width, cam.Height, "veneer", nil, nil)
	if err != nil {
		return failure(r.Name(), "CreateWindow(%d,%d): %v", cam.Width, cam.Height, err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return failure(r.Name(), "gl.Init: %v", err)
	}

	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.NORMALIZE)
	gl.ClearColor(0.79, 0.81, 0.84, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	proj := mgl32.Perspective(mgl32.DegToRad(float32(cam.FOV)), float32(cam.Aspect()), clipNear, clipFar)
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadMatrixf(&proj[0])

	_, up, _ := cam.Basis()
	view := mgl32.LookAtV(vec32(cam.Eye), vec32(cam.Target), vec32(up))
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadMatrixf(&view[0])

	r.setupLights(s)

	gl.Enable(gl.COLOR_MATERIAL)
	gl.Color3f(
		float32(s.Material.Diffuse[0]),
		float32(s.Material.Diffuse[1]),
		float32(s.Material.Diffuse[2]),
	)

	gl.Begin(gl.TRIANGLES)
	for _, f := range s.Mesh.Faces {
		a := s.Mesh.Vertices[f[0]]
		b := s.Mesh.Vertices[f[1]]
		c := s.Mesh.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		gl.Normal3f(float32(n.X()), float32(n.Y()), float32(n.Z()))
		gl.Vertex3f(float32(a.X()), float32(a.Y()), float32(a.Z()))
		gl.Vertex3f(float32(b.X()), float32(b.Y()), float32(b.Z()))
		gl.Vertex3f(float32(c.X()), float32(c.Y()), float32(c.Z()))
	}
	gl.End()
	gl.Finish()

	img := captureFramebuffer(width, height)
	return Result{Image: img, Backend: r.Name()}
}

// setupLights binds up to eight scene lights as GL directional lights.
// Directional lights use a position with w=0 pointing TOWARD the light.
func (r *GLRasterizer) setupLights(s *scene.Scene) {
	gl.Enable(gl.LIGHTING)
	for i, l := range s.Lights {
		if i >= 8 {
			break
		}
		id := uint32(gl.LIGHT0 + i)
		gl.Enable(id)
		pos := [4]float32{
			float32(-l.Direction.X()),
			float32(-l.Direction.Y()),
			float32(-l.Direction.Z()),
			0,
		}
		gl.Lightfv(id, gl.POSITION, &pos[0])
		diffuse := [4]float32{
			float32(l.Color[0] * l.Intensity),
			float32(l.Color[1] * l.Intensity),
			float32(l.Color[2] * l.Intensity),
			1,
		}
		gl.Lightfv(id, gl.DIFFUSE, &diffuse[0])
	}
}

// captureFramebuffer reads the color buffer into an image, flipping rows
// since GL's origin is the bottom-left corner.
func captureFramebuffer(width, height int) *image.RGBA {
	raw := make([]uint8, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&raw[0]))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowLen := width * 4
	for y := 0; y < height; y++ {
		src := raw[(height-1-y)*rowLen : (height-y)*rowLen]
		copy(img.Pix[y*img.Stride:y*img.Stride+rowLen], src)
	}
	return img
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X()), float32(v.Y()), float32(v.Z())}
}
