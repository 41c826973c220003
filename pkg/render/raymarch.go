package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/veneer/pkg/scene"
)

// Raymarcher renders solid geometry by sphere-tracing its signed distance
// field directly, with no mesh conversion. It supports hard shadows,
// ambient-occlusion sampling, a single reflection bounce and an optional
// environment image, and applies a gamma 0.7 brightness lift before
// quantizing to 8-bit.
type Raymarcher struct {
	Shadows     bool
	Reflections bool
	AOSamples   int

	MaxSteps int
	MaxDist  float64
	Epsilon  float64
}

// NewRaymarcher returns the raytracing backend with shadows, reflections
// and five AO samples enabled.
func NewRaymarcher() *Raymarcher {
	return &Raymarcher{
		Shadows:     true,
		Reflections: true,
		AOSamples:   5,
		MaxSteps:    256,
		MaxDist:     100.0,
		Epsilon:     1e-4,
	}
}

// Name implements Backend.
func (r *Raymarcher) Name() string { return "raymarch" }

// Render implements Backend.
func (r *Raymarcher) Render(s *scene.Scene) Result {
	if s.Solid == nil {
		return failure(r.Name(), "scene has no solid geometry")
	}

	cam := s.Camera
	right, up, forward := cam.Basis()
	halfH := math.Tan(cam.FOV * math.Pi / 360.0)
	halfW := halfH * cam.Aspect()

	// The orbit distance scales with the solid, so the march range must
	// cover eye-to-subject plus the subject itself.
	rm := *r
	if reach := cam.Eye.Sub(cam.Target).Len() + s.Solid.Extent(); rm.MaxDist < 2*reach {
		rm.MaxDist = 2 * reach
	}

	img := image.NewRGBA(image.Rect(0, 0, cam.Width, cam.Height))
	for py := 0; py < cam.Height; py++ {
		// v runs top-down so +up is toward the top of the image.
		v := (1 - 2*(float64(py)+0.5)/float64(cam.Height)) * halfH
		for px := 0; px < cam.Width; px++ {
			u := (2*(float64(px)+0.5)/float64(cam.Width) - 1) * halfW
			dir := forward.Add(right.Mul(u)).Add(up.Mul(v)).Normalize()

			c := rm.trace(s, cam.Eye, dir, true)
			img.SetRGBA(px, py, quantize(c))
		}
	}
	return Result{Image: img, Backend: r.Name()}
}

// trace follows one ray and returns linear [0,1] RGB.
func (r *Raymarcher) trace(s *scene.Scene, origin, dir mgl64.Vec3, allowBounce bool) [3]float64 {
	t, hit := r.march(s, origin, dir)
	if !hit {
		return r.background(s, dir)
	}

	p := origin.Add(dir.Mul(t))
	n := s.Solid.Normal(p)
	base := s.Material.Diffuse

	// Lambert with per-light shadow attenuation.
	intensity := 0.15 // ambient floor
	for _, l := range s.Lights {
		toLight := l.Direction.Mul(-1).Normalize()
		lambert := n.Dot(toLight)
		if lambert <= 0 {
			continue
		}
		shadow := 1.0
		if r.Shadows && r.occluded(s, p.Add(n.Mul(r.Epsilon*20)), toLight) {
			shadow = 0.2
		}
		intensity += lambert * l.Intensity * shadow
	}
	intensity *= r.ambientOcclusion(s, p, n)
	if intensity > 1 {
		intensity = 1
	}

	c := [3]float64{base[0] * intensity, base[1] * intensity, base[2] * intensity}

	if r.Reflections && allowBounce {
		refl := reflectanceOf(s)
		if refl > 0 {
			rd := reflect(dir, n)
			rc := r.trace(s, p.Add(n.Mul(r.Epsilon*20)), rd, false)
			for i := 0; i < 3; i++ {
				c[i] = c[i]*(1-refl) + rc[i]*refl
			}
		}
	}
	return c
}

// march sphere-traces from origin along dir. Returns the hit distance.
func (r *Raymarcher) march(s *scene.Scene, origin, dir mgl64.Vec3) (float64, bool) {
	t := 0.0
	for i := 0; i < r.MaxSteps; i++ {
		d := s.Solid.Evaluate(origin.Add(dir.Mul(t)))
		if d < r.Epsilon {
			return t, true
		}
		t += d
		if t > r.MaxDist {
			break
		}
	}
	return 0, false
}

// occluded reports whether anything blocks the ray toward a light.
func (r *Raymarcher) occluded(s *scene.Scene, origin, dir mgl64.Vec3) bool {
	_, hit := r.march(s, origin, dir)
	return hit
}

// ambientOcclusion samples the distance field at increasing offsets along
// the normal; occlusion grows where nearby surfaces crowd the point.
func (r *Raymarcher) ambientOcclusion(s *scene.Scene, p, n mgl64.Vec3) float64 {
	if r.AOSamples <= 0 {
		return 1
	}
	occlusion := 0.0
	step := 0.05
	for i := 1; i <= r.AOSamples; i++ {
		h := step * float64(i)
		d := s.Solid.Evaluate(p.Add(n.Mul(h)))
		occlusion += (h - d) / math.Pow(2, float64(i))
	}
	ao := 1 - 1.5*occlusion
	return clampf(ao, 0.3, 1)
}

// background samples the environment image when present, otherwise a
// vertical sky-to-ground gradient.
func (r *Raymarcher) background(s *scene.Scene, dir mgl64.Vec3) [3]float64 {
	if s.Environment != nil {
		return sampleEnvironment(s.Environment, dir)
	}
	// Blend on ray elevation, white toward the horizon, blue up top.
	t := 0.5 * (dir.Y() + 1)
	return [3]float64{
		(1-t)*0.9 + t*0.5,
		(1-t)*0.9 + t*0.7,
		(1-t)*0.9 + t*1.0,
	}
}

// sampleEnvironment does an equirectangular lookup into the environment
// image for a ray direction.
func sampleEnvironment(env image.Image, dir mgl64.Vec3) [3]float64 {
	u := 0.5 + math.Atan2(dir.Z(), dir.X())/(2*math.Pi)
	v := 0.5 - math.Asin(clampf(dir.Y(), -1, 1))/math.Pi
	b := env.Bounds()
	x := b.Min.X + int(u*float64(b.Dx()-1))
	y := b.Min.Y + int(v*float64(b.Dy()-1))
	cr, cg, cb, _ := env.At(x, y).RGBA()
	return [3]float64{float64(cr) / 65535, float64(cg) / 65535, float64(cb) / 65535}
}

// reflectanceOf derives a [0,1] reflection weight from the bound material's
// specular color.
func reflectanceOf(s *scene.Scene) float64 {
	spec := s.Material.Specular
	return clampf((spec[0]+spec[1]+spec[2])/3*0.5, 0, 0.5)
}

func reflect(dir, n mgl64.Vec3) mgl64.Vec3 {
	return dir.Sub(n.Mul(2 * dir.Dot(n)))
}

// quantize applies the gamma 0.7 brightness correction and converts to
// 8-bit color. The correction operates on normalized channels; on raw
// 0-255 values the exponent would crush everything toward black.
func quantize(c [3]float64) color.RGBA {
	out := color.RGBA{A: 255}
	out.R = quantizeChannel(c[0])
	out.G = quantizeChannel(c[1])
	out.B = quantizeChannel(c[2])
	return out
}

func quantizeChannel(v float64) uint8 {
	v = math.Pow(clampf(v, 0, 1), 0.7)
	return uint8(clampf(v*255+0.5, 0, 255))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
