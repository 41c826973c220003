// Package multiview renders an object from the six canonical camera poses
// for multi-angle dataset coverage. Pose enumeration is a fixed table, so
// a run is deterministic and can be restarted from any pose.
package multiview

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/render"
	"github.com/chazu/veneer/pkg/scene"
)

// View is one rendered pose.
type View struct {
	Index int
	Pose  scene.Pose
	Image image.Image
}

// Renderer drives the per-pose renders. Multi-view mode uses the primary
// backend only; it does not participate in the fallback chain.
type Renderer struct {
	Composer *scene.Composer
	Backend  render.Backend
}

// New returns a multi-view renderer over the given composer and backend.
func New(c *scene.Composer, b render.Backend) *Renderer {
	return &Renderer{Composer: c, Backend: b}
}

// Views renders the mesh from each canonical pose. The mesh must already
// be normalized; the fixed pose radius assumes the unit frame.
func (r *Renderer) Views(m *geometry.Mesh, materialName string) ([]View, error) {
	poses := scene.CanonicalPoses()
	views := make([]View, 0, len(poses))
	for i, pose := range poses {
		p := pose
		s := r.Composer.Compose(m, materialName, &p)
		res := r.Backend.Render(s)
		if res.Failed() {
			return nil, fmt.Errorf("multiview: pose %d (%s): %s", i, pose.Name, res.Reason)
		}
		views = append(views, View{Index: i, Pose: pose, Image: res.Image})
	}
	return views, nil
}

// Write saves each view as <stem>_view<i>.png under dir and returns the
// written paths.
func (r *Renderer) Write(views []View, dir, stem string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("multiview: create output dir: %w", err)
	}
	paths := make([]string, 0, len(views))
	for _, v := range views {
		path := filepath.Join(dir, fmt.Sprintf("%s_view%d.png", stem, v.Index))
		if err := imgio.Save(path, v.Image, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("multiview: save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
