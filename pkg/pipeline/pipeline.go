// Package pipeline sequences a single file through the rendering stages:
// load, repair, normalize, compose, render through the backend chain,
// validate, and write the accepted image. Each stage can terminate the
// file with a typed failure; no stage mutates geometry owned by an earlier
// stage.
package pipeline

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/chazu/veneer/pkg/brep"
	"github.com/chazu/veneer/pkg/geometry"
	"github.com/chazu/veneer/pkg/material"
	"github.com/chazu/veneer/pkg/multiview"
	"github.com/chazu/veneer/pkg/render"
	"github.com/chazu/veneer/pkg/scene"
)

// Config controls one pipeline instance.
type Config struct {
	// OutDir receives the rendered images. Created if absent.
	OutDir string
	// MaterialDir holds materials.json; empty uses "materials".
	MaterialDir string
	// Material is the material name bound to every render; unknown names
	// fall back to the store default.
	Material string
	// Timeout bounds each backend attempt; zero uses the chain default.
	Timeout time.Duration
	// Debug enables verbose stage logging.
	Debug bool
	// Logger receives progress output; nil logs to stderr.
	Logger *log.Logger
}

// Outcome is a successful render of one file.
type Outcome struct {
	// Image is the accepted image.
	Image image.Image
	// Backend identifies the strategy that produced it.
	Backend string
	// OutputPath is the written image file.
	OutputPath string
	// Normalized is the unit-frame mesh, nil for solid inputs.
	Normalized *geometry.Mesh
}

// Pipeline renders individual CAD files. Safe for sequential reuse across
// files; not safe for concurrent use.
type Pipeline struct {
	cfg        Config
	composer   *scene.Composer
	meshChain  *render.Chain
	solidChain *render.Chain
	materials  *material.Store
	logger     *log.Logger
}

// New builds a pipeline. The software rendering environment must already
// be configured (render.SetupEnvironment) before the backends constructed
// here are used.
func New(cfg Config) (*Pipeline, error) {
	if cfg.OutDir == "" {
		cfg.OutDir = "renders"
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create output dir: %w", err)
	}

	matDir := cfg.MaterialDir
	if matDir == "" {
		matDir = "materials"
	}
	store, err := material.Open(matDir)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if !cfg.Debug {
		logger = log.New(io.Discard, "", 0)
	}

	meshChain := render.NewMeshChain()
	meshChain.Timeout = cfg.Timeout
	solidChain := render.NewSolidChain()
	solidChain.Timeout = cfg.Timeout

	return &Pipeline{
		cfg:        cfg,
		composer:   scene.NewComposer(store),
		meshChain:  meshChain,
		solidChain: solidChain,
		materials:  store,
		logger:     logger,
	}, nil
}

// RenderFile runs the full pipeline for one file and writes the accepted
// image as <stem>.png in the output directory.
func (p *Pipeline) RenderFile(path string) (*Outcome, error) {
	switch geometry.Classify(path) {
	case geometry.KindMesh:
		return p.renderMesh(path)
	case geometry.KindSolid:
		return p.renderSolid(path)
	}
	return nil, &geometry.LoadError{Path: path, Reason: "unsupported format " + filepath.Ext(path)}
}

func (p *Pipeline) renderMesh(path string) (*Outcome, error) {
	start := time.Now()
	mesh, err := geometry.Load(path)
	if err != nil {
		return nil, err
	}
	p.logger.Printf("loaded %s: %d vertices, %d faces in %v",
		filepath.Base(path), len(mesh.Vertices), len(mesh.Faces), time.Since(start))

	if !mesh.Watertight() {
		p.logger.Printf("repairing mesh: %s", filepath.Base(path))
		mesh = geometry.Repair(mesh)
	}

	normalized, err := geometry.Normalize(mesh)
	if err != nil {
		return nil, err
	}

	s := p.composer.Compose(normalized, p.cfg.Material, nil)
	res, err := p.meshChain.Render(s)
	if err != nil {
		return nil, err
	}
	p.logger.Printf("rendered %s via %s", filepath.Base(path), res.Backend)

	out, err := p.writeImage(path, res.Image)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Image:      res.Image,
		Backend:    res.Backend,
		OutputPath: out,
		Normalized: normalized,
	}, nil
}

func (p *Pipeline) renderSolid(path string) (*Outcome, error) {
	solid, err := brep.Load(path)
	if err != nil {
		return nil, err
	}

	s := p.composer.ComposeSolid(solid, p.cfg.Material, nil)
	res, err := p.solidChain.Render(s)
	if err != nil {
		return nil, err
	}
	p.logger.Printf("rendered %s via %s", filepath.Base(path), res.Backend)

	out, err := p.writeImage(path, res.Image)
	if err != nil {
		return nil, err
	}
	return &Outcome{Image: res.Image, Backend: res.Backend, OutputPath: out}, nil
}

// RenderViews runs multi-view mode: load, repair, normalize, then one
// image per canonical pose through the primary rasterizer.
func (p *Pipeline) RenderViews(path string) ([]string, error) {
	if geometry.Classify(path) != geometry.KindMesh {
		return nil, &geometry.LoadError{Path: path, Reason: "multi-view requires mesh geometry"}
	}
	mesh, err := geometry.Load(path)
	if err != nil {
		return nil, err
	}
	if !mesh.Watertight() {
		mesh = geometry.Repair(mesh)
	}
	normalized, err := geometry.Normalize(mesh)
	if err != nil {
		return nil, err
	}

	mv := multiview.New(p.composer, render.NewRasterizer())
	views, err := mv.Views(normalized, p.cfg.Material)
	if err != nil {
		return nil, err
	}
	return mv.Write(views, p.cfg.OutDir, stem(path))
}

func (p *Pipeline) writeImage(sourcePath string, img image.Image) (string, error) {
	out := filepath.Join(p.cfg.OutDir, stem(sourcePath)+".png")
	if err := imgio.Save(out, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("pipeline: save %s: %w", out, err)
	}
	return out, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
