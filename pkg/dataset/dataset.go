// Package dataset handles the bookkeeping side of a rendering run: the
// on-disk dataset layout, the per-image annotation records, and the
// background compositing applied to accepted renders.
package dataset

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"
)

// Subdirectories created under the dataset base directory.
var structure = []string{
	"images",
	"annotations",
	"meshes",
	"breps",
	"materials",
	"backgrounds",
}

// Annotation is the metadata record for one accepted rendered image.
type Annotation struct {
	ID         int     `json:"id"`
	FileName   string  `json:"file_name"`
	SourceFile string  `json:"source_file"`
	Type       string  `json:"type"`
	Material   *string `json:"material"`
	Timestamp  string  `json:"timestamp"`
}

// annotationFile is the serialized dataset.json layout.
type annotationFile struct {
	Info struct {
		Description string `json:"description"`
		Created     string `json:"created"`
	} `json:"info"`
	Images []Annotation `json:"images"`
}

// Manager accumulates rendered images and their annotations under a base
// directory. It is not safe for concurrent use; the batch layer guarantees
// a single writer.
type Manager struct {
	baseDir     string
	annotations []Annotation
	counter     int
}

// NewManager creates the dataset directory structure under baseDir. An
// existing dataset.json is loaded so a new process appends to the dataset
// instead of overwriting it.
func NewManager(baseDir string) (*Manager, error) {
	for _, sub := range structure {
		if err := os.MkdirAll(filepath.Join(baseDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("dataset: create %s: %w", sub, err)
		}
	}
	m := &Manager{baseDir: baseDir}
	if err := m.loadExisting(); err != nil {
		return nil, err
	}
	return m, nil
}

// loadExisting restores annotations written by a previous run.
func (m *Manager) loadExisting() error {
	path := filepath.Join(m.Dir("annotations"), "dataset.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dataset: read %s: %w", path, err)
	}
	var file annotationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	m.annotations = file.Images
	for _, a := range file.Images {
		if a.ID >= m.counter {
			m.counter = a.ID + 1
		}
	}
	return nil
}

// Dir returns the absolute path of a dataset subdirectory.
func (m *Manager) Dir(name string) string {
	return filepath.Join(m.baseDir, name)
}

// AddRendering saves an accepted image into the dataset and records its
// annotation. materialName may be empty, which is recorded as null.
func (m *Manager) AddRendering(img image.Image, sourceFile, objType, materialName string) (Annotation, error) {
	name := fmt.Sprintf("render_%06d.jpg", m.counter)
	path := filepath.Join(m.Dir("images"), name)
	if err := imgio.Save(path, img, imgio.JPEGEncoder(90)); err != nil {
		return Annotation{}, fmt.Errorf("dataset: save %s: %w", path, err)
	}

	anno := Annotation{
		ID:         m.counter,
		FileName:   name,
		SourceFile: filepath.Base(sourceFile),
		Type:       objType,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
	if materialName != "" {
		anno.Material = &materialName
	}
	m.annotations = append(m.annotations, anno)
	m.counter++
	return anno, nil
}

// Count returns the number of recorded renderings.
func (m *Manager) Count() int { return m.counter }

// SaveAnnotations writes the accumulated annotations to
// annotations/dataset.json and returns its path.
func (m *Manager) SaveAnnotations() (string, error) {
	var out annotationFile
	out.Info.Description = "CAD Rendering Dataset"
	out.Info.Created = time.Now().Format(time.RFC3339)
	out.Images = m.annotations
	if out.Images == nil {
		out.Images = []Annotation{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("dataset: encode annotations: %w", err)
	}
	path := filepath.Join(m.Dir("annotations"), "dataset.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return path, nil
}
