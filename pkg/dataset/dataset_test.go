package dataset

import (
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func grayImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{100, 100, 100, 255})
		}
	}
	return img
}

func TestNewManagerCreatesStructure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "dataset")
	m, err := NewManager(base)
	if err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"images", "annotations", "meshes", "breps", "materials", "backgrounds"} {
		info, err := os.Stat(m.Dir(sub))
		if err != nil {
			t.Errorf("subdirectory %s missing: %v", sub, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", sub)
		}
	}
}

func TestAddRendering(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := m.AddRendering(grayImage(8, 8), "/data/parts/bracket.obj", "mesh", "metal")
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.AddRendering(grayImage(8, 8), "housing.csg", "brep", "")
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != 0 || second.ID != 1 {
		t.Errorf("ids = %d, %d; want 0, 1", first.ID, second.ID)
	}
	if first.FileName != "render_000000.jpg" || second.FileName != "render_000001.jpg" {
		t.Errorf("file names = %q, %q", first.FileName, second.FileName)
	}
	if first.SourceFile != "bracket.obj" {
		t.Errorf("SourceFile = %q, want the base name bracket.obj", first.SourceFile)
	}
	if first.Material == nil || *first.Material != "metal" {
		t.Errorf("first material = %v, want metal", first.Material)
	}
	if second.Material != nil {
		t.Errorf("second material = %v, want nil for an unbound material", second.Material)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}

	for _, name := range []string{first.FileName, second.FileName} {
		if _, err := os.Stat(filepath.Join(m.Dir("images"), name)); err != nil {
			t.Errorf("image file missing: %v", err)
		}
	}
}

func TestSaveAnnotations(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddRendering(grayImage(4, 4), "gear.stl", "mesh", "plastic"); err != nil {
		t.Fatal(err)
	}

	path, err := m.SaveAnnotations()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var file struct {
		Info struct {
			Description string `json:"description"`
			Created     string `json:"created"`
		} `json:"info"`
		Images []Annotation `json:"images"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("dataset.json does not parse: %v", err)
	}
	if file.Info.Description != "CAD Rendering Dataset" {
		t.Errorf("description = %q", file.Info.Description)
	}
	if file.Info.Created == "" {
		t.Error("created timestamp is empty")
	}
	if len(file.Images) != 1 || file.Images[0].SourceFile != "gear.stl" {
		t.Errorf("images = %+v, want the one recorded annotation", file.Images)
	}
}

func TestManagerResumesExistingDataset(t *testing.T) {
	base := t.TempDir()
	m, err := NewManager(base)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddRendering(grayImage(4, 4), "first.obj", "mesh", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SaveAnnotations(); err != nil {
		t.Fatal(err)
	}

	// A second manager over the same directory must continue the sequence.
	m2, err := NewManager(base)
	if err != nil {
		t.Fatal(err)
	}
	if m2.Count() != 1 {
		t.Fatalf("Count() = %d after reopen, want 1", m2.Count())
	}
	anno, err := m2.AddRendering(grayImage(4, 4), "second.obj", "mesh", "")
	if err != nil {
		t.Fatal(err)
	}
	if anno.ID != 1 {
		t.Errorf("resumed id = %d, want 1", anno.ID)
	}

	if _, err := m2.SaveAnnotations(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(base, "annotations", "dataset.json"))
	if err != nil {
		t.Fatal(err)
	}
	var file struct {
		Images []Annotation `json:"images"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatal(err)
	}
	if len(file.Images) != 2 {
		t.Errorf("dataset.json holds %d annotations after resume, want 2", len(file.Images))
	}
}

func TestSaveAnnotationsEmpty(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path, err := m.SaveAnnotations()
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var file map[string]json.RawMessage
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatal(err)
	}
	if string(file["images"]) != "[]" {
		t.Errorf("images = %s, want an empty array, not null", file["images"])
	}
}
