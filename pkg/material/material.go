// Package material stores and looks up the visual parameters bound to
// rendered objects. Materials live in a materials.json file; a store opened
// against an empty directory is seeded with the built-in defaults.
package material

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultName is the material used when a requested name is unknown.
const DefaultName = "metal"

// Material describes the visual parameters for one named material.
type Material struct {
	Model     string     `json:"type"`
	Diffuse   [3]float64 `json:"diffuse"`
	Specular  [3]float64 `json:"specular,omitempty"`
	Shininess float64    `json:"shininess,omitempty"`
	Roughness float64    `json:"roughness,omitempty"`
	Texture   string     `json:"texture,omitempty"`
}

// Defaults returns the built-in material set.
func Defaults() map[string]Material {
	return map[string]Material{
		"metal": {
			Model:     "phong",
			Diffuse:   [3]float64{0.6, 0.6, 0.6},
			Specular:  [3]float64{0.8, 0.8, 0.8},
			Shininess: 100,
			Texture:   "metal_brushed.jpg",
		},
		"plastic": {
			Model:     "lambert",
			Diffuse:   [3]float64{0.8, 0.8, 0.8},
			Specular:  [3]float64{0.1, 0.1, 0.1},
			Shininess: 20,
		},
		"rubber": {
			Model:     "lambert",
			Diffuse:   [3]float64{0.1, 0.1, 0.1},
			Roughness: 0.9,
		},
	}
}

// Store is a named material lookup backed by a JSON file.
type Store struct {
	path      string
	materials map[string]Material
}

// Open loads the material store under dir, creating the directory and a
// materials.json with the default set when absent.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("material: create dir: %w", err)
	}
	s := &Store{path: filepath.Join(dir, "materials.json")}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.materials = Defaults()
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("material: read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &s.materials); err != nil {
		return nil, fmt.Errorf("material: parse %s: %w", s.path, err)
	}
	return s, nil
}

// Save writes the store back to materials.json.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.materials, "", "  ")
	if err != nil {
		return fmt.Errorf("material: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("material: write %s: %w", s.path, err)
	}
	return nil
}

// Get returns the material for name, falling back to the default material
// when the name is unknown.
func (s *Store) Get(name string) Material {
	if m, ok := s.materials[name]; ok {
		return m
	}
	return s.materials[DefaultName]
}

// Has reports whether name is present in the store.
func (s *Store) Has(name string) bool {
	_, ok := s.materials[name]
	return ok
}

// Names returns the stored material names in unspecified order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.materials))
	for n := range s.materials {
		names = append(names, n)
	}
	return names
}
