package geometry

import (
	"os"
	"path/filepath"
	"strings"
)

// Load parses a mesh file into a Mesh. The format is selected by the file
// suffix, matched case-insensitively. A file that parses but yields zero
// vertices or zero faces is a LoadError, never a placeholder mesh.
func Load(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "unreadable file", Err: err}
	}
	if len(data) == 0 {
		return nil, &LoadError{Path: path, Reason: "zero-length file"}
	}

	var mesh *Mesh
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = parseOBJ(data)
	case ".stl":
		mesh, err = parseSTL(data)
	case ".ply":
		mesh, err = parsePLY(data)
	default:
		return nil, &LoadError{Path: path, Reason: "unsupported format " + filepath.Ext(path)}
	}
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "parse failed", Err: err}
	}

	if len(mesh.Vertices) == 0 {
		return nil, &LoadError{Path: path, Reason: "no vertices"}
	}
	if len(mesh.Faces) == 0 {
		return nil, &LoadError{Path: path, Reason: "no faces"}
	}
	if !mesh.validIndices() {
		return nil, &LoadError{Path: path, Reason: "face index out of vertex bounds"}
	}
	return mesh, nil
}
