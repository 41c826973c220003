// Package geometry provides the triangle mesh representation used by the
// rendering pipeline, loaders for the supported mesh exchange formats, and
// the repair and normalization stages that precede scene composition.
package geometry

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind classifies an input file by its suffix.
type Kind int

const (
	KindUnknown Kind = iota
	KindMesh         // triangle mesh exchange formats (.obj, .stl, .ply)
	KindSolid        // solid description scripts (.csg)
)

// meshSuffixes maps recognized mesh file suffixes to their parsers.
var meshSuffixes = map[string]bool{
	".obj": true,
	".stl": true,
	".ply": true,
}

// Classify reports the geometry kind for a file path based on its suffix,
// matched case-insensitively.
func Classify(path string) Kind {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case meshSuffixes[ext]:
		return KindMesh
	case ext == ".csg":
		return KindSolid
	}
	return KindUnknown
}

// Mesh is an indexed triangle mesh. Faces reference vertex positions by
// index; shared vertices are what give the mesh edge topology, which the
// watertight query and the repairer depend on.
//
// Pipeline stages never mutate a Mesh in place: repair and normalization
// return new meshes and the composer only reads.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][3]int
}

// IsEmpty reports whether the mesh has no vertices or no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Centroid returns the mean vertex position.
func (m *Mesh) Centroid() mgl64.Vec3 {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1.0 / float64(len(m.Vertices)))
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (min, max mgl64.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	return min, max
}

// Extent returns the maximum axis-aligned span of the bounding box.
func (m *Mesh) Extent() float64 {
	min, max := m.Bounds()
	span := max.Sub(min)
	extent := span.X()
	if span.Y() > extent {
		extent = span.Y()
	}
	if span.Z() > extent {
		extent = span.Z()
	}
	return extent
}

// edgeKey is an undirected edge between two vertex indices, lo < hi.
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// edgeCounts returns the number of faces sharing each undirected edge.
func (m *Mesh) edgeCounts() map[edgeKey]int {
	counts := make(map[edgeKey]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		counts[makeEdgeKey(f[0], f[1])]++
		counts[makeEdgeKey(f[1], f[2])]++
		counts[makeEdgeKey(f[2], f[0])]++
	}
	return counts
}

// Watertight reports whether every edge is shared by exactly two faces.
// An empty mesh is not watertight.
func (m *Mesh) Watertight() bool {
	if m.IsEmpty() {
		return false
	}
	for _, n := range m.edgeCounts() {
		if n != 2 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: make([]mgl64.Vec3, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Faces, m.Faces)
	return out
}

// validIndices reports whether every face index is within vertex bounds.
func (m *Mesh) validIndices() bool {
	n := len(m.Vertices)
	for _, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return false
			}
		}
	}
	return true
}
