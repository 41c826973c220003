package geometry

// MinExtent is the smallest bounding extent a mesh may have after
// centering. Anything below it is flat or point-like and cannot be framed.
const MinExtent = 1e-6

// Normalize recenters the mesh so its centroid sits at the origin and
// uniformly rescales it by 1/extent so it fits a unit frame. Returns a new
// mesh; the input is never mutated. Normalizing an already-normalized mesh
// is the identity transform within floating-point tolerance.
func Normalize(m *Mesh) (*Mesh, error) {
	centroid := m.Centroid()
	out := m.Clone()
	for i := range out.Vertices {
		out.Vertices[i] = out.Vertices[i].Sub(centroid)
	}

	extent := out.Extent()
	if extent < MinExtent {
		return nil, &DegenerateError{Extent: extent}
	}
	scale := 1.0 / extent
	for i := range out.Vertices {
		out.Vertices[i] = out.Vertices[i].Mul(scale)
	}
	return out, nil
}
