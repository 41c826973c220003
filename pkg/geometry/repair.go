package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// weldTolerance is the quantization step used when merging coincident
// vertices from disconnected fragments.
const weldTolerance = 1e-8

// Repair attempts to restore watertightness: it drops degenerate and
// duplicate faces, welds coincident vertices so disconnected fragments
// share edges, and fills boundary holes by fanning each boundary loop
// around its centroid.
//
// Repair never mutates its input. An already-watertight mesh is returned
// unchanged. If the repaired result is still defective the ORIGINAL mesh is
// returned so the pipeline can degrade gracefully; downstream stages must
// tolerate a still-imperfect mesh.
func Repair(m *Mesh) *Mesh {
	if m.Watertight() {
		return m
	}

	out := weldVertices(m)
	out.Faces = cleanFaces(out)
	fillHoles(out)

	if out.IsEmpty() || !out.validIndices() || !out.Watertight() {
		return m
	}
	return out
}

// weldVertices merges vertices that coincide within weldTolerance and
// remaps faces onto the merged vertex set.
func weldVertices(m *Mesh) *Mesh {
	type key [3]int64
	quantize := func(v mgl64.Vec3) key {
		return key{
			int64(math.Round(v.X() / weldTolerance)),
			int64(math.Round(v.Y() / weldTolerance)),
			int64(math.Round(v.Z() / weldTolerance)),
		}
	}

	index := make(map[key]int, len(m.Vertices))
	remap := make([]int, len(m.Vertices))
	out := &Mesh{}
	for i, v := range m.Vertices {
		k := quantize(v)
		if j, ok := index[k]; ok {
			remap[i] = j
			continue
		}
		j := len(out.Vertices)
		out.Vertices = append(out.Vertices, v)
		index[k] = j
		remap[i] = j
	}
	out.Faces = make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		out.Faces = append(out.Faces, [3]int{remap[f[0]], remap[f[1]], remap[f[2]]})
	}
	return out
}

// cleanFaces drops faces with repeated indices, near-zero area, or an
// already-seen vertex triple (regardless of winding).
func cleanFaces(m *Mesh) [][3]int {
	seen := make(map[[3]int]bool, len(m.Faces))
	out := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		area := b.Sub(a).Cross(c.Sub(a)).Len()
		if area < 1e-12 {
			continue
		}
		k := f
		sortTriple(&k)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

func sortTriple(k *[3]int) {
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
}

// fillHoles closes boundary loops. A directed edge a->b is a boundary edge
// when no face carries the opposite edge b->a. Boundary edges are chained
// into loops; a 3-loop becomes one triangle, longer loops are fanned around
// a new centroid vertex. Winding is reversed so the cap faces outward.
func fillHoles(m *Mesh) {
	directed := make(map[[2]int]bool, len(m.Faces)*3)
	for _, f := range m.Faces {
		directed[[2]int{f[0], f[1]}] = true
		directed[[2]int{f[1], f[2]}] = true
		directed[[2]int{f[2], f[0]}] = true
	}

	// next maps the start of each boundary edge to its end. Non-manifold
	// boundary vertices (two boundary edges out of one vertex) keep the
	// last one; the final watertight check catches anything left broken.
	next := make(map[int]int)
	for e := range directed {
		if !directed[[2]int{e[1], e[0]}] {
			next[e[0]] = e[1]
		}
	}

	visited := make(map[int]bool, len(next))
	for start := range next {
		if visited[start] {
			continue
		}
		loop := []int{start}
		visited[start] = true
		for cur := next[start]; ; {
			if cur == start {
				break
			}
			if visited[cur] {
				loop = nil // tangled boundary, leave it open
				break
			}
			visited[cur] = true
			loop = append(loop, cur)
			n, ok := next[cur]
			if !ok {
				loop = nil
				break
			}
			cur = n
		}
		if len(loop) < 3 {
			continue
		}
		if len(loop) == 3 {
			m.Faces = append(m.Faces, [3]int{loop[2], loop[1], loop[0]})
			continue
		}
		var center mgl64.Vec3
		for _, i := range loop {
			center = center.Add(m.Vertices[i])
		}
		center = center.Mul(1.0 / float64(len(loop)))
		ci := len(m.Vertices)
		m.Vertices = append(m.Vertices, center)
		for i := range loop {
			a := loop[i]
			b := loop[(i+1)%len(loop)]
			m.Faces = append(m.Faces, [3]int{b, a, ci})
		}
	}
}
