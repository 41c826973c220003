package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// STL is a triangle soup with no shared vertices, so both readers weld
// coincident positions into indexed vertices on the way in. Without the
// weld every edge would look like a boundary and no STL mesh could ever
// be watertight.

// parseSTL reads either binary or ASCII STL, sniffing the variant.
func parseSTL(data []byte) (*Mesh, error) {
	if isASCIISTL(data) {
		return parseSTLASCII(data)
	}
	return parseSTLBinary(data)
}

// isASCIISTL reports whether the data looks like ASCII STL. The "solid"
// prefix alone is not enough: some binary exporters write it into the
// 80-byte header, so we also require a "facet" token.
func isASCIISTL(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("solid")) {
		return false
	}
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	return bytes.Contains(probe, []byte("facet"))
}

// vertexWelder deduplicates vertex positions into indices.
type vertexWelder struct {
	mesh  *Mesh
	index map[mgl64.Vec3]int
}

func newVertexWelder() *vertexWelder {
	return &vertexWelder{mesh: &Mesh{}, index: make(map[mgl64.Vec3]int)}
}

func (w *vertexWelder) add(v mgl64.Vec3) int {
	if i, ok := w.index[v]; ok {
		return i
	}
	i := len(w.mesh.Vertices)
	w.mesh.Vertices = append(w.mesh.Vertices, v)
	w.index[v] = i
	return i
}

func (w *vertexWelder) addTriangle(a, b, c mgl64.Vec3) {
	w.mesh.Faces = append(w.mesh.Faces, [3]int{w.add(a), w.add(b), w.add(c)})
}

const stlHeaderSize = 80

func parseSTLBinary(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("stl: truncated binary header")
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	// 12 floats (normal + 3 vertices) plus the attribute count per triangle.
	const recordSize = 12*4 + 2
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*recordSize {
		return nil, fmt.Errorf("stl: truncated body, want %d triangles", count)
	}

	w := newVertexWelder()
	for i := uint32(0); i < count; i++ {
		rec := body[uint64(i)*recordSize:]
		var pts [3]mgl64.Vec3
		for p := 0; p < 3; p++ {
			off := 12 + p*12 // skip the stored normal
			for c := 0; c < 3; c++ {
				bits := binary.LittleEndian.Uint32(rec[off+c*4:])
				pts[p][c] = float64(math.Float32frombits(bits))
			}
		}
		w.addTriangle(pts[0], pts[1], pts[2])
	}
	return w.mesh, nil
}

func parseSTLASCII(data []byte) (*Mesh, error) {
	w := newVertexWelder()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var tri []mgl64.Vec3
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("stl line %d: vertex needs 3 coordinates", lineNum)
		}
		var v mgl64.Vec3
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("stl line %d: bad coordinate %q", lineNum, fields[i+1])
			}
			v[i] = f
		}
		tri = append(tri, v)
		if len(tri) == 3 {
			w.addTriangle(tri[0], tri[1], tri[2])
			tri = tri[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(tri) != 0 {
		return nil, fmt.Errorf("stl: dangling vertices at end of file")
	}
	return w.mesh, nil
}
