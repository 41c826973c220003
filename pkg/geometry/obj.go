package geometry

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// parseOBJ reads Wavefront OBJ geometry. Only vertex positions and faces
// are consumed; texture coordinates, normals, groups and materials are
// skipped. Polygonal faces are fan-triangulated.
func parseOBJ(data []byte) (*Mesh, error) {
	mesh := &Mesh{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", lineNum)
			}
			var v mgl64.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: bad coordinate %q", lineNum, fields[i+1])
				}
				v[i] = f
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", lineNum)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := objVertexIndex(ref, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("obj line %d: %w", lineNum, err)
				}
				idx = append(idx, i)
			}
			for i := 1; i+1 < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// objVertexIndex resolves a face vertex reference (possibly "v/vt/vn" form,
// possibly negative for relative indexing) to a zero-based vertex index.
func objVertexIndex(ref string, numVertices int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	}
	if n < 0 {
		n += numVertices
		if n < 0 {
			return 0, fmt.Errorf("relative vertex reference %q out of range", ref)
		}
		return n, nil
	}
	if n == 0 {
		return 0, fmt.Errorf("vertex reference 0 is invalid (obj indices are 1-based)")
	}
	return n - 1, nil
}
