package geometry

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// parsePLY reads ASCII PLY. The header declares element counts; only the
// vertex x/y/z properties and the face vertex-index lists are consumed.
// Binary PLY is not supported.
func parsePLY(data []byte) (*Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("ply: missing magic line")
	}

	var numVertices, numFaces int
	ascii := false
	inHeader := true
	for inHeader && scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			ascii = len(fields) >= 2 && fields[1] == "ascii"
		case "element":
			if len(fields) < 3 {
				return nil, fmt.Errorf("ply: malformed element line")
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("ply: bad element count %q", fields[2])
			}
			switch fields[1] {
			case "vertex":
				numVertices = n
			case "face":
				numFaces = n
			}
		case "end_header":
			inHeader = false
		}
	}
	if inHeader {
		return nil, fmt.Errorf("ply: unterminated header")
	}
	if !ascii {
		return nil, fmt.Errorf("ply: only ascii format is supported")
	}

	mesh := &Mesh{
		Vertices: make([]mgl64.Vec3, 0, numVertices),
		Faces:    make([][3]int, 0, numFaces),
	}
	for i := 0; i < numVertices; i++ {
		fields, err := nextDataLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("ply: vertex %d: %w", i, err)
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("ply: vertex %d: needs 3 coordinates", i)
		}
		var v mgl64.Vec3
		for c := 0; c < 3; c++ {
			f, err := strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, fmt.Errorf("ply: vertex %d: bad coordinate %q", i, fields[c])
			}
			v[c] = f
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}
	for i := 0; i < numFaces; i++ {
		fields, err := nextDataLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("ply: face %d: %w", i, err)
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || count < 3 || len(fields) < count+1 {
			return nil, fmt.Errorf("ply: face %d: malformed index list", i)
		}
		idx := make([]int, count)
		for j := 0; j < count; j++ {
			idx[j], err = strconv.Atoi(fields[j+1])
			if err != nil {
				return nil, fmt.Errorf("ply: face %d: bad index %q", i, fields[j+1])
			}
		}
		for j := 1; j+1 < count; j++ {
			mesh.Faces = append(mesh.Faces, [3]int{idx[0], idx[j], idx[j+1]})
		}
	}
	return mesh, nil
}

func nextDataLine(scanner *bufio.Scanner) ([]string, error) {
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("unexpected end of file")
}
