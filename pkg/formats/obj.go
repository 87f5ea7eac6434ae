// Package formats writes exported geometry formats.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/carve/internal/csg"
)

// WriteOBJ writes the mesh to w as a Wavefront OBJ object with positions,
// per-vertex normals and triangle faces. OBJ indices are 1-based.
func WriteOBJ(w io.Writer, mesh *csg.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position.X, v.Position.Y, v.Position.Z)
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
	}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a := mesh.Indices[i] + 1
		b := mesh.Indices[i+1] + 1
		c := mesh.Indices[i+2] + 1
		fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
	}

	return bw.Flush()
}

// SaveOBJ writes the mesh to a file, creating or truncating it.
func SaveOBJ(path string, mesh *csg.Mesh, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteOBJ(f, mesh, name); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
