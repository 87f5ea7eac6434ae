package formats

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

func cubeMesh(t *testing.T) *csg.Mesh {
	t.Helper()
	b, ok := csg.NewBrush(csg.BoxPlanes(csg.Bounds{
		Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
		Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	}))
	if !ok {
		t.Fatal("cube brush failed to build")
	}
	tree, ok := csg.NewTreeFromBrush(b)
	if !ok {
		t.Fatal("cube tree failed to build")
	}
	return csg.BuildMesh(tree)
}

func TestWriteOBJ(t *testing.T) {
	mesh := cubeMesh(t)

	var sb strings.Builder
	if err := WriteOBJ(&sb, mesh, "cube"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "o cube\n") {
		t.Error("output should start with the object name")
	}

	var vCount, vnCount, fCount int
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			vCount++
			if len(fields) != 4 {
				t.Errorf("malformed vertex line: %q", scanner.Text())
			}
		case "vn":
			vnCount++
		case "f":
			fCount++
			if len(fields) != 4 {
				t.Errorf("face is not a triangle: %q", scanner.Text())
			}
			for _, ref := range fields[1:] {
				if !strings.Contains(ref, "//") {
					t.Errorf("face reference %q missing normal index", ref)
				}
			}
		}
	}

	if vCount != len(mesh.Vertices) {
		t.Errorf("v lines = %d, want %d", vCount, len(mesh.Vertices))
	}
	if vnCount != len(mesh.Vertices) {
		t.Errorf("vn lines = %d, want %d", vnCount, len(mesh.Vertices))
	}
	if fCount != mesh.TriangleCount() {
		t.Errorf("f lines = %d, want %d", fCount, mesh.TriangleCount())
	}

	// OBJ indices are 1-based; index 0 must never appear in a face.
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "f ") && strings.Contains(line, " 0//") {
			t.Errorf("zero-based face index leaked: %q", line)
		}
	}
}

func TestWriteOBJNoName(t *testing.T) {
	var sb strings.Builder
	if err := WriteOBJ(&sb, cubeMesh(t), ""); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if strings.HasPrefix(sb.String(), "o ") {
		t.Error("unnamed export should not emit an object line")
	}
}

func TestSaveOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cube.obj")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := SaveOBJ(path, cubeMesh(t), "cube"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	if !strings.Contains(string(data), "\nf ") {
		t.Error("exported file has no faces")
	}
}
