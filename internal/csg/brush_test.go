package csg

import (
	"testing"

	"github.com/Faultbox/carve/pkg/math"
)

// unitCubePlanes returns the six planes of the axis-aligned unit cube
// centered on the origin.
func unitCubePlanes() []Plane {
	return BoxPlanes(Bounds{
		Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
		Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
	})
}

func TestNewBrushUnitCube(t *testing.T) {
	b, ok := NewBrush(unitCubePlanes())
	if !ok {
		t.Fatal("expected unit cube to build")
	}

	if len(b.Verts) != 8 {
		t.Errorf("vertex count = %d, want 8", len(b.Verts))
	}
	if len(b.Polys) != 6 {
		t.Errorf("polygon count = %d, want 6", len(b.Polys))
	}
	for i := range b.Polys {
		if n := len(b.PolyIndices(i)); n != 4 {
			t.Errorf("polygon %d has %d vertices, want 4", i, n)
		}
	}

	bounds := b.Bounds()
	if !approxVec(bounds.Min, math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}) ||
		!approxVec(bounds.Max, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("bounds = %v, want unit cube", bounds)
	}
}

// Closure: every vertex lies on at least three planes and in front of none;
// every polygon's vertices are coplanar with its plane.
func TestBrushClosure(t *testing.T) {
	brushes := map[string][]Plane{
		"cube": unitCubePlanes(),
		"tetrahedron": {
			NewPlane(math.Vec3{Y: -1}, 0),
			NewPlane(math.Vec3{Z: -1}, 0),
			NewPlane(math.Vec3{X: -1}, 0),
			NewPlane(math.Vec3{X: 1, Y: 1, Z: 1}.Normalize(), 1),
		},
	}

	for name, planes := range brushes {
		t.Run(name, func(t *testing.T) {
			b, ok := NewBrush(planes)
			if !ok {
				t.Fatalf("brush %q failed to build", name)
			}
			for vi, v := range b.Verts {
				incident := 0
				for _, p := range b.Planes {
					d := p.DistanceTo(v)
					if d > Epsilon {
						t.Errorf("vertex %d is in front of a bounding plane (d=%v)", vi, d)
					}
					if abs(d) < Epsilon {
						incident++
					}
				}
				if incident < 3 {
					t.Errorf("vertex %d lies on %d planes, want >= 3", vi, incident)
				}
			}
			for i, poly := range b.Polys {
				plane := b.Planes[poly.PlaneIndex]
				for _, v := range b.PolyVerts(i) {
					if abs(plane.DistanceTo(v)) > Epsilon {
						t.Errorf("polygon %d vertex %v is off its plane", i, v)
					}
				}
			}
		})
	}
}

func TestNewBrushTooFewPlanes(t *testing.T) {
	if _, ok := NewBrush(unitCubePlanes()[:3]); ok {
		t.Error("expected failure with fewer than 4 planes")
	}
}

func TestNewBrushOpenVolume(t *testing.T) {
	// Four planes all facing +X-ish never close a volume.
	planes := []Plane{
		NewPlane(math.Vec3{X: 1}, 0),
		NewPlane(math.Vec3{X: 1}, 1),
		NewPlane(math.Vec3{X: 1}, 2),
		NewPlane(math.Vec3{X: 1}, 3),
	}
	if _, ok := NewBrush(planes); ok {
		t.Error("expected failure for an unclosed plane set")
	}
}

func TestNewBrushRedundantPlane(t *testing.T) {
	// A seventh plane entirely outside the cube contributes no vertices
	// and must be skipped rather than producing a degenerate polygon.
	planes := append(unitCubePlanes(), NewPlane(math.Vec3{X: 1}, 2))
	b, ok := NewBrush(planes)
	if !ok {
		t.Fatal("expected cube with redundant plane to build")
	}
	if len(b.Polys) != 6 {
		t.Errorf("polygon count = %d, want 6 (redundant plane skipped)", len(b.Polys))
	}
	if len(b.Verts) != 8 {
		t.Errorf("vertex count = %d, want 8", len(b.Verts))
	}
}

func TestBrushWindingConsistent(t *testing.T) {
	b, ok := NewBrush(unitCubePlanes())
	if !ok {
		t.Fatal("cube failed to build")
	}
	// Winding around the centroid must be strictly clockwise as seen from
	// the front of the plane: successive edge cross products all point
	// against the face normal or all with it, never mixed.
	for i, poly := range b.Polys {
		verts := b.PolyVerts(i)
		normal := b.Planes[poly.PlaneIndex].Normal
		for j := range verts {
			a := verts[j]
			bv := verts[(j+1)%len(verts)]
			c := verts[(j+2)%len(verts)]
			cross := bv.Sub(a).Cross(c.Sub(bv))
			if cross.Dot(normal) > Epsilon {
				t.Errorf("polygon %d is not clockwise at corner %d", i, j)
			}
		}
	}
}

func TestBrushTransformed(t *testing.T) {
	b, ok := NewBrush(unitCubePlanes())
	if !ok {
		t.Fatal("cube failed to build")
	}
	moved, ok := b.Transformed(math.Translate(2, 0, 0))
	if !ok {
		t.Fatal("translated cube failed to rebuild")
	}
	bounds := moved.Bounds()
	if !approxVec(bounds.Min, math.Vec3{X: 1.5, Y: -0.5, Z: -0.5}) {
		t.Errorf("translated bounds min = %v, want (1.5, -0.5, -0.5)", bounds.Min)
	}
}
