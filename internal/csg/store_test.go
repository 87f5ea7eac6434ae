package csg

import (
	"testing"

	"github.com/Faultbox/carve/pkg/math"
)

func TestStoreCreateDeref(t *testing.T) {
	s := NewStore()

	h, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("expected cube brush to be created")
	}
	if h.IsZero() {
		t.Error("issued handle should not be zero")
	}

	b, ok := s.Deref(h)
	if !ok {
		t.Fatal("expected live handle to dereference")
	}
	if len(b.Planes) != 6 {
		t.Errorf("plane count = %d, want 6", len(b.Planes))
	}
	if s.Len() != 1 {
		t.Errorf("store len = %d, want 1", s.Len())
	}
}

func TestStoreCreateInvalid(t *testing.T) {
	s := NewStore()
	if _, ok := s.Create(unitCubePlanes()[:3]); ok {
		t.Error("expected creation to fail for a degenerate plane set")
	}
	if s.Len() != 0 {
		t.Errorf("store len = %d, want 0 after failed create", s.Len())
	}
}

func TestStoreDestroyInvalidatesHandle(t *testing.T) {
	s := NewStore()

	h, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("create failed")
	}
	if !s.Destroy(h) {
		t.Fatal("expected destroy to succeed")
	}
	if _, ok := s.Deref(h); ok {
		t.Error("stale handle should not dereference")
	}
	if s.Destroy(h) {
		t.Error("double destroy should fail")
	}
	if s.Len() != 0 {
		t.Errorf("store len = %d, want 0", s.Len())
	}
}

func TestStoreHandleSafeAcrossReuse(t *testing.T) {
	s := NewStore()

	old, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("create failed")
	}
	if !s.Destroy(old) {
		t.Fatal("destroy failed")
	}

	// Same footprint, so the freed block is recycled.
	fresh, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("second create failed")
	}
	if fresh.index != old.index {
		t.Fatalf("expected block reuse, got index %d vs %d", fresh.index, old.index)
	}

	// The old handle points at the reused block but carries a dead serial.
	if _, ok := s.Deref(old); ok {
		t.Error("stale handle must not resolve to the reused block")
	}
	if _, ok := s.Deref(fresh); !ok {
		t.Error("fresh handle should resolve")
	}
}

func TestStoreFreeListExactSizeMatch(t *testing.T) {
	s := NewStore()

	cube, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("cube create failed")
	}

	tetraPlanes := []Plane{
		NewPlane(math.Vec3{Y: -1}, 0),
		NewPlane(math.Vec3{Z: -1}, 0),
		NewPlane(math.Vec3{X: -1}, 0),
		NewPlane(math.Vec3{X: 1, Y: 1, Z: 1}.Normalize(), 1),
	}

	if !s.Destroy(cube) {
		t.Fatal("destroy failed")
	}

	// A tetrahedron is smaller than a cube block, so it must not reuse it.
	tetra, ok := s.Create(tetraPlanes)
	if !ok {
		t.Fatal("tetra create failed")
	}
	if tetra.index == cube.index {
		t.Error("different-size brush should not reuse the freed block")
	}

	// Another cube matches exactly and takes the freed block.
	cube2, ok := s.Create(unitCubePlanes())
	if !ok {
		t.Fatal("second cube create failed")
	}
	if cube2.index != cube.index {
		t.Errorf("expected exact-size reuse of block %d, got %d", cube.index, cube2.index)
	}
}
