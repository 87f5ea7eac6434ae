package csg

import (
	"testing"

	"github.com/Faultbox/carve/pkg/math"
)

// squareOnY returns a unit square on the plane y = h, wound clockwise as
// seen from +Y.
func squareOnY(h float32) Poly {
	return Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, h),
		Verts: []math.Vec3{
			{X: -0.5, Y: h, Z: -0.5},
			{X: -0.5, Y: h, Z: 0.5},
			{X: 0.5, Y: h, Z: 0.5},
			{X: 0.5, Y: h, Z: -0.5},
		},
	}
}

func TestSplitPolyMidPlane(t *testing.T) {
	p := squareOnY(0)
	cut := NewPlane(math.Vec3{X: 1}, 0)

	front, back, frontOK, backOK := SplitPoly(p, cut)
	if !frontOK || !backOK {
		t.Fatalf("expected both halves, got frontOK=%v backOK=%v", frontOK, backOK)
	}
	if len(front.Verts) != 4 || len(back.Verts) != 4 {
		t.Errorf("half sizes = %d/%d verts, want 4/4", len(front.Verts), len(back.Verts))
	}
	for _, v := range front.Verts {
		if v.X < -Epsilon {
			t.Errorf("front half has vertex behind the cut: %v", v)
		}
	}
	for _, v := range back.Verts {
		if v.X > Epsilon {
			t.Errorf("back half has vertex in front of the cut: %v", v)
		}
	}
}

func TestSplitPolyOneSided(t *testing.T) {
	p := squareOnY(0)

	// Cut plane entirely below the square: everything lands in front.
	front, _, frontOK, backOK := SplitPoly(p, NewPlane(math.Vec3{Y: 1}, -1))
	if !frontOK || backOK {
		t.Fatalf("expected front-only split, got frontOK=%v backOK=%v", frontOK, backOK)
	}
	if len(front.Verts) != 4 {
		t.Errorf("untouched polygon grew to %d verts", len(front.Verts))
	}
	for i, v := range front.Verts {
		if !approxVec(v, p.Verts[i]) {
			t.Errorf("vertex %d moved: %v vs %v", i, v, p.Verts[i])
		}
	}

	// Entirely above: everything lands behind.
	_, back, frontOK, backOK := SplitPoly(p, NewPlane(math.Vec3{Y: 1}, 1))
	if frontOK || !backOK {
		t.Fatalf("expected back-only split, got frontOK=%v backOK=%v", frontOK, backOK)
	}
	if len(back.Verts) != 4 {
		t.Errorf("untouched polygon grew to %d verts", len(back.Verts))
	}
}

func TestSplitPolyOnPlaneVertex(t *testing.T) {
	// Triangle with one vertex exactly on the cut plane: that vertex is
	// shared by both halves and no extra crossing point appears for its
	// edges.
	tri := Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, 0),
		Verts: []math.Vec3{
			{X: 0, Z: 1},
			{X: 1, Z: -1},
			{X: -1, Z: -1},
		},
	}
	cut := NewPlane(math.Vec3{X: 1}, 0)

	front, back, frontOK, backOK := SplitPoly(tri, cut)
	if !frontOK || !backOK {
		t.Fatalf("expected both halves, got frontOK=%v backOK=%v", frontOK, backOK)
	}
	if len(front.Verts) != 3 || len(back.Verts) != 3 {
		t.Errorf("half sizes = %d/%d verts, want 3/3", len(front.Verts), len(back.Verts))
	}
	found := func(verts []math.Vec3, want math.Vec3) bool {
		for _, v := range verts {
			if approxVec(v, want) {
				return true
			}
		}
		return false
	}
	apex := math.Vec3{X: 0, Z: 1}
	if !found(front.Verts, apex) || !found(back.Verts, apex) {
		t.Error("on-plane vertex should appear in both halves")
	}
}

func TestClipPolyByPlane(t *testing.T) {
	p := squareOnY(0)

	clipped, ok := ClipPolyByPlane(p, NewPlane(math.Vec3{X: 1}, 0))
	if !ok {
		t.Fatal("expected half the square to survive")
	}
	for _, v := range clipped.Verts {
		if v.X > Epsilon {
			t.Errorf("clip kept a vertex in front of the plane: %v", v)
		}
	}

	// A plane the square never crosses in front of keeps it whole.
	whole, ok := ClipPolyByPlane(p, NewPlane(math.Vec3{Y: 1}, 1))
	if !ok || len(whole.Verts) != 4 {
		t.Error("square behind the plane should survive untouched")
	}

	// A plane the square is entirely in front of removes it.
	if _, ok := ClipPolyByPlane(p, NewPlane(math.Vec3{Y: 1}, -1)); ok {
		t.Error("square in front of the plane should be discarded")
	}
}

func TestRoutePolyCoplanar(t *testing.T) {
	node := &Node{Plane: NewPlane(math.Vec3{Y: 1}, 0)}
	node.setChild(SideFront, Ref{Leaf: &Leaf{}})
	node.setChild(SideBack, Ref{Leaf: &Leaf{Solid: true}})

	same := squareOnY(0)
	opposed := same.inverted()

	route := func(p Poly, keepSolid bool) Side {
		var got Side
		routePoly(node, p, keepSolid, func(c Ref, _ Poly) {
			got = c.Leaf.Side
		})
		return got
	}

	// Keeping empty space, a same-facing coplanar polygon belongs to the
	// front side and an inversely coplanar one to the back.
	if got := route(same, false); got != SideFront {
		t.Errorf("same-facing with keepSolid=false routed %v, want front", got)
	}
	if got := route(opposed, false); got != SideBack {
		t.Errorf("opposed with keepSolid=false routed %v, want back", got)
	}

	// Keeping solid space flips both.
	if got := route(same, true); got != SideBack {
		t.Errorf("same-facing with keepSolid=true routed %v, want back", got)
	}
	if got := route(opposed, true); got != SideFront {
		t.Errorf("opposed with keepSolid=true routed %v, want front", got)
	}
}

func TestClipPolyIntoTree(t *testing.T) {
	tree := mustCubeTree(t)
	before := tree.Stats().Polys

	// A large horizontal square through the cube's middle: only the part
	// inside the solid interior survives when depositing on solid leaves.
	big := Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, 0),
		Verts: []math.Vec3{
			{X: -5, Z: -5},
			{X: -5, Z: 5},
			{X: 5, Z: 5},
			{X: 5, Z: -5},
		},
	}
	clipPolyIntoTree(tree.Root, big, true)

	after := tree.Stats().Polys
	if after != before+1 {
		t.Fatalf("deposited %d fragments, want 1", after-before)
	}
	tree.walkLeaves(func(l *Leaf) {
		if !l.Solid {
			return
		}
		for _, p := range l.Polys {
			b := emptyBounds()
			for _, v := range p.Verts {
				b.Extend(v)
			}
			if b.Min.X < -0.5-Epsilon || b.Max.X > 0.5+Epsilon ||
				b.Min.Z < -0.5-Epsilon || b.Max.Z > 0.5+Epsilon {
				t.Errorf("fragment escapes the cube interior: %v", b)
			}
		}
	})
}

func TestClipPolyByTreeCollects(t *testing.T) {
	tree := mustCubeTree(t)

	big := Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, 0),
		Verts: []math.Vec3{
			{X: -5, Z: -5},
			{X: -5, Z: 5},
			{X: 5, Z: 5},
			{X: 5, Z: -5},
		},
	}

	var inside []Poly
	clipPolyByTree(tree.Root, big, true, &inside)
	if len(inside) != 1 {
		t.Fatalf("collected %d fragments inside the cube, want 1", len(inside))
	}

	// Collecting must not mutate the tree.
	if got := tree.Stats().Polys; got != 6 {
		t.Errorf("tree polys = %d after collect, want 6", got)
	}
}

func TestClipPolyToRegion(t *testing.T) {
	tree := mustCubeTree(t)

	// Find the solid leaf; its region is the cube interior.
	var solid *Leaf
	tree.walkLeaves(func(l *Leaf) {
		if l.Solid {
			solid = l
		}
	})
	if solid == nil {
		t.Fatal("cube tree has no solid leaf")
	}

	big := Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, 0),
		Verts: []math.Vec3{
			{X: -5, Z: -5},
			{X: -5, Z: 5},
			{X: 5, Z: 5},
			{X: 5, Z: -5},
		},
	}
	clipped, ok := clipPolyToRegion(solid.Parent, solid.Side, big)
	if !ok {
		t.Fatal("expected the square to survive inside the cube region")
	}
	for _, v := range clipped.Verts {
		if abs(v.X) > 0.5+Epsilon || abs(v.Z) > 0.5+Epsilon {
			t.Errorf("region clip left vertex outside the cube: %v", v)
		}
	}

	// A polygon entirely outside the region dies.
	far := Poly{
		Plane: NewPlane(math.Vec3{Y: 1}, 0),
		Verts: []math.Vec3{
			{X: 2, Z: 2},
			{X: 2, Z: 3},
			{X: 3, Z: 3},
			{X: 3, Z: 2},
		},
	}
	if _, ok := clipPolyToRegion(solid.Parent, solid.Side, far); ok {
		t.Error("polygon outside the region should not survive")
	}
}
