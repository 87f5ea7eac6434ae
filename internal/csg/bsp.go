package csg

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/carve/pkg/math"
)

// Side identifies which child slot of a node holds a subtree.
type Side uint8

const (
	SideFront Side = iota
	SideBack
)

func (s Side) String() string {
	if s == SideFront {
		return "front"
	}
	return "back"
}

// Ref is a tagged reference to either a Node or a Leaf. Exactly one field
// is non-nil.
type Ref struct {
	Node *Node
	Leaf *Leaf
}

// IsNil reports whether the reference points at nothing.
func (r Ref) IsNil() bool {
	return r.Node == nil && r.Leaf == nil
}

// Node is an internal split. Its front child covers the half-space in front
// of the plane, the back child the half-space behind it. Parent and Side
// always agree with the parent slot actually holding this node; reverse
// traversal depends on it.
type Node struct {
	Plane  Plane
	Parent *Node
	Side   Side
	Front  Ref
	Back   Ref
}

func (n *Node) child(s Side) Ref {
	if s == SideFront {
		return n.Front
	}
	return n.Back
}

// setChild installs c in the given slot and fixes c's parent back-link.
func (n *Node) setChild(s Side, c Ref) {
	if s == SideFront {
		n.Front = c
	} else {
		n.Back = c
	}
	switch {
	case c.Node != nil:
		c.Node.Parent = n
		c.Node.Side = s
	case c.Leaf != nil:
		c.Leaf.Parent = n
		c.Leaf.Side = s
	}
}

// Poly is a boundary polygon carried by a leaf: an ordered vertex loop plus
// the plane it lies on.
type Poly struct {
	Plane Plane
	Verts []math.Vec3
}

// clone deep-copies the polygon.
func (p Poly) clone() Poly {
	verts := make([]math.Vec3, len(p.Verts))
	copy(verts, p.Verts)
	return Poly{Plane: p.Plane, Verts: verts}
}

// inverted returns the polygon facing the other way: reversed winding and
// flipped plane.
func (p Poly) inverted() Poly {
	verts := make([]math.Vec3, len(p.Verts))
	for i, v := range p.Verts {
		verts[len(verts)-1-i] = v
	}
	return Poly{Plane: p.Plane.Inverted(), Verts: verts}
}

// Leaf is a convex terminal region, either solid or empty. Its polygons are
// the surface fragments on the region boundary.
type Leaf struct {
	Parent *Node
	Side   Side
	Solid  bool
	Polys  []Poly
}

// Tree is a BSP tree rooted at a node, or directly at a leaf in degenerate
// cases. The tree owns all its nodes and leaves.
type Tree struct {
	Root Ref
}

// NewTreeFromBrush converts a convex brush into its canonical BSP tree: one
// node per face polygon, chained along the back side. Every front child is
// an empty leaf holding that face's polygon, and the deepest back child is
// the single solid leaf, the brush interior. Returns false for brushes with
// no faces.
func NewTreeFromBrush(b *Brush) (*Tree, bool) {
	if b == nil || len(b.Polys) == 0 {
		return nil, false
	}

	t := &Tree{}
	var prev *Node
	for i := range b.Polys {
		plane := b.Planes[b.Polys[i].PlaneIndex]
		node := &Node{Plane: plane}
		node.setChild(SideFront, Ref{Leaf: &Leaf{
			Polys: []Poly{{Plane: plane, Verts: b.PolyVerts(i)}},
		}})
		if prev == nil {
			t.Root = Ref{Node: node}
		} else {
			prev.setChild(SideBack, Ref{Node: node})
		}
		prev = node
	}
	prev.setChild(SideBack, Ref{Leaf: &Leaf{Solid: true}})
	return t, true
}

// Clone returns a deep copy of the tree with freshly linked parents.
func (t *Tree) Clone() *Tree {
	return &Tree{Root: cloneRef(t.Root, nil, SideFront)}
}

func cloneRef(r Ref, parent *Node, side Side) Ref {
	switch {
	case r.Node != nil:
		n := &Node{Plane: r.Node.Plane, Parent: parent, Side: side}
		n.Front = cloneRef(r.Node.Front, n, SideFront)
		n.Back = cloneRef(r.Node.Back, n, SideBack)
		return Ref{Node: n}
	case r.Leaf != nil:
		l := &Leaf{Parent: parent, Side: side, Solid: r.Leaf.Solid}
		if len(r.Leaf.Polys) > 0 {
			l.Polys = make([]Poly, len(r.Leaf.Polys))
			for i, p := range r.Leaf.Polys {
				l.Polys[i] = p.clone()
			}
		}
		return Ref{Leaf: l}
	}
	return Ref{}
}

// Invert flips the solidity of every leaf in place, turning the tree into
// its complement. Boundary polygons flip facing so they keep pointing out
// of solid space.
func (t *Tree) Invert() {
	invertRef(t.Root)
}

func invertRef(r Ref) {
	switch {
	case r.Node != nil:
		invertRef(r.Node.Front)
		invertRef(r.Node.Back)
	case r.Leaf != nil:
		r.Leaf.Solid = !r.Leaf.Solid
		for i, p := range r.Leaf.Polys {
			r.Leaf.Polys[i] = p.inverted()
		}
	}
}

// Destroy releases the whole tree, unlinking children and parents so no
// stale reference can reach freed structure. Mirrors every create call.
func (t *Tree) Destroy() {
	destroyRef(t.Root)
	t.Root = Ref{}
}

func destroyRef(r Ref) {
	switch {
	case r.Node != nil:
		destroyRef(r.Node.Front)
		destroyRef(r.Node.Back)
		r.Node.Front = Ref{}
		r.Node.Back = Ref{}
		r.Node.Parent = nil
	case r.Leaf != nil:
		r.Leaf.Polys = nil
		r.Leaf.Parent = nil
	}
}

// Bounds returns the axis-aligned box around every leaf polygon. Returns
// false when the tree carries no polygons.
func (t *Tree) Bounds() (Bounds, bool) {
	bounds := emptyBounds()
	any := false
	t.walkLeaves(func(l *Leaf) {
		for _, p := range l.Polys {
			for _, v := range p.Verts {
				bounds.Extend(v)
				any = true
			}
		}
	})
	return bounds, any
}

// walkLeaves calls fn for every leaf, depth first, front before back.
func (t *Tree) walkLeaves(fn func(*Leaf)) {
	walkLeavesRef(t.Root, fn)
}

func walkLeavesRef(r Ref, fn func(*Leaf)) {
	switch {
	case r.Node != nil:
		walkLeavesRef(r.Node.Front, fn)
		walkLeavesRef(r.Node.Back, fn)
	case r.Leaf != nil:
		fn(r.Leaf)
	}
}

// SolidAt reports whether the point lies in a solid region of the tree.
// Points within Epsilon of a split plane resolve to the back side.
func (t *Tree) SolidAt(p math.Vec3) bool {
	r := t.Root
	for r.Node != nil {
		if r.Node.Plane.DistanceTo(p) > Epsilon {
			r = r.Node.Front
		} else {
			r = r.Node.Back
		}
	}
	if r.Leaf != nil {
		return r.Leaf.Solid
	}
	return false
}

// Stats summarizes a tree's shape, mostly for tests and diagnostics.
type Stats struct {
	Nodes       int
	Leaves      int
	SolidLeaves int
	Polys       int
}

// Stats counts the tree's nodes, leaves and polygons.
func (t *Tree) Stats() Stats {
	var s Stats
	statsRef(t.Root, &s)
	return s
}

func statsRef(r Ref, s *Stats) {
	switch {
	case r.Node != nil:
		s.Nodes++
		statsRef(r.Node.Front, s)
		statsRef(r.Node.Back, s)
	case r.Leaf != nil:
		s.Leaves++
		if r.Leaf.Solid {
			s.SolidLeaves++
		}
		s.Polys += len(r.Leaf.Polys)
	}
}

// Dump writes a human-readable tree listing to w, one line per node or
// leaf. Debug output only, not a stable format.
func (t *Tree) Dump(w io.Writer) {
	dumpRef(w, t.Root, "root", 0)
}

func dumpRef(w io.Writer, r Ref, label string, depth int) {
	indent := strings.Repeat("  ", depth)
	switch {
	case r.Node != nil:
		p := r.Node.Plane
		fmt.Fprintf(w, "%s%s: node plane=(%.3f %.3f %.3f | %.3f)\n",
			indent, label, p.Normal.X, p.Normal.Y, p.Normal.Z, p.Dist)
		dumpRef(w, r.Node.Front, "front", depth+1)
		dumpRef(w, r.Node.Back, "back", depth+1)
	case r.Leaf != nil:
		state := "empty"
		if r.Leaf.Solid {
			state = "solid"
		}
		fmt.Fprintf(w, "%s%s: leaf %s polys=%d\n", indent, label, state, len(r.Leaf.Polys))
	default:
		fmt.Fprintf(w, "%s%s: nil\n", indent, label)
	}
}
