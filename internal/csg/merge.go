package csg

// Op selects the boolean set operation applied by Merge.
type Op int

const (
	OpUnion Op = iota
	OpIntersect
	OpSubtract
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersect:
		return "intersect"
	case OpSubtract:
		return "subtract"
	}
	return "unknown"
}

// Merge combines tree b into tree a under the given operation. a is
// rewritten in place; b is never mutated, every use splices a fresh clone.
// Subtract is intersection with the complement: a - b = a & !b.
//
// Passing an empty or nil tree is a caller bug and panics.
func Merge(a, b *Tree, op Op) {
	if a == nil || b == nil || a.Root.IsNil() || b.Root.IsNil() {
		panic("csg: Merge requires two built trees")
	}

	tool := b
	if op == OpSubtract {
		tool = b.Clone()
		tool.Invert()
		op = OpIntersect
	}

	toolBounds, boundsOK := tool.Bounds()
	mergeRef(a, a.Root, tool, toolBounds, boundsOK, op, false)
}

// mergeRef walks every original node of a exactly once and acts only at
// leaves. disjoint is sticky: once the tool's bounds cannot reach a child's
// half-space, the whole subtree below is known untouched by the tool and
// splicing is skipped (union) or resolved exactly (intersect).
func mergeRef(a *Tree, r Ref, tool *Tree, tb Bounds, tbOK bool, op Op, disjoint bool) {
	switch {
	case r.Node != nil:
		n := r.Node
		front, back := n.Front, n.Back
		frontDisjoint := disjoint || (tbOK && !boundsTouchFront(tb, n.Plane))
		backDisjoint := disjoint || (tbOK && !boundsTouchBack(tb, n.Plane))
		mergeRef(a, front, tool, tb, tbOK, op, frontDisjoint)
		mergeRef(a, back, tool, tb, tbOK, op, backDisjoint)

	case r.Leaf != nil:
		mergeLeaf(a, r.Leaf, tool, op, disjoint)
	}
}

func mergeLeaf(a *Tree, leaf *Leaf, tool *Tree, op Op, disjoint bool) {
	switch op {
	case OpUnion:
		// Union only grows empty space; solid regions stay solid.
		if leaf.Solid || disjoint {
			return
		}
		splice(a, leaf, tool)

	case OpIntersect:
		if leaf.Solid {
			if disjoint {
				// The tool cannot reach this region, so the
				// intersection here is exactly empty.
				leaf.Solid = false
				leaf.Polys = nil
				return
			}
			splice(a, leaf, tool)
			return
		}
		// Empty regions stay empty, but their surface fragments only
		// survive where the tool is solid.
		if disjoint {
			leaf.Polys = nil
			return
		}
		var kept []Poly
		for _, p := range leaf.Polys {
			clipPolyByTree(tool.Root, p, true, &kept)
		}
		leaf.Polys = kept
	}
}

// splice replaces leaf with a clone of the tool tree. Clone nodes coplanar
// with an ancestor above the splice point are discarded first; their split
// is already decided by that ancestor, and re-splitting on a shared plane
// would be numerically ambiguous. Polygons arriving with the clone are
// clipped down to the leaf's region, and the leaf's own polygons are pushed
// into the clone so no fragment survives inside solid volume.
func splice(a *Tree, leaf *Leaf, tool *Tree) {
	parent, side := leaf.Parent, leaf.Side

	sub := cloneRef(tool.Root, parent, side)
	sub = reduceCoplanar(sub, parent, side)

	if parent == nil {
		if sub.Node != nil {
			sub.Node.Parent = nil
		} else if sub.Leaf != nil {
			sub.Leaf.Parent = nil
		}
		a.Root = sub
	} else {
		parent.setChild(side, sub)
	}

	// Confine the clone's polygons to the region the leaf occupied.
	if parent != nil {
		walkLeavesRef(sub, func(l *Leaf) {
			if len(l.Polys) == 0 {
				return
			}
			var kept []Poly
			for _, p := range l.Polys {
				if clipped, ok := clipPolyToRegion(parent, side, p); ok {
					kept = append(kept, clipped)
				}
			}
			l.Polys = kept
		})
	}

	// Redistribute the replaced leaf's surface into the new subtree.
	// Fragments stay only where the spliced regions match the leaf's
	// original solidity.
	for _, p := range leaf.Polys {
		clipPolyIntoTree(sub, p, leaf.Solid)
	}
}

// reduceCoplanar removes clone nodes whose plane coincides with an ancestor
// plane above the splice point, keeping the child on the side the region
// already occupies. The replacement is re-examined, then reduction recurses
// into the remaining children.
func reduceCoplanar(r Ref, parent *Node, side Side) Ref {
	for r.Node != nil {
		keep, found := coplanarAncestorSide(r.Node.Plane, parent, side)
		if !found {
			break
		}
		kept := r.Node.child(keep)
		discarded := r.Node.child(keep.opposite())
		destroyRef(discarded)
		r = kept
	}
	if r.Node != nil {
		r.Node.setChild(SideFront, reduceCoplanar(r.Node.Front, parent, side))
		r.Node.setChild(SideBack, reduceCoplanar(r.Node.Back, parent, side))
	}
	return r
}

// coplanarAncestorSide scans the ancestor chain for a plane coinciding with
// plane. When found, it returns which child of the discarded node the
// region lies in: the region is in front of a same-facing ancestor plane
// exactly when it sits on that ancestor's front side, and the relation
// flips for inversely coplanar planes.
func coplanarAncestorSide(plane Plane, parent *Node, side Side) (Side, bool) {
	anc, regionSide := parent, side
	for anc != nil {
		if plane.Coplanar(anc.Plane) {
			return regionSide, true
		}
		if plane.CoplanarOpposed(anc.Plane) {
			return regionSide.opposite(), true
		}
		regionSide = anc.Side
		anc = anc.Parent
	}
	return SideFront, false
}

func (s Side) opposite() Side {
	if s == SideFront {
		return SideBack
	}
	return SideFront
}

// boundsTouchFront reports whether any part of the box reaches the front
// half-space of the plane.
func boundsTouchFront(b Bounds, p Plane) bool {
	far := b.Min
	if p.Normal.X > 0 {
		far.X = b.Max.X
	}
	if p.Normal.Y > 0 {
		far.Y = b.Max.Y
	}
	if p.Normal.Z > 0 {
		far.Z = b.Max.Z
	}
	return p.DistanceTo(far) > -Epsilon
}

// boundsTouchBack reports whether any part of the box reaches the back
// half-space of the plane.
func boundsTouchBack(b Bounds, p Plane) bool {
	near := b.Max
	if p.Normal.X > 0 {
		near.X = b.Min.X
	}
	if p.Normal.Y > 0 {
		near.Y = b.Min.Y
	}
	if p.Normal.Z > 0 {
		near.Z = b.Min.Z
	}
	return p.DistanceTo(near) < Epsilon
}
