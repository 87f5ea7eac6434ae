package csg

import "github.com/Faultbox/carve/pkg/math"

// splitVerts cuts a vertex loop by a plane, Sutherland-Hodgman style, and
// returns the front and back loops. Vertices within Epsilon of the plane
// are emitted to both sides; crossing edges add the exact line/plane
// intersection point. A loop with fewer than three vertices is degenerate
// and the caller must discard it.
func splitVerts(verts []math.Vec3, plane Plane) (front, back []math.Vec3) {
	n := len(verts)
	if n == 0 {
		return nil, nil
	}

	dists := make([]float32, n)
	for i, v := range verts {
		dists[i] = plane.DistanceTo(v)
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		di, dj := dists[i], dists[j]

		switch {
		case abs(di) < Epsilon:
			front = append(front, verts[i])
			back = append(back, verts[i])
		case di > 0:
			front = append(front, verts[i])
		default:
			back = append(back, verts[i])
		}

		// Only strict sign changes produce a crossing point; edges that
		// merely graze the plane are covered by the on-plane case above.
		if (di > Epsilon && dj < -Epsilon) || (di < -Epsilon && dj > Epsilon) {
			if pt, ok := plane.IntersectLine(verts[i], verts[j]); ok {
				front = append(front, pt)
				back = append(back, pt)
			}
		}
	}
	return front, back
}

// SplitPoly splits p by plane into its front and back pieces. A returned
// ok flag is false when that side degenerated to fewer than three vertices.
func SplitPoly(p Poly, plane Plane) (front, back Poly, frontOK, backOK bool) {
	f, b := splitVerts(p.Verts, plane)
	if len(f) >= 3 {
		front = Poly{Plane: p.Plane, Verts: f}
		frontOK = true
	}
	if len(b) >= 3 {
		back = Poly{Plane: p.Plane, Verts: b}
		backOK = true
	}
	return front, back, frontOK, backOK
}

// ClipPolyByPlane keeps the part of p behind the plane.
func ClipPolyByPlane(p Poly, plane Plane) (Poly, bool) {
	_, back, _, ok := SplitPoly(p, plane)
	return back, ok
}

// routePoly sends p through one node. A polygon coplanar with the split
// plane is routed whole instead of being bisected into numerically unstable
// slivers: a same-facing polygon lies on the clip solid's own boundary and
// is sent toward the surviving side, an inversely coplanar one faces into
// the solid and is sent toward the discarding side. Which side survives
// depends on the leaf solidity the clip keeps.
func routePoly(n *Node, p Poly, keepSolid bool, visit func(Ref, Poly)) {
	keepSide := SideFront
	if keepSolid {
		keepSide = SideBack
	}
	switch {
	case p.Plane.Coplanar(n.Plane):
		visit(n.child(keepSide), p)
	case p.Plane.CoplanarOpposed(n.Plane):
		visit(n.child(keepSide.opposite()), p)
	default:
		front, back, frontOK, backOK := SplitPoly(p, n.Plane)
		if frontOK {
			visit(n.Front, front)
		}
		if backOK {
			visit(n.Back, back)
		}
	}
}

// clipPolyIntoTree pushes p down the subtree and deposits every surviving
// fragment on the leaf it reaches. Fragments survive on leaves whose
// solidity equals keepSolid and are discarded on the others.
func clipPolyIntoTree(r Ref, p Poly, keepSolid bool) {
	switch {
	case r.Node != nil:
		routePoly(r.Node, p, keepSolid, func(c Ref, piece Poly) {
			clipPolyIntoTree(c, piece, keepSolid)
		})
	case r.Leaf != nil:
		if r.Leaf.Solid == keepSolid {
			r.Leaf.Polys = append(r.Leaf.Polys, frag(p))
		}
	}
}

// clipPolyByTree is the collecting variant of clipPolyIntoTree: surviving
// fragments are appended to out and the tree is left untouched.
func clipPolyByTree(r Ref, p Poly, keepSolid bool, out *[]Poly) {
	switch {
	case r.Node != nil:
		routePoly(r.Node, p, keepSolid, func(c Ref, piece Poly) {
			clipPolyByTree(c, piece, keepSolid, out)
		})
	case r.Leaf != nil:
		if r.Leaf.Solid == keepSolid {
			*out = append(*out, frag(p))
		}
	}
}

// frag copies a fragment's vertex slice so emitted polygons never alias the
// splitting scratch space.
func frag(p Poly) Poly {
	return p.clone()
}

// clipPolyToRegion clips p against every ancestor plane walking from
// (parent, side) up to the root. The recorded side at each ancestor decides
// whether the plane or its inverse bounds the region. Ancestors coplanar
// with the polygon's own plane cannot cut it and are skipped. Returns false
// when the polygon does not survive the region.
func clipPolyToRegion(parent *Node, side Side, p Poly) (Poly, bool) {
	cur, curSide := parent, side
	for cur != nil {
		plane := cur.Plane
		if !p.Plane.Coplanar(plane) && !p.Plane.CoplanarOpposed(plane) {
			if curSide == SideFront {
				plane = plane.Inverted()
			}
			clipped, ok := ClipPolyByPlane(p, plane)
			if !ok {
				return Poly{}, false
			}
			p = clipped
		}
		curSide = cur.Side
		cur = cur.Parent
	}
	return p, true
}
