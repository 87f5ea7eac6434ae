// Package csg builds convex brushes from bounding planes, converts them to
// BSP trees and combines trees with boolean set operations. The resulting
// leaf polygons are the renderable surface of the merged solid.
package csg

import (
	gomath "math"

	"github.com/Faultbox/carve/pkg/math"
)

// Epsilon is the tolerance used for all coplanarity, incidence and
// intersection tests in this package.
const Epsilon = 1e-4

// Plane is an oriented plane in normal/distance form. A point p is in front
// of the plane iff Normal.Dot(p) - Dist > 0.
type Plane struct {
	Normal math.Vec3
	Dist   float32
}

// NewPlane returns a plane with the given outward normal and signed distance
// from the origin.
func NewPlane(normal math.Vec3, dist float32) Plane {
	return Plane{Normal: normal, Dist: dist}
}

// PlaneFromPoints derives a plane from three non-collinear points, with the
// normal following the right-hand rule over (b-a, c-a). Returns false when
// the points are (near-)collinear.
func PlaneFromPoints(a, b, c math.Vec3) (Plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() < Epsilon {
		return Plane{}, false
	}
	n = n.Normalize()
	return Plane{Normal: n, Dist: n.Dot(a)}, true
}

// Normalized returns the plane scaled so its normal has unit length.
// Coplanarity tests assume both operands are normalized.
func (p Plane) Normalized() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / l), Dist: p.Dist / l}
}

// Inverted returns the plane facing the opposite direction.
func (p Plane) Inverted() Plane {
	return Plane{Normal: p.Normal.Neg(), Dist: -p.Dist}
}

// DistanceTo returns the signed distance from pt to the plane. Positive
// means in front.
func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) - p.Dist
}

// Coplanar reports whether two normalized planes have the same orientation
// and distance within Epsilon.
func (p Plane) Coplanar(o Plane) bool {
	return 1-p.Normal.Dot(o.Normal) < Epsilon && abs(p.Dist-o.Dist) < Epsilon
}

// CoplanarOpposed reports whether two normalized planes occupy the same
// location but face opposite directions.
func (p Plane) CoplanarOpposed(o Plane) bool {
	return 1+p.Normal.Dot(o.Normal) < Epsilon && abs(p.Dist+o.Dist) < Epsilon
}

// Transformed applies a 4x4 transform to the plane using the
// inverse-transpose rule on its 4-vector form, then renormalizes.
func (p Plane) Transformed(m math.Mat4) Plane {
	it := m.Inverse().Transpose()
	v := it.MulVec4(math.Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, -p.Dist})
	out := Plane{Normal: math.Vec3{X: v[0], Y: v[1], Z: v[2]}, Dist: -v[3]}
	return out.Normalized()
}

// IntersectPlanes returns the point shared by three planes via the triple
// cross product formula. Returns false when any pair is (near-)parallel.
func IntersectPlanes(p1, p2, p3 Plane) (math.Vec3, bool) {
	c12 := p1.Normal.Cross(p2.Normal)
	denom := c12.Dot(p3.Normal)
	if abs(denom) < Epsilon {
		return math.Vec3{}, false
	}
	c23 := p2.Normal.Cross(p3.Normal)
	c31 := p3.Normal.Cross(p1.Normal)
	pt := c23.Scale(p1.Dist).
		Add(c31.Scale(p2.Dist)).
		Add(c12.Scale(p3.Dist)).
		Scale(1 / denom)
	return pt, true
}

// IntersectLine returns the point where the line through a and b crosses the
// plane. Returns false when the line is (near-)parallel to the plane.
func (p Plane) IntersectLine(a, b math.Vec3) (math.Vec3, bool) {
	dir := b.Sub(a)
	denom := p.Normal.Dot(dir)
	if abs(denom) < Epsilon {
		return math.Vec3{}, false
	}
	t := (p.Dist - p.Normal.Dot(a)) / denom
	return a.Add(dir.Scale(t)), true
}

func abs(x float32) float32 {
	return float32(gomath.Abs(float64(x)))
}
