package csg

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/carve/pkg/math"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max math.Vec3
}

// emptyBounds returns an inverted box that any Extend call will fix up.
func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Center returns the box center point.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Polygon is one face of a brush: a plane index plus a window into the
// brush's shared vertex index slice. Keeping all indices in one slice keeps
// a brush free of internal pointers.
type Polygon struct {
	PlaneIndex int32
	Start      int32
	Count      int32
}

// Brush is an immutable convex volume bounded by planes. Vertices and
// per-plane polygons are derived from the planes at construction time.
type Brush struct {
	Planes  []Plane
	Verts   []math.Vec3
	Polys   []Polygon
	Indices []uint16
}

// NewBrush derives the vertex set and winding-ordered face polygons for the
// given bounding planes. Returns false when the planes do not enclose a
// valid convex volume (fewer than 4 planes, or fewer than 4 vertices
// survive).
func NewBrush(planes []Plane) (*Brush, bool) {
	if len(planes) < 4 {
		return nil, false
	}

	normalized := make([]Plane, len(planes))
	for i, p := range planes {
		normalized[i] = p.Normalized()
	}

	b := &Brush{Planes: normalized}
	b.Verts = verticesFromPlanes(normalized)
	if len(b.Verts) < 4 {
		return nil, false
	}
	b.buildPolygons()
	if len(b.Polys) < 4 {
		return nil, false
	}
	return b, true
}

// verticesFromPlanes intersects every unordered plane triple and keeps the
// points that are not in front of any plane. O(P^3), fine at brush scale.
func verticesFromPlanes(planes []Plane) []math.Vec3 {
	var verts []math.Vec3
	for i := 0; i < len(planes); i++ {
		for j := i + 1; j < len(planes); j++ {
			for k := j + 1; k < len(planes); k++ {
				pt, ok := IntersectPlanes(planes[i], planes[j], planes[k])
				if !ok {
					continue
				}
				inside := true
				for _, p := range planes {
					if p.DistanceTo(pt) > Epsilon {
						inside = false
						break
					}
				}
				if !inside {
					continue
				}
				// Corners where more than three planes meet show up
				// once per triple; keep a single copy.
				dup := false
				for _, v := range verts {
					if v.Distance(pt) < Epsilon {
						dup = true
						break
					}
				}
				if !dup {
					verts = append(verts, pt)
				}
			}
		}
	}
	return verts
}

// buildPolygons collects the vertices incident to each plane and orders them
// clockwise around the face centroid, as seen from the front of the plane.
// Planes with fewer than three incident vertices are redundant and produce
// no polygon.
func (b *Brush) buildPolygons() {
	up := math.Vec3{Y: 1}

	for pi, plane := range b.Planes {
		var incident []uint16
		for vi, v := range b.Verts {
			if abs(plane.DistanceTo(v)) < Epsilon {
				incident = append(incident, uint16(vi))
			}
		}
		if len(incident) < 3 {
			continue
		}

		// Build a 2D frame in the plane. A normal parallel to the up
		// axis would make the tangent degenerate, so fall back to X.
		ref := up
		if 1-abs(plane.Normal.Dot(up)) < Epsilon {
			ref = math.Vec3{X: 1}
		}
		tangent := ref.Cross(plane.Normal).Normalize()
		bitangent := plane.Normal.Cross(tangent)

		centroid := math.Vec3{}
		for _, vi := range incident {
			centroid = centroid.Add(b.Verts[vi])
		}
		centroid = centroid.Scale(1 / float32(len(incident)))

		type corner struct {
			index uint16
			angle float64
		}
		corners := make([]corner, len(incident))
		for n, vi := range incident {
			d := b.Verts[vi].Sub(centroid)
			corners[n] = corner{
				index: vi,
				angle: gomath.Atan2(float64(d.Dot(bitangent)), float64(d.Dot(tangent))),
			}
		}
		// Descending angle is clockwise when viewed from the front.
		sort.Slice(corners, func(i, j int) bool { return corners[i].angle > corners[j].angle })
		for n, c := range corners {
			incident[n] = c.index
		}

		start := int32(len(b.Indices))
		b.Indices = append(b.Indices, incident...)
		b.Polys = append(b.Polys, Polygon{
			PlaneIndex: int32(pi),
			Start:      start,
			Count:      int32(len(incident)),
		})
	}
}

// PolyIndices returns the vertex indices of face polygon i.
func (b *Brush) PolyIndices(i int) []uint16 {
	p := b.Polys[i]
	return b.Indices[p.Start : p.Start+p.Count]
}

// PolyVerts returns a fresh copy of the vertex positions of face polygon i.
func (b *Brush) PolyVerts(i int) []math.Vec3 {
	idx := b.PolyIndices(i)
	verts := make([]math.Vec3, len(idx))
	for n, vi := range idx {
		verts[n] = b.Verts[vi]
	}
	return verts
}

// Bounds returns the axis-aligned box containing all brush vertices.
func (b *Brush) Bounds() Bounds {
	bounds := emptyBounds()
	for _, v := range b.Verts {
		bounds.Extend(v)
	}
	return bounds
}

// Transformed rebuilds the brush from its planes transformed by m. Returns
// false when the transform collapses the volume.
func (b *Brush) Transformed(m math.Mat4) (*Brush, bool) {
	planes := make([]Plane, len(b.Planes))
	for i, p := range b.Planes {
		planes[i] = p.Transformed(m)
	}
	return NewBrush(planes)
}

// BoxPlanes returns the six outward-facing planes of an axis-aligned box,
// a convenient starting point for box-shaped brushes.
func BoxPlanes(bounds Bounds) []Plane {
	return []Plane{
		{Normal: math.Vec3{X: 1}, Dist: bounds.Max.X},
		{Normal: math.Vec3{X: -1}, Dist: -bounds.Min.X},
		{Normal: math.Vec3{Y: 1}, Dist: bounds.Max.Y},
		{Normal: math.Vec3{Y: -1}, Dist: -bounds.Min.Y},
		{Normal: math.Vec3{Z: 1}, Dist: bounds.Max.Z},
		{Normal: math.Vec3{Z: -1}, Dist: -bounds.Min.Z},
	}
}
