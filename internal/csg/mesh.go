package csg

import (
	"github.com/Faultbox/carve/pkg/math"
)

// Vertex is one mesh vertex with position and face normal.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
}

// Mesh is triangulated surface geometry ready for rendering or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// BuildMesh fan-triangulates every leaf polygon of the tree into a single
// indexed mesh. Triangle winding follows each polygon's plane normal so
// faces point out of solid space regardless of how the loop was wound.
func BuildMesh(t *Tree) *Mesh {
	m := &Mesh{Bounds: emptyBounds()}
	if t == nil || t.Root.IsNil() {
		return m
	}

	t.walkLeaves(func(l *Leaf) {
		for _, p := range l.Polys {
			m.addPoly(p)
		}
	})
	return m
}

func (m *Mesh) addPoly(p Poly) {
	if len(p.Verts) < 3 {
		return
	}
	normal := p.Plane.Normal

	base := uint32(len(m.Vertices))
	for _, v := range p.Verts {
		m.Vertices = append(m.Vertices, Vertex{Position: v, Normal: normal})
		m.Bounds.Extend(v)
	}

	// Orient each fan triangle to match the plane normal.
	v0 := p.Verts[0]
	for i := 1; i < len(p.Verts)-1; i++ {
		e1 := p.Verts[i].Sub(v0)
		e2 := p.Verts[i+1].Sub(v0)
		n := e1.Cross(e2)
		if n.Length() < 1e-6 {
			continue // degenerate sliver
		}
		if n.Dot(normal) >= 0 {
			m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
		} else {
			m.Indices = append(m.Indices, base, base+uint32(i+1), base+uint32(i))
		}
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
