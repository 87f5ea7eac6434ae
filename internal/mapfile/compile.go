package mapfile

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

// Matrix builds the placement matrix: scale, then rotate, then translate.
// A nil transform is the identity.
func (t *Transform) Matrix() math.Mat4 {
	if t == nil {
		return math.Identity()
	}

	m := math.Identity()
	if t.Scale != [3]float32{} {
		m = math.Scale(t.Scale[0], t.Scale[1], t.Scale[2])
	}
	axis := math.Vec3{X: t.RotateAxis[0], Y: t.RotateAxis[1], Z: t.RotateAxis[2]}
	if t.RotateDeg != 0 && axis.Length() > 0 {
		rad := t.RotateDeg * float32(gomath.Pi) / 180
		q := math.QuatFromAxisAngle(axis.Normalize(), rad)
		m = q.ToMat4().Mul(m)
	}
	if t.Translate != [3]float32{} {
		m = math.Translate(t.Translate[0], t.Translate[1], t.Translate[2]).Mul(m)
	}
	return m
}

// planes resolves the brush definition to its transformed plane set.
func (b *BrushDef) planes() []csg.Plane {
	var planes []csg.Plane
	if b.Box != nil {
		planes = csg.BoxPlanes(csg.Bounds{
			Min: math.Vec3{X: b.Box.Min[0], Y: b.Box.Min[1], Z: b.Box.Min[2]},
			Max: math.Vec3{X: b.Box.Max[0], Y: b.Box.Max[1], Z: b.Box.Max[2]},
		})
	} else {
		planes = make([]csg.Plane, 0, len(b.Planes))
		for _, p := range b.Planes {
			normal := math.Vec3{X: p.Normal[0], Y: p.Normal[1], Z: p.Normal[2]}
			planes = append(planes, csg.NewPlane(normal, p.Dist))
		}
	}

	if b.Transform != nil {
		m := b.Transform.Matrix()
		for i := range planes {
			planes[i] = planes[i].Transformed(m)
		}
	}
	return planes
}

// Compile builds every brush of the document into the store and folds the
// operation list into a single BSP tree, starting from the base brush. The
// returned tree is owned by the caller; the brushes stay in the store under
// the returned handles.
func Compile(doc *Document, store *csg.Store) (*csg.Tree, map[string]csg.Handle, error) {
	handles := make(map[string]csg.Handle, len(doc.Brushes))
	for i := range doc.Brushes {
		def := &doc.Brushes[i]
		h, ok := store.Create(def.planes())
		if !ok {
			return nil, nil, fmt.Errorf("brush %q does not close into a volume", def.Name)
		}
		handles[def.Name] = h
	}

	scene, err := treeFor(store, handles, doc.Base)
	if err != nil {
		return nil, nil, err
	}

	for i, op := range doc.Ops {
		tool, err := treeFor(store, handles, op.Brush)
		if err != nil {
			scene.Destroy()
			return nil, nil, fmt.Errorf("op %d: %w", i, err)
		}
		csg.Merge(scene, tool, opFor(op.Op))
		tool.Destroy()
	}
	return scene, handles, nil
}

func treeFor(store *csg.Store, handles map[string]csg.Handle, name string) (*csg.Tree, error) {
	brush, ok := store.Deref(handles[name])
	if !ok {
		return nil, fmt.Errorf("brush %q is not in the store", name)
	}
	tree, ok := csg.NewTreeFromBrush(brush)
	if !ok {
		return nil, fmt.Errorf("brush %q produced no faces", name)
	}
	return tree, nil
}

// opFor maps a validated op string to its operation. Validate has already
// rejected anything else.
func opFor(s string) csg.Op {
	switch s {
	case "intersect":
		return csg.OpIntersect
	case "subtract":
		return csg.OpSubtract
	default:
		return csg.OpUnion
	}
}
