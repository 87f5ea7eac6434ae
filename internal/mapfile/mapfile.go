// Package mapfile loads YAML scene documents describing brushes and the
// boolean operations that combine them.
package mapfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a parsed scene file: a set of named brushes and an ordered
// list of operations applied to the base brush.
type Document struct {
	Name    string     `yaml:"name"`
	Base    string     `yaml:"base"`
	Brushes []BrushDef `yaml:"brushes"`
	Ops     []OpDef    `yaml:"ops"`
}

// BrushDef describes one convex brush, either as an axis-aligned box or as
// an explicit plane list, with an optional transform.
type BrushDef struct {
	Name      string     `yaml:"name"`
	Box       *BoxDef    `yaml:"box,omitempty"`
	Planes    []PlaneDef `yaml:"planes,omitempty"`
	Transform *Transform `yaml:"transform,omitempty"`
}

// BoxDef is an axis-aligned box given by its two corners.
type BoxDef struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// PlaneDef is one bounding plane in normal/distance form.
type PlaneDef struct {
	Normal [3]float32 `yaml:"normal"`
	Dist   float32    `yaml:"dist"`
}

// Transform places a brush in the scene. Rotation is an axis/angle pair in
// degrees; a zero Scale means no scaling.
type Transform struct {
	Translate  [3]float32 `yaml:"translate"`
	RotateAxis [3]float32 `yaml:"rotate_axis"`
	RotateDeg  float32    `yaml:"rotate_deg"`
	Scale      [3]float32 `yaml:"scale"`
}

// OpDef applies one boolean operation to the scene: the named brush is
// combined into the result built so far.
type OpDef struct {
	Op    string `yaml:"op"`
	Brush string `yaml:"brush"`
}

// Load reads and validates a scene document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a scene document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural consistency: every brush has exactly one shape
// source, every op names a known brush and operation, and the base brush
// exists. An empty Base defaults to the first brush.
func (d *Document) Validate() error {
	if len(d.Brushes) == 0 {
		return fmt.Errorf("map %q has no brushes", d.Name)
	}

	names := make(map[string]bool, len(d.Brushes))
	for i, b := range d.Brushes {
		if b.Name == "" {
			return fmt.Errorf("brush %d has no name", i)
		}
		if names[b.Name] {
			return fmt.Errorf("duplicate brush name %q", b.Name)
		}
		names[b.Name] = true

		hasBox := b.Box != nil
		hasPlanes := len(b.Planes) > 0
		if hasBox == hasPlanes {
			return fmt.Errorf("brush %q needs exactly one of box or planes", b.Name)
		}
		if hasPlanes && len(b.Planes) < 4 {
			return fmt.Errorf("brush %q has %d planes, need at least 4", b.Name, len(b.Planes))
		}
	}

	if d.Base == "" {
		d.Base = d.Brushes[0].Name
	}
	if !names[d.Base] {
		return fmt.Errorf("base brush %q is not defined", d.Base)
	}

	for i, op := range d.Ops {
		switch op.Op {
		case "union", "intersect", "subtract":
		default:
			return fmt.Errorf("op %d: unknown operation %q", i, op.Op)
		}
		if !names[op.Brush] {
			return fmt.Errorf("op %d: brush %q is not defined", i, op.Brush)
		}
	}
	return nil
}
