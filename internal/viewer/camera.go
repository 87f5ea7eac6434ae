package viewer

import (
	gomath "math"

	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

// OrbitCamera orbits around a center point, spherical coordinates driven by
// mouse drag and scroll.
type OrbitCamera struct {
	Center math.Vec3

	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSpeed       float32
}

// NewOrbitCamera creates an orbit camera with defaults suited to
// meter-scale solids.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.5,
		Yaw:             0.8,
		MinDistance:     0.1,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.01,
		ZoomSpeed:       1.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// HandleDrag updates the orbit angles from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom moves the camera along its view ray. Positive delta zooms in.
func (c *OrbitCamera) HandleZoom(delta float32) {
	if delta > 0 {
		c.Distance /= c.ZoomSpeed
	} else if delta < 0 {
		c.Distance *= c.ZoomSpeed
	}
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// FitToBounds centers the orbit on the box and backs off far enough to see
// all of it.
func (c *OrbitCamera) FitToBounds(b csg.Bounds) {
	c.Center = b.Center()

	size := b.Max.Sub(b.Min)
	maxSize := size.X
	if size.Y > maxSize {
		maxSize = size.Y
	}
	if size.Z > maxSize {
		maxSize = size.Z
	}
	if maxSize < 1 {
		maxSize = 1
	}

	c.Distance = maxSize * 2
	c.Pitch = 0.5
	c.Yaw = 0.8
}
