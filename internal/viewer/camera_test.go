package viewer

import (
	"testing"

	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{}
	c.Distance = 10
	c.Pitch = 0
	c.Yaw = 0

	// Zero angles put the camera straight down the +Z axis.
	pos := c.Position()
	if pos.Distance(math.Vec3{Z: 10}) > 1e-4 {
		t.Errorf("position = %v, want (0, 0, 10)", pos)
	}

	// The camera always sits Distance away from the center.
	c.Pitch = 0.7
	c.Yaw = 2.1
	c.Center = math.Vec3{X: 3, Y: -1, Z: 5}
	if d := c.Position().Distance(c.Center); d < 9.999 || d > 10.001 {
		t.Errorf("orbit radius = %v, want 10", d)
	}
}

func TestOrbitCameraDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	if c.Pitch > c.MaxPitch {
		t.Errorf("pitch %v exceeds max %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch < c.MinPitch {
		t.Errorf("pitch %v below min %v", c.Pitch, c.MinPitch)
	}
}

func TestOrbitCameraZoomClamps(t *testing.T) {
	c := NewOrbitCamera()

	for i := 0; i < 1000; i++ {
		c.HandleZoom(1)
	}
	if c.Distance < c.MinDistance {
		t.Errorf("distance %v below min %v", c.Distance, c.MinDistance)
	}

	for i := 0; i < 1000; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance > c.MaxDistance {
		t.Errorf("distance %v above max %v", c.Distance, c.MaxDistance)
	}
}

func TestOrbitCameraFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(csg.Bounds{
		Min: math.Vec3{X: -2, Y: 0, Z: -2},
		Max: math.Vec3{X: 2, Y: 8, Z: 2},
	})

	if c.Center.Distance(math.Vec3{Y: 4}) > 1e-4 {
		t.Errorf("center = %v, want (0, 4, 0)", c.Center)
	}
	// Largest extent is 8, so the camera backs off to 16.
	if c.Distance != 16 {
		t.Errorf("distance = %v, want 16", c.Distance)
	}
}
