package viewer

import (
	"fmt"
	"log/slog"
	gomath "math"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/carve/internal/config"
	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

// Viewer owns the window, camera and mesh renderer for one scene.
type Viewer struct {
	running  bool
	window   *Window
	renderer *MeshRenderer
	camera   *OrbitCamera

	width  int
	height int
}

// New creates a viewer window and uploads the mesh.
func New(cfg *config.Config, mesh *csg.Mesh, title string) (*Viewer, error) {
	slog.Info("initializing viewer",
		"title", title,
		"width", cfg.Graphics.Width,
		"height", cfg.Graphics.Height,
	)

	v := &Viewer{
		width:  cfg.Graphics.Width,
		height: cfg.Graphics.Height,
	}

	// Window first, the GL context must exist before any gl call.
	var err error
	v.window, err = NewWindow(WindowConfig{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	slog.Info("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	v.renderer, err = NewMeshRenderer(mesh)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Wireframe = cfg.Viewer.Wireframe

	v.camera = NewOrbitCamera()
	v.camera.DragSensitivity = cfg.Viewer.OrbitSensitivity
	v.camera.ZoomSpeed = cfg.Viewer.ZoomSpeed
	v.camera.FitToBounds(mesh.Bounds)

	return v, nil
}

// Run drives the event and render loop until the window closes. Left drag
// orbits, the wheel zooms, W toggles wireframe, ESC quits.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	slog.Info("starting viewer loop")

	for v.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			v.handleEvent(event)
		}

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			slog.Debug("fps", "count", frameCount)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		v.running = false

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN {
			return
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE, sdl.K_q:
			v.running = false
		case sdl.K_w:
			v.renderer.Wireframe = !v.renderer.Wireframe
			slog.Debug("wireframe toggled", "on", v.renderer.Wireframe)
		}

	case *sdl.MouseMotionEvent:
		if e.State&sdl.ButtonLMask() != 0 {
			v.camera.HandleDrag(float32(e.XRel), float32(e.YRel))
		}

	case *sdl.MouseWheelEvent:
		v.camera.HandleZoom(float32(e.Y))

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			v.width = int(e.Data1)
			v.height = int(e.Data2)
			gl.Viewport(0, 0, e.Data1, e.Data2)
		}
	}
}

func (v *Viewer) render() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	aspect := float32(v.width) / float32(v.height)
	projection := math.Perspective(float32(gomath.Pi/4), aspect, 0.05, 1000)

	v.renderer.Draw(v.camera.ViewMatrix(), projection)
}

// Close releases the renderer and window.
func (v *Viewer) Close() {
	slog.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Delete()
	}
	if v.window != nil {
		v.window.Close()
	}
}
