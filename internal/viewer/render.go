package viewer

import (
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/carve/internal/csg"
	"github.com/Faultbox/carve/pkg/math"
)

const meshVertexShader = `#version 410 core
layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;

uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vNormal;

void main() {
    vNormal = aNormal;
    gl_Position = uProjection * uView * vec4(aPosition, 1.0);
}
`

const meshFragmentShader = `#version 410 core
in vec3 vNormal;

uniform vec3 uLightDir;
uniform vec3 uColor;

out vec4 fragColor;

void main() {
    float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
    vec3 lit = uColor * (0.25 + 0.75 * diffuse);
    fragColor = vec4(lit, 1.0);
}
`

// MeshRenderer draws one triangulated solid with flat directional lighting.
type MeshRenderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	locView       int32
	locProjection int32
	locLightDir   int32
	locColor      int32

	indexCount int32
	Wireframe  bool
}

// NewMeshRenderer uploads the mesh into GPU buffers. Positions and normals
// are interleaved; the index buffer matches the mesh triangle list.
func NewMeshRenderer(mesh *csg.Mesh) (*MeshRenderer, error) {
	program, err := compileProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, err
	}

	r := &MeshRenderer{
		program:       program,
		locView:       uniform(program, "uView"),
		locProjection: uniform(program, "uProjection"),
		locLightDir:   uniform(program, "uLightDir"),
		locColor:      uniform(program, "uColor"),
		indexCount:    int32(len(mesh.Indices)),
	}

	data := make([]float32, 0, len(mesh.Vertices)*6)
	for _, v := range mesh.Vertices {
		data = append(data,
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
		)
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	if len(mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	gl.BindVertexArray(0)

	slog.Info("mesh uploaded",
		"vertices", len(mesh.Vertices),
		"triangles", len(mesh.Indices)/3,
	)

	return r, nil
}

// Draw renders the mesh with the given view and projection matrices.
func (r *MeshRenderer) Draw(view, projection math.Mat4) {
	if r.indexCount == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locView, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.locProjection, 1, false, projection.Ptr())
	gl.Uniform3f(r.locLightDir, -0.45, -0.7, -0.55)
	gl.Uniform3f(r.locColor, 0.75, 0.78, 0.82)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// Delete releases the GPU resources.
func (r *MeshRenderer) Delete() {
	gl.DeleteBuffers(1, &r.ebo)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}
