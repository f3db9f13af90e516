// Package model holds meshes the demo scene renders.
package model

import (
	"unsafe"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Object represents the engine supported model
type Object interface {

	// SetPosition sets the object's current position in space.
	// Has to be thread-safe
	SetPosition(glm.Mat4)

	// Position gets the object's current position in space.
	// Has to be thread-safe
	Position() glm.Mat4

	// SetRotation sets the object's rotation matrix.
	// Has to be thread-safe
	SetRotation(glm.Mat4)

	// Rotation gets the object's rotation matrix.
	// Has to be thread-safe
	Rotation() glm.Mat4

	// Vertices returns the vertices in draw order, three per triangle
	Vertices() []Vertex
}

// Vertex is a model vertex
type Vertex struct {
	Pos    glm.Vec3
	Normal glm.Vec3
	Color  glm.Vec4
}

// Uniform defines a model-view-projection object
type Uniform struct {
	Model      glm.Mat4
	View       glm.Mat4
	Projection glm.Mat4
}

// Set uploads the matrices as uModel, uView and uProjection.
func (u Uniform) Set(program *render.ShaderProgram) {
	program.SetMat4("uModel", u.Model)
	program.SetMat4("uView", u.View)
	program.SetMat4("uProjection", u.Projection)
}

// VertexAttributes returns the component counts of the Vertex fields, in
// the order render.VertexArray.AddVertexBuffer expects them.
func VertexAttributes() []int {
	return []int{3, 3, 4}
}

// VertexBytes returns the vertices as the raw bytes of the slice.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := len(vertices) * int(unsafe.Sizeof(Vertex{}))
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size)
}

// Matrix returns the model matrix of obj, its position applied after its
// rotation.
func Matrix(obj Object) glm.Mat4 {
	return obj.Position().Mul4(obj.Rotation())
}

// Mesh is an object uploaded to the GPU.
type Mesh struct {
	vertexArray *render.VertexArray
	count       int
}

// Upload copies the vertices of obj into a new vertex buffer.
func Upload(dev device.Device, obj Object) (*Mesh, error) {
	vertices := obj.Vertices()
	buf := render.NewBufferData(dev, VertexBytes(vertices), device.StaticDraw)
	defer buf.Release()

	va := render.NewVertexArray(dev)
	if err := va.AddVertexBuffer(buf, VertexAttributes()); err != nil {
		va.Release()
		return nil, err
	}
	return &Mesh{vertexArray: va, count: len(vertices)}, nil
}

// Count returns the number of vertices drawn.
func (m *Mesh) Count() int {
	return m.count
}

// Draw draws the mesh with the current program and framebuffer.
func (m *Mesh) Draw(dev device.Device) {
	m.vertexArray.Bind()
	dev.DrawArrays(device.Triangles, 0, m.count)
}

// Release deletes the GPU objects of the mesh.
func (m *Mesh) Release() {
	m.vertexArray.Release()
}
