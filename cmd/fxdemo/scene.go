package main

import (
	"fmt"

	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/model"
	"github.com/devblok/korufx/render"
)

var (
	sceneShaders    = []string{"shaders/scene.vert", "shaders/scene.frag"}
	backgroundColor = glm.Vec4{0.1, 0.1, 0.15, 1.0}
	lightDirection  = glm.Vec3{0.4, 0.7, 1.0}
)

// Scene renders a rotating model into an offscreen target that feeds the
// post-processing stack.
type Scene struct {
	dev     device.Device
	object  model.Object
	mesh    *model.Mesh
	program *render.ShaderProgram
	target  *render.RenderTarget
	uniform model.Uniform
}

// NewScene loads the model called name from src.
func NewScene(dev device.Device, src asset.Source, name string, width, height int) (*Scene, error) {
	contents, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	object, err := model.ImportColladaObject(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	program, err := asset.LoadProgram(dev, src, sceneShaders...)
	if err != nil {
		return nil, err
	}
	mesh, err := model.Upload(dev, object)
	if err != nil {
		program.Release()
		return nil, err
	}
	target, err := render.NewRenderTarget(dev, width, height)
	if err != nil {
		mesh.Release()
		program.Release()
		return nil, err
	}

	aspect := float32(width) / float32(height)
	return &Scene{
		dev:     dev,
		object:  object,
		mesh:    mesh,
		program: program,
		target:  target,
		uniform: model.Uniform{
			View:       glm.LookAtV(glm.Vec3{4, 3, 3}, glm.Vec3{0, 0, 0}, glm.Vec3{0, 0, 1}),
			Projection: glm.Perspective(glm.DegToRad(45.0), aspect, 0.1, 100.0),
		},
	}, nil
}

// RenderTarget returns the target the scene is drawn into.
func (s *Scene) RenderTarget() *render.RenderTarget {
	return s.target
}

// Draw renders the scene with the model rotated by elapsed seconds.
func (s *Scene) Draw(elapsed float32) {
	s.object.SetRotation(glm.HomogRotate3DZ(elapsed * 0.8))

	s.target.Clear(backgroundColor)
	s.dev.SetDepthTest(true)

	s.uniform.Model = model.Matrix(s.object)
	s.program.Use()
	s.uniform.Set(s.program)
	s.program.SetVec3("uLight", lightDirection)
	s.mesh.Draw(s.dev)
}

// Release deletes the GPU objects of the scene.
func (s *Scene) Release() {
	s.target.Release()
	s.mesh.Release()
	s.program.Release()
}
