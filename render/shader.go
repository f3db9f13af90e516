// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"errors"

	"github.com/devblok/korufx/device"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// ShaderModule is one compiled shader stage.
type ShaderModule struct {
	dev    device.Device
	handle device.Shader
	stage  device.ShaderStage
}

// NewShaderModule compiles source for stage. A compilation failure
// returns a *CompileError holding the driver diagnostics.
func NewShaderModule(dev device.Device, stage device.ShaderStage, source string) (*ShaderModule, error) {
	handle := dev.CreateShader(stage)
	dev.ShaderSource(handle, source)
	dev.CompileShader(handle)
	if !dev.ShaderCompiled(handle) {
		info := dev.ShaderInfoLog(handle)
		dev.DeleteShader(handle)
		return nil, &CompileError{Stage: stage, Log: diagnostics(info)}
	}

	log.WithFields(log.Fields{
		"shader": handle,
		"stage":  stage,
	}).Debug("shader compiled")
	return &ShaderModule{dev: dev, handle: handle, stage: stage}, nil
}

// Handle returns the device handle of the module.
func (m *ShaderModule) Handle() device.Shader {
	return m.handle
}

// Stage returns the stage the module was compiled for.
func (m *ShaderModule) Stage() device.ShaderStage {
	return m.stage
}

// Release deletes the shader object.
func (m *ShaderModule) Release() {
	if m.handle == 0 {
		return
	}
	m.dev.DeleteShader(m.handle)
	m.handle = 0
}

// ShaderSource is the source text of one stage.
type ShaderSource struct {
	Stage  device.ShaderStage
	Source string
}

// ShaderProgram is a shared, linked shader program.
type ShaderProgram struct {
	dev      device.Device
	handle   device.Program
	stages   []device.ShaderStage
	uniforms map[string]int32
	refs     refs
}

// NewShaderProgram links modules into a program. The modules stay owned by
// the caller and may be released once the program exists. A link failure
// returns a *LinkError holding the driver diagnostics.
func NewShaderProgram(dev device.Device, modules ...*ShaderModule) (*ShaderProgram, error) {
	if len(modules) == 0 {
		return nil, &LinkError{Log: "no shader modules"}
	}

	handle := dev.CreateProgram()
	stages := make([]device.ShaderStage, 0, len(modules))
	for _, m := range modules {
		dev.AttachShader(handle, m.Handle())
		stages = append(stages, m.Stage())
	}
	dev.LinkProgram(handle)
	if !dev.ProgramLinked(handle) {
		info := dev.ProgramInfoLog(handle)
		dev.DeleteProgram(handle)
		return nil, &LinkError{Log: diagnostics(info)}
	}

	log.WithFields(log.Fields{
		"program": handle,
		"stages":  stages,
	}).Debug("program linked")
	return &ShaderProgram{
		dev:      dev,
		handle:   handle,
		stages:   stages,
		uniforms: make(map[string]int32),
		refs:     1,
	}, nil
}

// CreateProgram compiles and links a vertex and fragment shader pair.
func CreateProgram(dev device.Device, vertex, fragment string) (*ShaderProgram, error) {
	return CreateProgramFromSources(dev, []ShaderSource{
		{Stage: device.VertexStage, Source: vertex},
		{Stage: device.FragmentStage, Source: fragment},
	})
}

// CreateComputeProgram compiles and links a compute shader.
func CreateComputeProgram(dev device.Device, compute string) (*ShaderProgram, error) {
	return CreateProgramFromSources(dev, []ShaderSource{
		{Stage: device.ComputeStage, Source: compute},
	})
}

// CreateProgramFromSources compiles every source and links the results.
// The intermediate modules are released before returning.
func CreateProgramFromSources(dev device.Device, sources []ShaderSource) (*ShaderProgram, error) {
	modules := make([]*ShaderModule, 0, len(sources))
	defer func() {
		for _, m := range modules {
			m.Release()
		}
	}()

	for _, src := range sources {
		m, err := NewShaderModule(dev, src.Stage, src.Source)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return NewShaderProgram(dev, modules...)
}

// Handle returns the device handle of the program.
func (p *ShaderProgram) Handle() device.Program {
	return p.handle
}

// Stages returns the stages linked into the program.
func (p *ShaderProgram) Stages() []device.ShaderStage {
	return append([]device.ShaderStage(nil), p.stages...)
}

// IsCompute reports whether the program is a compute program.
func (p *ShaderProgram) IsCompute() bool {
	for _, s := range p.stages {
		if s == device.ComputeStage {
			return true
		}
	}
	return false
}

// Use makes the program current.
func (p *ShaderProgram) Use() {
	p.dev.UseProgram(p.handle)
}

// UniformLocation returns the location of the named uniform, or -1 when the
// program has no active uniform of that name.
func (p *ShaderProgram) UniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.handle, name)
	p.uniforms[name] = loc
	return loc
}

// SetInt makes the program current and sets an int or sampler uniform.
func (p *ShaderProgram) SetInt(name string, v int32) {
	p.Use()
	p.dev.Uniform1i(p.UniformLocation(name), v)
}

// SetFloat makes the program current and sets a float uniform.
func (p *ShaderProgram) SetFloat(name string, v float32) {
	p.Use()
	p.dev.Uniform1f(p.UniformLocation(name), v)
}

// SetVec2 makes the program current and sets a vec2 uniform.
func (p *ShaderProgram) SetVec2(name string, v mgl32.Vec2) {
	p.Use()
	p.dev.Uniform2f(p.UniformLocation(name), v.X(), v.Y())
}

// SetVec3 makes the program current and sets a vec3 uniform.
func (p *ShaderProgram) SetVec3(name string, v mgl32.Vec3) {
	p.Use()
	p.dev.Uniform3f(p.UniformLocation(name), v.X(), v.Y(), v.Z())
}

// SetMat4 makes the program current and sets a mat4 uniform.
func (p *ShaderProgram) SetMat4(name string, m mgl32.Mat4) {
	p.Use()
	p.dev.UniformMatrix4f(p.UniformLocation(name), m)
}

var errNotCompute = errors.New("render: dispatch of a program without a compute stage")

// Dispatch makes the program current and launches x*y*z work groups.
func (p *ShaderProgram) Dispatch(x, y, z uint32) error {
	if !p.IsCompute() {
		return errNotCompute
	}
	p.Use()
	p.dev.DispatchCompute(x, y, z)
	return nil
}

// Acquire adds a reference to the program and returns it.
func (p *ShaderProgram) Acquire() *ShaderProgram {
	p.refs.acquire()
	return p
}

// Release drops a reference, deleting the program with the last one.
func (p *ShaderProgram) Release() {
	if p.refs.release() {
		p.dev.DeleteProgram(p.handle)
		log.WithField("program", p.handle).Debug("program deleted")
	}
}
