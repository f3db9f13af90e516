// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postprocess

import (
	"fmt"

	"github.com/devblok/korufx/render"
	"github.com/go-gl/mathgl/mgl32"
)

// RenderStage draws the stack's full-screen quad with a vertex and
// fragment program, sampling the input at texture unit 0.
type RenderStage struct {
	program  *render.ShaderProgram
	uniforms UniformFunc
	screen   bool
	stack    *Stack
	target   *render.RenderTarget
}

// NewRenderStage creates a stage around a graphics program. The stage keeps
// its own reference to program.
func NewRenderStage(program *render.ShaderProgram, opts ...Option) (*RenderStage, error) {
	if program == nil || program.IsCompute() {
		return nil, fmt.Errorf("%w: render stage needs a graphics program", ErrInvalidProgram)
	}
	o := collect(opts)
	return &RenderStage{program: program.Acquire(), uniforms: o.uniforms, screen: o.screen}, nil
}

// Program returns the program of the stage.
func (s *RenderStage) Program() *render.ShaderProgram {
	return s.program
}

// Attach implements Stage
func (s *RenderStage) Attach(stack *Stack) error {
	if s.stack != nil {
		return ErrAlreadyAttached
	}
	var target *render.RenderTarget
	if s.screen {
		target = render.ScreenTarget(stack.Device(), stack.Width(), stack.Height())
	} else {
		var err error
		if target, err = render.NewRenderTarget(stack.Device(), stack.Width(), stack.Height()); err != nil {
			return err
		}
	}
	s.stack, s.target = stack, target
	return nil
}

// Execute implements Stage
func (s *RenderStage) Execute(state State) error {
	if s.stack == nil {
		return ErrNotAttached
	}
	source, err := input(state)
	if err != nil {
		return err
	}

	dev := s.stack.Device()
	s.target.Bind()
	dev.SetDepthTest(false)
	s.program.Use()
	source.BindUnit(0)
	s.program.SetInt(Source, 0)
	s.program.SetVec2(Resolution, mgl32.Vec2{float32(s.target.Width()), float32(s.target.Height())})
	if s.uniforms != nil {
		s.uniforms(s.program)
	}
	s.stack.DrawQuad()
	return nil
}

// RenderTarget implements Stage
func (s *RenderStage) RenderTarget() *render.RenderTarget {
	return s.target
}

// Release implements Stage
func (s *RenderStage) Release() {
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
