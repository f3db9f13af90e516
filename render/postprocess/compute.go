// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postprocess

import (
	"fmt"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
)

const colorInput = device.Color0

// ComputeStage runs a compute program once per output pixel. The program
// samples the input at texture unit 0 and writes its result through image
// unit 0, so the output framebuffer itself is never bound.
type ComputeStage struct {
	program  *render.ShaderProgram
	uniforms UniformFunc
	stack    *Stack
	target   *render.RenderTarget
}

// NewComputeStage creates a stage around a compute program. The stage keeps
// its own reference to program.
func NewComputeStage(program *render.ShaderProgram, opts ...Option) (*ComputeStage, error) {
	o := collect(opts)
	if program == nil || !program.IsCompute() {
		return nil, fmt.Errorf("%w: compute stage needs a compute program", ErrInvalidProgram)
	}
	if o.screen {
		return nil, fmt.Errorf("%w: compute stages cannot write to the screen", ErrInvalidProgram)
	}
	return &ComputeStage{program: program.Acquire(), uniforms: o.uniforms}, nil
}

// Program returns the program of the stage.
func (s *ComputeStage) Program() *render.ShaderProgram {
	return s.program
}

// Attach implements Stage
func (s *ComputeStage) Attach(stack *Stack) error {
	if s.stack != nil {
		return ErrAlreadyAttached
	}
	target, err := render.NewRenderTarget(stack.Device(), stack.Width(), stack.Height())
	if err != nil {
		return err
	}
	s.stack, s.target = stack, target
	return nil
}

// Execute implements Stage
func (s *ComputeStage) Execute(state State) error {
	if s.stack == nil {
		return ErrNotAttached
	}
	source, err := input(state)
	if err != nil {
		return err
	}

	s.program.Use()
	source.BindUnit(0)
	s.program.SetInt(Source, 0)
	s.target.Texture(colorInput).BindImage(0, device.WriteOnly)
	s.program.SetInt(Target, 0)
	if s.uniforms != nil {
		s.uniforms(s.program)
	}
	if err := s.program.Dispatch(uint32(s.stack.Width()), uint32(s.stack.Height()), 1); err != nil {
		return err
	}
	s.stack.Device().MemoryBarrier(device.ShaderImageAccessBarrier | device.TextureFetchBarrier | device.FramebufferBarrier)
	return nil
}

// RenderTarget implements Stage
func (s *ComputeStage) RenderTarget() *render.RenderTarget {
	return s.target
}

// Release implements Stage
func (s *ComputeStage) Release() {
	if s.target != nil {
		s.target.Release()
		s.target = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
