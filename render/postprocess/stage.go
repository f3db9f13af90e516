// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package postprocess chains full-screen passes over offscreen render
// targets. A Stack runs its stages in order, handing each one the output of
// the previous stage, and is a Stage itself so stacks nest.
package postprocess

import (
	"errors"

	"github.com/devblok/korufx/render"
)

// Errors returned by stages and stacks
var (
	ErrDimensionMismatch = errors.New("postprocess: stack dimensions differ")
	ErrAlreadyAttached   = errors.New("postprocess: stage is already attached to a stack")
	ErrNotAttached       = errors.New("postprocess: stage is not attached to a stack")
	ErrCycle             = errors.New("postprocess: stack pushed into itself")
	ErrMissingInput      = errors.New("postprocess: no input render target")
	ErrInvalidProgram    = errors.New("postprocess: program does not fit the stage")
)

// Source is the uniform the input color texture is bound to.
const Source = "uPostProcessingSource"

// Target is the image uniform compute stages write their output to.
const Target = "uPostProcessingTarget"

// Resolution is the vec2 uniform render stages receive the output size in.
const Resolution = "uResolution"

// State is the input of a stage: the render target the previous pass
// produced. It is rebuilt for every stage and owns nothing.
type State struct {
	RenderTarget *render.RenderTarget
}

// Stage is one pass of a post-processing pipeline.
//
// Attach is called once by the stack the stage is pushed into, before any
// Execute, and is where the stage allocates its output. Execute may be
// called any number of times afterwards and allocates nothing.
// RenderTarget returns the output of the stage once attached.
type Stage interface {
	Attach(stack *Stack) error
	Execute(state State) error
	RenderTarget() *render.RenderTarget
	Release()
}

// UniformFunc sets the stage specific uniforms of a program. It is called
// with the program in use, after the standard uniforms were set.
type UniformFunc func(program *render.ShaderProgram)

type options struct {
	uniforms UniformFunc
	screen   bool
}

// Option configures a ComputeStage or RenderStage.
type Option func(*options)

// WithUniforms registers a hook run before every dispatch or draw.
func WithUniforms(fn UniformFunc) Option {
	return func(o *options) {
		o.uniforms = fn
	}
}

// WithScreenOutput makes a RenderStage draw to the window instead of an
// offscreen target. It is only valid for the last stage of a pipeline.
func WithScreenOutput() Option {
	return func(o *options) {
		o.screen = true
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// input returns the sampled color image of state.
func input(state State) (*render.Texture, error) {
	if state.RenderTarget == nil {
		return nil, ErrMissingInput
	}
	tex := state.RenderTarget.Texture(colorInput)
	if tex == nil {
		return nil, ErrMissingInput
	}
	return tex, nil
}
