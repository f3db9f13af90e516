// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postprocess

import (
	"fmt"
	"unsafe"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// screenQuad is two triangles covering clip space; xy position, zw texture coordinate
var screenQuad = [6]mgl32.Vec4{
	{-1, -1, 0, 0},
	{1, -1, 1, 0},
	{1, 1, 1, 1},
	{-1, -1, 0, 0},
	{1, 1, 1, 1},
	{-1, 1, 0, 1},
}

// QuadVertices is the number of vertices DrawQuad draws.
const QuadVertices = len(screenQuad)

// Stack is an ordered pipeline of stages. Only the first stage sees the
// input of the stack; every later stage reads the output of the stage
// before it. A Stack owns the stages pushed into it.
type Stack struct {
	dev    device.Device
	width  int
	height int
	stages []Stage
	parent *Stack
	quad   *render.VertexArray
}

// NewStack creates an empty stack whose stages render at width x height.
func NewStack(dev device.Device, width, height int) (*Stack, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: stack of %dx%d", render.ErrInvalidSize, width, height)
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(&screenQuad[0])), int(unsafe.Sizeof(screenQuad)))
	buf := render.NewBufferData(dev, data, device.StaticDraw)
	va := render.NewVertexArray(dev)
	err := va.AddVertexBuffer(buf, []int{2, 2})
	// the vertex array holds the only reference from here on
	buf.Release()
	if err != nil {
		va.Release()
		return nil, err
	}

	return &Stack{
		dev:    dev,
		width:  width,
		height: height,
		quad:   va,
	}, nil
}

// Device returns the device the stack renders with.
func (s *Stack) Device() device.Device {
	return s.dev
}

// Width returns the width every stage of the stack renders at.
func (s *Stack) Width() int {
	return s.width
}

// Height returns the height every stage of the stack renders at.
func (s *Stack) Height() int {
	return s.height
}

// Stages returns the stages in execution order.
func (s *Stack) Stages() []Stage {
	return append([]Stage(nil), s.stages...)
}

// Len returns the number of stages.
func (s *Stack) Len() int {
	return len(s.stages)
}

// DrawQuad draws the full-screen quad with the current program and
// framebuffer.
func (s *Stack) DrawQuad() {
	s.quad.Bind()
	s.dev.DrawArrays(device.Triangles, 0, QuadVertices)
}

// PushStage attaches stage to the stack and appends it. When attaching
// fails the stack is left as it was. Pushing after Execute was called is
// allowed; the stage takes part in later executions.
func (s *Stack) PushStage(stage Stage) error {
	if stage == nil {
		return fmt.Errorf("postprocess: nil stage")
	}
	if sub, ok := stage.(*Stack); ok {
		for p := s; p != nil; p = p.parent {
			if p == sub {
				return ErrCycle
			}
		}
	}
	if err := stage.Attach(s); err != nil {
		return fmt.Errorf("attach stage %d: %w", len(s.stages), err)
	}
	s.stages = append(s.stages, stage)

	log.WithFields(log.Fields{
		"stage":  fmt.Sprintf("%T", stage),
		"index":  len(s.stages) - 1,
		"width":  s.width,
		"height": s.height,
	}).Debug("stage attached")
	return nil
}

// Attach implements Stage. A stack can only be nested in a stack of the
// same dimensions.
func (s *Stack) Attach(parent *Stack) error {
	if s.parent != nil {
		return ErrAlreadyAttached
	}
	if parent.width != s.width || parent.height != s.height {
		return fmt.Errorf("%w: %dx%d stack pushed into a %dx%d stack",
			ErrDimensionMismatch, s.width, s.height, parent.width, parent.height)
	}
	s.parent = parent
	return nil
}

// Execute implements Stage. It runs every stage in order and is a no-op
// for an empty stack.
func (s *Stack) Execute(state State) error {
	if len(s.stages) == 0 {
		return nil
	}
	if state.RenderTarget == nil {
		return ErrMissingInput
	}
	for i, stage := range s.stages {
		if err := stage.Execute(state); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
		state = State{RenderTarget: stage.RenderTarget()}
	}
	return nil
}

// RenderTarget implements Stage. It is the output of the last stage, or
// nil for an empty stack.
func (s *Stack) RenderTarget() *render.RenderTarget {
	if len(s.stages) == 0 {
		return nil
	}
	return s.stages[len(s.stages)-1].RenderTarget()
}

// Release implements Stage. It releases the stages, last first, and the
// quad.
func (s *Stack) Release() {
	for i := len(s.stages) - 1; i >= 0; i-- {
		s.stages[i].Release()
	}
	s.stages = nil
	if s.quad != nil {
		s.quad.Release()
		s.quad = nil
	}
}
