// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/device/devicetest"
	"github.com/devblok/korufx/render"
)

func TestCreateProgram(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	p, err := render.CreateProgram(dev, devicetest.VertexSource, devicetest.FragmentSource)
	c.Assert(err, qt.IsNil)
	c.Assert(p.Stages(), qt.DeepEquals, []device.ShaderStage{device.VertexStage, device.FragmentStage})
	c.Assert(p.IsCompute(), qt.IsFalse)
	c.Assert(dev.Live(), qt.Equals, devicetest.Counts{Programs: 1})

	p.Release()
	c.Assert(dev.Live().Total(), qt.Equals, 0)
	c.Assert(dev.Errors, qt.HasLen, 0)
}

func TestCompileErrorCarriesDiagnostics(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	p, err := render.CreateProgram(dev, devicetest.VertexSource, devicetest.BrokenSource)
	c.Assert(p, qt.IsNil)

	var compileErr *render.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Stage, qt.Equals, device.FragmentStage)
	c.Assert(compileErr.Log, qt.Not(qt.Equals), "")
	c.Assert(err, qt.ErrorMatches, "shader compile error: fragment: 0:6.*")
	c.Assert(dev.Live().Total(), qt.Equals, 0)
}

func TestLinkErrorCarriesDiagnostics(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	fs, err := render.NewShaderModule(dev, device.FragmentStage, devicetest.FragmentSource)
	c.Assert(err, qt.IsNil)
	defer fs.Release()

	p, err := render.NewShaderProgram(dev, fs)
	c.Assert(p, qt.IsNil)
	var linkErr *render.LinkError
	c.Assert(errors.As(err, &linkErr), qt.IsTrue)
	c.Assert(linkErr.Log, qt.Not(qt.Equals), "")
	c.Assert(dev.Live().Programs, qt.Equals, 0)

	_, err = render.NewShaderProgram(dev)
	c.Assert(errors.As(err, &linkErr), qt.IsTrue)
}

func TestProgramUniforms(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	p, err := render.CreateProgram(dev, devicetest.VertexSource, devicetest.FragmentSource)
	c.Assert(err, qt.IsNil)
	defer p.Release()

	p.SetInt("uPostProcessingSource", 3)
	p.SetVec2("uResolution", mgl32.Vec2{640, 480})
	p.SetFloat("uStrength", 0.5)
	p.SetMat4("uMissing", mgl32.Ident4())
	c.Assert(dev.State.Program, qt.Equals, p.Handle())
	c.Assert(p.UniformLocation("uMissing"), qt.Equals, int32(-1))

	state, _ := dev.Program(p.Handle())
	v, _ := state.Uniform("uPostProcessingSource")
	c.Assert(v, qt.Equals, int32(3))
	v, _ = state.Uniform("uResolution")
	c.Assert(v, qt.Equals, [2]float32{640, 480})
	v, _ = state.Uniform("uStrength")
	c.Assert(v, qt.Equals, float32(0.5))
	c.Assert(dev.Errors, qt.HasLen, 0)
}

func TestComputeProgramDispatch(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	p, err := render.CreateComputeProgram(dev, devicetest.ComputeSource)
	c.Assert(err, qt.IsNil)
	defer p.Release()
	c.Assert(p.IsCompute(), qt.IsTrue)

	c.Assert(p.Dispatch(8, 4, 1), qt.IsNil)
	c.Assert(dev.Dispatches, qt.HasLen, 1)
	c.Assert(dev.Dispatches[0].Program, qt.Equals, p.Handle())

	graphics, err := render.CreateProgram(dev, devicetest.VertexSource, devicetest.FragmentSource)
	c.Assert(err, qt.IsNil)
	defer graphics.Release()
	c.Assert(graphics.Dispatch(1, 1, 1), qt.Not(qt.IsNil))
	c.Assert(dev.Dispatches, qt.HasLen, 1)
}

func TestProgramSharedOwnership(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	p, err := render.CreateComputeProgram(dev, devicetest.ComputeSource)
	c.Assert(err, qt.IsNil)

	shared := p.Acquire()
	p.Release()
	c.Assert(dev.Live().Programs, qt.Equals, 1)
	shared.Release()
	c.Assert(dev.Live().Programs, qt.Equals, 0)

	shared.Release()
	c.Assert(dev.Errors, qt.HasLen, 0)
	c.Assert(func() { shared.Acquire() }, qt.PanicMatches, ".*released object")
}
