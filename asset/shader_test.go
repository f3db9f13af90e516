// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/device/devicetest"
	"github.com/devblok/korufx/render"
)

func TestShaderStage(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name  string
		stage device.ShaderStage
	}{
		{"quad.vert", device.VertexStage},
		{"shaders/blur.frag", device.FragmentStage},
		{"lines.geom.glsl", device.GeometryStage},
		{"patch.tesc", device.TessControlStage},
		{"patch.tese.glsl", device.TessEvaluationStage},
		{"dir.with.dots/invert.comp", device.ComputeStage},
	}
	for _, test := range tests {
		stage, err := asset.ShaderStage(test.name)
		c.Assert(err, qt.IsNil, qt.Commentf("%s", test.name))
		c.Assert(stage, qt.Equals, test.stage, qt.Commentf("%s", test.name))
	}

	for _, name := range []string{"shader.glsl", "quad", ".vert", "quad.vert.txt", "image.png"} {
		_, err := asset.ShaderStage(name)
		c.Assert(err, qt.ErrorIs, asset.ErrUnknownShaderStage, qt.Commentf("%s", name))
	}
}

func TestShaderFiles(t *testing.T) {
	c := qt.New(t)

	names, stages, err := asset.ShaderFiles(asset.DirSource("testdata"))
	c.Assert(err, qt.IsNil)
	c.Assert(names, qt.DeepEquals, []string{
		"shaders/broken.frag",
		"shaders/invert.comp.glsl",
		"shaders/invert.frag",
		"shaders/quad.vert",
	})
	c.Assert(stages, qt.DeepEquals, []device.ShaderStage{
		device.FragmentStage,
		device.ComputeStage,
		device.FragmentStage,
		device.VertexStage,
	})
}

func TestLoadProgram(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()
	src := asset.DirSource("testdata")

	program, err := asset.LoadProgram(dev, src, "shaders/quad.vert", "shaders/invert.frag")
	c.Assert(err, qt.IsNil)
	c.Assert(program.IsCompute(), qt.IsFalse)
	c.Assert(program.UniformLocation("uPostProcessingSource") >= 0, qt.IsTrue)
	program.Release()

	program, err = asset.LoadProgram(dev, src, "shaders/invert.comp.glsl")
	c.Assert(err, qt.IsNil)
	c.Assert(program.IsCompute(), qt.IsTrue)
	program.Release()

	c.Assert(dev.Live().Total(), qt.Equals, 0)
}

func TestLoadProgramErrors(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()
	src := asset.DirSource("testdata")

	_, err := asset.LoadProgram(dev, src, "shaders/quad.vert", "shaders/broken.frag")
	c.Assert(err, qt.ErrorMatches, `shaders/broken.frag: shader compile error: fragment: 0:6\(1\): error: syntax error, unexpected end of file`)
	var compileErr *render.CompileError
	c.Assert(errors.As(err, &compileErr), qt.IsTrue)
	c.Assert(compileErr.Stage, qt.Equals, device.FragmentStage)

	_, err = asset.LoadProgram(dev, src, "shaders/invert.frag")
	var linkErr *render.LinkError
	c.Assert(errors.As(err, &linkErr), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `shaders/invert.frag: shader link error: .*`)

	_, err = asset.LoadProgram(dev, src, "shaders/missing.vert")
	c.Assert(err, qt.ErrorIs, asset.ErrNotFound)

	_, err = asset.LoadProgram(dev, src, "shaders/README")
	c.Assert(err, qt.ErrorIs, asset.ErrUnknownShaderStage)

	c.Assert(dev.Live().Total(), qt.Equals, 0)
}
