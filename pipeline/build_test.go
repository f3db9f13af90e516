// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline_test

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/device/devicetest"
	"github.com/devblok/korufx/pipeline"
	"github.com/devblok/korufx/render"
	"github.com/devblok/korufx/render/postprocess"
)

var testSource = asset.MapSource{
	"shaders/quad.vert":   []byte(devicetest.VertexSource),
	"shaders/scale.frag":  []byte(devicetest.FragmentSource),
	"shaders/invert.comp": []byte(devicetest.ComputeSource),
	"shaders/broken.frag": []byte(devicetest.BrokenSource),
}

func decode(c *qt.C, yaml string) *pipeline.Description {
	desc, err := pipeline.Decode(strings.NewReader(yaml))
	c.Assert(err, qt.IsNil)
	return desc
}

func TestBuild(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	var frames int
	stack, err := pipeline.Build(dev, testSource, decode(c, testPipeline), 64, 32,
		pipeline.WithStageUniforms("display", func(p *render.ShaderProgram) {
			frames++
			p.SetFloat("uStrength", 0.5)
		}))
	c.Assert(err, qt.IsNil)

	stages := stack.Stages()
	c.Assert(stages, qt.HasLen, 3)
	compute, ok := stages[0].(*postprocess.ComputeStage)
	c.Assert(ok, qt.IsTrue)
	glow, ok := stages[1].(*postprocess.Stack)
	c.Assert(ok, qt.IsTrue)
	c.Assert(glow.Len(), qt.Equals, 2)
	display, ok := stages[2].(*postprocess.RenderStage)
	c.Assert(ok, qt.IsTrue)
	c.Assert(display.RenderTarget().IsScreen(), qt.IsTrue)

	// the two compute stages and the render stages share their programs
	c.Assert(dev.Live().Programs, qt.Equals, 2)
	again := glow.Stages()[1].(*postprocess.ComputeStage)
	c.Assert(again.Program(), qt.Equals, compute.Program())

	scene, err := render.NewRenderTarget(dev, 64, 32)
	c.Assert(err, qt.IsNil)
	defer scene.Release()

	c.Assert(stack.Execute(postprocess.State{RenderTarget: scene}), qt.IsNil)
	c.Assert(dev.Errors, qt.HasLen, 0)
	c.Assert(dev.Dispatches, qt.HasLen, 2)
	c.Assert(dev.Draws, qt.HasLen, 2)
	c.Assert(dev.Draws[1].Framebuffer, qt.Equals, device.Framebuffer(0))
	c.Assert(frames, qt.Equals, 1)

	state, ok := dev.Program(display.Program().Handle())
	c.Assert(ok, qt.IsTrue)
	strength, ok := state.Uniform("uStrength")
	c.Assert(ok, qt.IsTrue)
	c.Assert(strength, qt.Equals, float32(0.5))

	stack.Release()
	c.Assert(dev.Live().Programs, qt.Equals, 0)
	// only the scene target is left
	c.Assert(dev.Live().Total(), qt.Equals, 3)
}

func TestBuildErrors(t *testing.T) {
	c := qt.New(t)
	dev := devicetest.New()

	tests := []struct {
		about  string
		yaml   string
		expect string
	}{{
		about:  "compile error",
		yaml:   "stages:\n  - kind: compute\n    compute: shaders/invert.comp\n  - name: x\n    kind: render\n    vertex: shaders/quad.vert\n    fragment: shaders/broken.frag\n",
		expect: `stage "x": shaders/broken.frag: shader compile error: .*`,
	}, {
		about:  "missing shader",
		yaml:   "stages:\n  - kind: stack\n    stages:\n      - kind: compute\n        compute: shaders/missing.comp\n",
		expect: `stage 0: stage 0: asset not found: shaders/missing.comp`,
	}, {
		about:  "vertex shader as compute shader",
		yaml:   "stages:\n  - kind: compute\n    compute: shaders/quad.vert\n",
		expect: `stage 0: postprocess: program does not fit the stage: .*`,
	}, {
		about:  "compute shader in a render stage",
		yaml:   "stages:\n  - kind: render\n    vertex: shaders/invert.comp\n    fragment: shaders/scale.frag\n",
		expect: `stage 0: shaders/invert.comp, shaders/scale.frag: shader link error: .*`,
	}}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			_, err := pipeline.Build(dev, testSource, decode(c, test.yaml), 16, 16)
			c.Assert(err, qt.ErrorMatches, test.expect)
			c.Assert(dev.Live().Total(), qt.Equals, 0)
		})
	}

	_, err := pipeline.Build(dev, testSource, decode(c, testPipeline), 0, 16)
	c.Assert(err, qt.ErrorIs, render.ErrInvalidSize)
	c.Assert(dev.Live().Total(), qt.Equals, 0)

	_, err = pipeline.Build(dev, testSource, &pipeline.Description{}, 16, 16)
	c.Assert(err, qt.ErrorIs, pipeline.ErrInvalidPipeline)
}
