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
	"github.com/devblok/korufx/pipeline"
)

const testPipeline = `
stages:
  - name: invert
    kind: compute
    compute: shaders/invert.comp
  - name: glow
    kind: stack
    stages:
      - name: brighten
        kind: render
        vertex: shaders/quad.vert
        fragment: shaders/scale.frag
        uniforms:
          uStrength: 1.5
      - name: again
        kind: compute
        compute: shaders/invert.comp
  - name: display
    kind: screen
    vertex: shaders/quad.vert
    fragment: shaders/scale.frag
    uniforms:
      uStrength: 1
`

func TestDecode(t *testing.T) {
	c := qt.New(t)

	desc, err := pipeline.Decode(strings.NewReader(testPipeline))
	c.Assert(err, qt.IsNil)
	c.Assert(desc.Stages, qt.HasLen, 3)
	c.Assert(desc.Stages[0], qt.DeepEquals, pipeline.StageDescription{
		Name:    "invert",
		Kind:    pipeline.Compute,
		Compute: "shaders/invert.comp",
	})
	c.Assert(desc.Stages[1].Kind, qt.Equals, pipeline.Stack)
	c.Assert(desc.Stages[1].Stages, qt.HasLen, 2)
	c.Assert(desc.Stages[1].Stages[0].Uniforms, qt.DeepEquals, map[string]float32{"uStrength": 1.5})
	c.Assert(desc.Stages[2].Kind, qt.Equals, pipeline.Screen)
}

func TestDecodeInvalid(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		about  string
		yaml   string
		expect string
	}{{
		about:  "empty document",
		yaml:   "",
		expect: "invalid pipeline: empty description",
	}, {
		about:  "no stages",
		yaml:   "stages: []",
		expect: "invalid pipeline: no stages",
	}, {
		about:  "unknown key",
		yaml:   "stages:\n  - kind: compute\n    compute: a.comp\n    shader: b.comp\n",
		expect: "(?s)invalid pipeline: yaml: .*field shader not found.*",
	}, {
		about:  "unknown kind",
		yaml:   "stages:\n  - name: x\n    kind: blur\n",
		expect: `stage "x": invalid pipeline: unknown kind "blur"`,
	}, {
		about:  "compute without shader",
		yaml:   "stages:\n  - kind: compute\n",
		expect: "stage 0: invalid pipeline: compute stage without a compute shader",
	}, {
		about:  "compute with fragment shader",
		yaml:   "stages:\n  - kind: compute\n    compute: a.comp\n    fragment: a.frag\n",
		expect: "stage 0: invalid pipeline: compute stage with vertex or fragment shaders",
	}, {
		about:  "render without fragment shader",
		yaml:   "stages:\n  - kind: render\n    vertex: a.vert\n",
		expect: "stage 0: invalid pipeline: render stage needs a vertex and a fragment shader",
	}, {
		about:  "screen not last",
		yaml:   "stages:\n  - kind: screen\n    vertex: a.vert\n    fragment: a.frag\n  - kind: compute\n    compute: a.comp\n",
		expect: "stage 0: invalid pipeline: screen stage is not the last stage",
	}, {
		about:  "screen in a stack",
		yaml:   "stages:\n  - name: s\n    kind: stack\n    stages:\n      - kind: screen\n        vertex: a.vert\n        fragment: a.frag\n",
		expect: `stage "s": stage 0: invalid pipeline: screen stage is not the last stage`,
	}, {
		about:  "empty stack",
		yaml:   "stages:\n  - kind: stack\n",
		expect: "stage 0: invalid pipeline: empty stack",
	}}
	for _, test := range tests {
		c.Run(test.about, func(c *qt.C) {
			_, err := pipeline.Decode(strings.NewReader(test.yaml))
			c.Assert(err, qt.ErrorMatches, test.expect)
			c.Assert(err, qt.ErrorIs, pipeline.ErrInvalidPipeline)
		})
	}
}

func TestLoad(t *testing.T) {
	c := qt.New(t)
	src := asset.MapSource{"pipeline.yaml": []byte(testPipeline), "bad.yaml": []byte("stages: 3")}

	desc, err := pipeline.Load(src, "pipeline.yaml")
	c.Assert(err, qt.IsNil)
	c.Assert(desc.Stages, qt.HasLen, 3)

	_, err = pipeline.Load(src, "bad.yaml")
	c.Assert(err, qt.ErrorMatches, "(?s)bad.yaml: invalid pipeline: .*")

	_, err = pipeline.Load(src, "missing.yaml")
	c.Assert(err, qt.ErrorIs, asset.ErrNotFound)
}
