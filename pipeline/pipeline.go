// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pipeline builds post-processing stacks from YAML descriptions.
//
//	stages:
//	  - name: invert
//	    kind: compute
//	    compute: shaders/invert.comp
//	  - name: display
//	    kind: screen
//	    vertex: shaders/quad.vert
//	    fragment: shaders/display.frag
//	    uniforms:
//	      uGamma: 2.2
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/devblok/korufx/asset"
)

// ErrInvalidPipeline is returned for descriptions that can not be built.
var ErrInvalidPipeline = errors.New("invalid pipeline")

// Kind selects what a stage description builds.
type Kind string

// Stage kinds
const (
	Compute Kind = "compute"
	Render  Kind = "render"
	Screen  Kind = "screen"
	Stack   Kind = "stack"
)

// Description is the root of a pipeline file.
type Description struct {
	Stages []StageDescription `yaml:"stages"`
}

// StageDescription describes one stage. Compute stages name a compute
// shader, render and screen stages a vertex and a fragment shader, and
// stacks nest further stages.
type StageDescription struct {
	Name     string             `yaml:"name"`
	Kind     Kind               `yaml:"kind"`
	Compute  string             `yaml:"compute,omitempty"`
	Vertex   string             `yaml:"vertex,omitempty"`
	Fragment string             `yaml:"fragment,omitempty"`
	Uniforms map[string]float32 `yaml:"uniforms,omitempty"`
	Stages   []StageDescription `yaml:"stages,omitempty"`
}

// Decode reads a description from r. Unknown keys are errors.
func Decode(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var desc Description
	if err := dec.Decode(&desc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty description", ErrInvalidPipeline)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPipeline, err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &desc, nil
}

// Load decodes the description at name in src.
func Load(src asset.Source, name string) (*Description, error) {
	contents, err := src.ReadFile(name)
	if err != nil {
		return nil, err
	}
	desc, err := Decode(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return desc, nil
}

// Validate checks that every stage names the shaders its kind needs and
// that a screen stage, if any, is the last top level stage.
func (d *Description) Validate() error {
	if len(d.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrInvalidPipeline)
	}
	return validateStages(d.Stages, true)
}

func validateStages(stages []StageDescription, top bool) error {
	for i, s := range stages {
		last := top && i == len(stages)-1
		if err := s.validate(last); err != nil {
			return fmt.Errorf("stage %s: %w", s.label(i), err)
		}
		if s.Kind == Stack {
			if err := validateStages(s.Stages, false); err != nil {
				return fmt.Errorf("stage %s: %w", s.label(i), err)
			}
		}
	}
	return nil
}

func (s *StageDescription) label(i int) string {
	if s.Name != "" {
		return fmt.Sprintf("%q", s.Name)
	}
	return fmt.Sprintf("%d", i)
}

func (s *StageDescription) validate(last bool) error {
	var problem string
	switch s.Kind {
	case Compute:
		switch {
		case s.Compute == "":
			problem = "compute stage without a compute shader"
		case s.Vertex != "" || s.Fragment != "":
			problem = "compute stage with vertex or fragment shaders"
		}
	case Render, Screen:
		switch {
		case s.Vertex == "" || s.Fragment == "":
			problem = fmt.Sprintf("%s stage needs a vertex and a fragment shader", s.Kind)
		case s.Compute != "":
			problem = fmt.Sprintf("%s stage with a compute shader", s.Kind)
		case s.Kind == Screen && !last:
			problem = "screen stage is not the last stage"
		}
	case Stack:
		switch {
		case len(s.Stages) == 0:
			problem = "empty stack"
		case s.Compute != "" || s.Vertex != "" || s.Fragment != "":
			problem = "stack with shaders"
		case len(s.Uniforms) > 0:
			problem = "stack with uniforms"
		}
	default:
		problem = fmt.Sprintf("unknown kind %q", s.Kind)
	}
	if problem != "" {
		return fmt.Errorf("%w: %s", ErrInvalidPipeline, problem)
	}
	return nil
}

func (s *StageDescription) shaders() []string {
	if s.Kind == Compute {
		return []string{s.Compute}
	}
	return []string{s.Vertex, s.Fragment}
}

// uniformNames returns the uniform names in a fixed order.
func (s *StageDescription) uniformNames() []string {
	names := make([]string, 0, len(s.Uniforms))
	for name := range s.Uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
