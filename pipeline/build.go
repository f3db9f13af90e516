// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/korufx/asset"
	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
	"github.com/devblok/korufx/render/postprocess"
)

// Option configures Build.
type Option func(*builder)

// WithStageUniforms adds fn to the uniform hook of the stages called name.
// It runs after the uniforms of the description are set.
func WithStageUniforms(name string, fn postprocess.UniformFunc) Option {
	return func(b *builder) {
		b.hooks[name] = append(b.hooks[name], fn)
	}
}

type builder struct {
	dev      device.Device
	src      asset.Source
	width    int
	height   int
	programs map[string]*render.ShaderProgram
	hooks    map[string][]postprocess.UniformFunc
}

// Build creates a stack of the given dimensions from desc, loading the
// shaders from src. Stages with the same shaders share one program.
func Build(dev device.Device, src asset.Source, desc *Description, width, height int, opts ...Option) (*postprocess.Stack, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	b := &builder{
		dev:      dev,
		src:      src,
		width:    width,
		height:   height,
		programs: make(map[string]*render.ShaderProgram),
		hooks:    make(map[string][]postprocess.UniformFunc),
	}
	for _, opt := range opts {
		opt(b)
	}
	// stages hold their own references
	defer func() {
		for _, p := range b.programs {
			p.Release()
		}
	}()

	stack, err := b.stack(desc.Stages)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"stages":   stack.Len(),
		"programs": len(b.programs),
		"width":    width,
		"height":   height,
	}).Debug("pipeline built")
	return stack, nil
}

func (b *builder) stack(stages []StageDescription) (*postprocess.Stack, error) {
	stack, err := postprocess.NewStack(b.dev, b.width, b.height)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		s := &stages[i]
		stage, err := b.stage(s)
		if err != nil {
			stack.Release()
			return nil, fmt.Errorf("stage %s: %w", s.label(i), err)
		}
		if err := stack.PushStage(stage); err != nil {
			stage.Release()
			stack.Release()
			return nil, fmt.Errorf("stage %s: %w", s.label(i), err)
		}
	}
	return stack, nil
}

func (b *builder) stage(s *StageDescription) (postprocess.Stage, error) {
	if s.Kind == Stack {
		return b.stack(s.Stages)
	}
	program, err := b.program(s.shaders())
	if err != nil {
		return nil, err
	}
	opts := []postprocess.Option{postprocess.WithUniforms(b.uniforms(s))}
	switch s.Kind {
	case Compute:
		return postprocess.NewComputeStage(program, opts...)
	case Screen:
		opts = append(opts, postprocess.WithScreenOutput())
	}
	return postprocess.NewRenderStage(program, opts...)
}

func (b *builder) program(paths []string) (*render.ShaderProgram, error) {
	key := strings.Join(paths, "\x00")
	if p, ok := b.programs[key]; ok {
		return p, nil
	}
	p, err := asset.LoadProgram(b.dev, b.src, paths...)
	if err != nil {
		return nil, err
	}
	b.programs[key] = p
	return p, nil
}

func (b *builder) uniforms(s *StageDescription) postprocess.UniformFunc {
	names := s.uniformNames()
	values := make([]float32, len(names))
	for i, name := range names {
		values[i] = s.Uniforms[name]
	}
	hooks := b.hooks[s.Name]
	return func(program *render.ShaderProgram) {
		for i, name := range names {
			program.SetFloat(name, values[i])
		}
		for _, fn := range hooks {
			fn(program)
		}
	}
}
