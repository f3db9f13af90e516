// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package asset

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/devblok/korufx/device"
	"github.com/devblok/korufx/render"
)

// ErrUnknownShaderStage is returned for file names that do not end in a
// known shader stage extension.
var ErrUnknownShaderStage = errors.New("unknown shader stage")

const shaderSuffix = ".glsl"

var shaderStages = map[string]device.ShaderStage{
	"vert": device.VertexStage,
	"frag": device.FragmentStage,
	"geom": device.GeometryStage,
	"tesc": device.TessControlStage,
	"tese": device.TessEvaluationStage,
	"comp": device.ComputeStage,
}

// ShaderStage derives the stage of a shader file from its name, which is
// either name.stage or name.stage.glsl, stage being one of vert, frag,
// geom, tesc, tese or comp.
func ShaderStage(name string) (device.ShaderStage, error) {
	base := strings.TrimSuffix(path.Base(name), shaderSuffix)
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShaderStage, name)
	}
	stage, ok := shaderStages[strings.TrimPrefix(ext, ".")]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownShaderStage, name)
	}
	return stage, nil
}

// ShaderFiles lists the files of src that are shaders together with
// their stages. Other files are skipped.
func ShaderFiles(src Source) ([]string, []device.ShaderStage, error) {
	names, err := src.List()
	if err != nil {
		return nil, nil, err
	}
	var (
		shaders []string
		stages  []device.ShaderStage
	)
	for _, name := range names {
		stage, err := ShaderStage(name)
		if err != nil {
			continue
		}
		shaders = append(shaders, name)
		stages = append(stages, stage)
	}
	return shaders, stages, nil
}

// LoadShaderSources reads the shader files at paths.
func LoadShaderSources(src Source, paths ...string) ([]render.ShaderSource, error) {
	sources := make([]render.ShaderSource, 0, len(paths))
	for _, p := range paths {
		stage, err := ShaderStage(p)
		if err != nil {
			return nil, err
		}
		contents, err := src.ReadFile(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, render.ShaderSource{Stage: stage, Source: string(contents)})
	}
	return sources, nil
}

// LoadProgram compiles and links the shader files at paths into one
// program. Compile errors name the file they come from.
func LoadProgram(dev device.Device, src Source, paths ...string) (*render.ShaderProgram, error) {
	sources, err := LoadShaderSources(src, paths...)
	if err != nil {
		return nil, err
	}
	modules := make([]*render.ShaderModule, 0, len(sources))
	defer func() {
		for _, m := range modules {
			m.Release()
		}
	}()
	for i, s := range sources {
		m, err := render.NewShaderModule(dev, s.Stage, s.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", paths[i], err)
		}
		modules = append(modules, m)
	}
	program, err := render.NewShaderProgram(dev, modules...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(paths, ", "), err)
	}
	return program, nil
}
