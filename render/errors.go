// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"errors"
	"fmt"

	"github.com/devblok/korufx/device"
)

// Configuration errors returned by the resource constructors
var (
	ErrInvalidPixelData      = errors.New("render: invalid pixel data")
	ErrInvalidAttachment     = errors.New("render: invalid attachment")
	ErrInvalidSize           = errors.New("render: invalid size")
	ErrIncompleteFramebuffer = errors.New("render: incomplete framebuffer")
)

const noDiagnostics = "(driver returned no diagnostics)"

// CompileError is returned when a shader module fails to compile.
type CompileError struct {
	Stage device.ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader compile error: %s: %s", e.Stage, e.Log)
}

// LinkError is returned when a shader program fails to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader link error: " + e.Log
}

func diagnostics(text string) string {
	if text == "" {
		return noDiagnostics
	}
	return text
}
