// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package render wraps GPU objects of a device.Device in owning Go values.
//
// Buffer, Texture and ShaderProgram may be shared between several owners and
// are reference counted: every owner that keeps one calls Acquire, and
// Release deletes the GPU object once the last reference is dropped. The
// remaining wrappers have a single owner and are deleted by their first
// Release. All of them must be used from the goroutine that owns the GPU
// context.
package render

import (
	"github.com/devblok/korufx/device"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearBackground clears the color, depth and stencil buffers of the bound
// framebuffer with the current clear color.
func ClearBackground(dev device.Device) {
	dev.Clear(device.ColorBufferBit | device.DepthBufferBit | device.StencilBufferBit)
}

// ClearBackgroundColor sets the clear color and clears the bound framebuffer.
func ClearBackgroundColor(dev device.Device, color mgl32.Vec4) {
	dev.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	ClearBackground(dev)
}

// ClearBackgroundRGB is ClearBackgroundColor with an opaque color.
func ClearBackgroundRGB(dev device.Device, color mgl32.Vec3) {
	ClearBackgroundColor(dev, color.Vec4(1))
}

// refs is a reference count for shared GPU objects.
type refs int32

func (r *refs) acquire() {
	if *r <= 0 {
		panic("render: Acquire on a released object")
	}
	*r++
}

// release drops one reference and reports whether it was the last.
func (r *refs) release() bool {
	if *r <= 0 {
		return false
	}
	*r--
	return *r == 0
}
