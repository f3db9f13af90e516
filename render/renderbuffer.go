// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"fmt"

	"github.com/devblok/korufx/device"
)

// RenderBuffer is an image that can be rendered to but not sampled.
type RenderBuffer struct {
	dev    device.Device
	handle device.Renderbuffer
	width  int
	height int
	format device.Format
}

// NewRenderBuffer creates a renderbuffer with storage of the given format.
func NewRenderBuffer(dev device.Device, width, height int, format device.Format) (*RenderBuffer, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: format %v", ErrInvalidAttachment, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: renderbuffer of %dx%d", ErrInvalidSize, width, height)
	}
	handle := dev.CreateRenderbuffer()
	dev.RenderbufferStorage(handle, format, width, height)
	return &RenderBuffer{dev: dev, handle: handle, width: width, height: height, format: format}, nil
}

// Handle returns the device handle of the renderbuffer.
func (r *RenderBuffer) Handle() device.Renderbuffer {
	return r.handle
}

// Width implements Image
func (r *RenderBuffer) Width() int {
	return r.width
}

// Height implements Image
func (r *RenderBuffer) Height() int {
	return r.height
}

// Format implements Image
func (r *RenderBuffer) Format() device.Format {
	return r.format
}

func (r *RenderBuffer) attachTo(dev device.Device, fb device.Framebuffer, point device.Attachment) {
	dev.FramebufferRenderbuffer(fb, point, r.handle)
}

// Release deletes the renderbuffer.
func (r *RenderBuffer) Release() {
	if r.handle == 0 {
		return
	}
	r.dev.DeleteRenderbuffer(r.handle)
	r.handle = 0
}
