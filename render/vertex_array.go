// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"fmt"

	"github.com/devblok/korufx/device"
)

const floatSize = 4

// VertexArray describes how vertex buffers feed the vertex shader. Every
// buffer added gets its own binding, and its attributes take the next
// consecutive attribute indices.
type VertexArray struct {
	dev           device.Device
	handle        device.VertexArray
	nextBinding   uint32
	nextAttribute uint32
	buffers       []*Buffer
	elements      *Buffer
}

// NewVertexArray creates an empty vertex array.
func NewVertexArray(dev device.Device) *VertexArray {
	return &VertexArray{dev: dev, handle: dev.CreateVertexArray()}
}

// Handle returns the device handle of the vertex array.
func (a *VertexArray) Handle() device.VertexArray {
	return a.handle
}

// Attributes returns the number of attributes added so far.
func (a *VertexArray) Attributes() int {
	return int(a.nextAttribute)
}

// Bind makes the vertex array current.
func (a *VertexArray) Bind() {
	a.dev.BindVertexArray(a.handle)
}

// AddVertexBuffer adds buf as interleaved float vertices. Each entry of
// attributes is the component count of one attribute, in order.
// The vertex array keeps a reference to buf until it is released.
func (a *VertexArray) AddVertexBuffer(buf *Buffer, attributes []int) error {
	if len(attributes) == 0 {
		return fmt.Errorf("render: vertex buffer %d has no attributes", buf.Handle())
	}
	for _, size := range attributes {
		if size < 1 || size > 4 {
			return fmt.Errorf("render: attribute of %d components", size)
		}
	}

	var stride int
	for _, size := range attributes {
		a.dev.VertexArrayAttribBinding(a.handle, a.nextAttribute, a.nextBinding)
		a.dev.VertexArrayAttribFormat(a.handle, a.nextAttribute, size, device.Float, false, uint32(stride))
		a.dev.EnableVertexArrayAttrib(a.handle, a.nextAttribute)
		stride += size * floatSize
		a.nextAttribute++
	}
	a.dev.VertexArrayVertexBuffer(a.handle, a.nextBinding, buf.Handle(), 0, stride)
	a.nextBinding++
	a.buffers = append(a.buffers, buf.Acquire())
	return nil
}

// SetElementBuffer sets the index buffer, replacing any previous one.
func (a *VertexArray) SetElementBuffer(buf *Buffer) {
	a.dev.VertexArrayElementBuffer(a.handle, buf.Handle())
	if a.elements != nil {
		a.elements.Release()
	}
	a.elements = buf.Acquire()
}

// Release deletes the vertex array and drops its buffer references.
func (a *VertexArray) Release() {
	if a.handle == 0 {
		return
	}
	a.dev.DeleteVertexArray(a.handle)
	a.handle = 0
	for _, buf := range a.buffers {
		buf.Release()
	}
	a.buffers = nil
	if a.elements != nil {
		a.elements.Release()
		a.elements = nil
	}
}
