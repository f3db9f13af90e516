// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"fmt"

	"github.com/devblok/korufx/device"
	log "github.com/sirupsen/logrus"
)

// Buffer is a shared GPU buffer object.
type Buffer struct {
	dev    device.Device
	handle device.Buffer
	size   int
	usage  device.BufferUsage
	refs   refs
}

// NewBuffer creates a buffer with no storage.
func NewBuffer(dev device.Device) *Buffer {
	b := &Buffer{dev: dev, handle: dev.CreateBuffer(), refs: 1}
	log.WithField("buffer", b.handle).Debug("buffer created")
	return b
}

// NewBufferSize creates a buffer with size bytes of uninitialised storage.
func NewBufferSize(dev device.Device, size int, usage device.BufferUsage) (*Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: buffer of %d bytes", ErrInvalidSize, size)
	}
	b := NewBuffer(dev)
	b.setData(size, nil, usage)
	return b, nil
}

// NewBufferData creates a buffer initialised with a copy of data.
func NewBufferData(dev device.Device, data []byte, usage device.BufferUsage) *Buffer {
	b := NewBuffer(dev)
	b.setData(len(data), data, usage)
	return b
}

func (b *Buffer) setData(size int, data []byte, usage device.BufferUsage) {
	b.dev.BufferData(b.handle, size, data, usage)
	b.size, b.usage = size, usage
	log.WithFields(log.Fields{
		"buffer": b.handle,
		"size":   size,
	}).Debug("buffer storage allocated")
}

// Handle returns the device handle of the buffer.
func (b *Buffer) Handle() device.Buffer {
	return b.handle
}

// Size returns the size of the buffer storage in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// Bind binds the buffer to target.
func (b *Buffer) Bind(target device.BufferTarget) {
	b.dev.BindBuffer(target, b.handle)
}

// Update replaces the bytes at offset with data.
func (b *Buffer) Update(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("%w: update of %d bytes at %d in a buffer of %d bytes", ErrInvalidSize, len(data), offset, b.size)
	}
	b.dev.BufferSubData(b.handle, offset, data)
	return nil
}

// Acquire adds a reference to the buffer and returns it.
func (b *Buffer) Acquire() *Buffer {
	b.refs.acquire()
	return b
}

// Release drops a reference, deleting the buffer with the last one.
func (b *Buffer) Release() {
	if b.refs.release() {
		b.dev.DeleteBuffer(b.handle)
		log.WithField("buffer", b.handle).Debug("buffer deleted")
	}
}
