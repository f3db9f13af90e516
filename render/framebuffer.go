// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/devblok/korufx/device"
	log "github.com/sirupsen/logrus"
)

var (
	errDefaultFramebuffer  = errors.New("render: the default framebuffer has no attachments to change")
	errReleasedFramebuffer = errors.New("render: framebuffer was released")
)

// Image is a texture or renderbuffer that can be attached to a Framebuffer.
type Image interface {
	Width() int
	Height() int
	Format() device.Format

	attachTo(dev device.Device, fb device.Framebuffer, point device.Attachment)
}

// Framebuffer maps attachment points to images. It does not own the images
// attached to it.
type Framebuffer struct {
	dev         device.Device
	handle      device.Framebuffer
	attachments map[device.Attachment]Image
	released    bool
}

// NewFramebuffer creates a framebuffer with no attachments.
func NewFramebuffer(dev device.Device) *Framebuffer {
	fb := &Framebuffer{
		dev:         dev,
		handle:      dev.CreateFramebuffer(),
		attachments: make(map[device.Attachment]Image),
	}
	log.WithField("framebuffer", fb.handle).Debug("framebuffer created")
	return fb
}

// DefaultFramebuffer returns the window system framebuffer. Release is a
// no-op on it and it cannot be attached to.
func DefaultFramebuffer(dev device.Device) *Framebuffer {
	return &Framebuffer{dev: dev, handle: device.DefaultFramebuffer}
}

// Handle returns the device handle of the framebuffer.
func (f *Framebuffer) Handle() device.Framebuffer {
	return f.handle
}

// IsDefault reports whether f is the window system framebuffer.
func (f *Framebuffer) IsDefault() bool {
	return f.handle == device.DefaultFramebuffer
}

// Attach binds img to point, replacing whatever was attached there. The
// replaced image is not released. Attaching to a released framebuffer
// fails.
func (f *Framebuffer) Attach(point device.Attachment, img Image) error {
	if f.IsDefault() {
		return errDefaultFramebuffer
	}
	if f.released {
		return errReleasedFramebuffer
	}
	if err := checkAttachment(f.dev, point, img.Format()); err != nil {
		return err
	}
	img.attachTo(f.dev, f.handle, point)
	f.attachments[point] = img
	if point.IsColor() {
		f.updateDrawBuffers()
	}
	log.WithFields(log.Fields{
		"framebuffer": f.handle,
		"attachment":  point,
		"format":      img.Format(),
	}).Debug("framebuffer attachment bound")
	return nil
}

// Detach removes the image bound to point, if any.
func (f *Framebuffer) Detach(point device.Attachment) {
	img, ok := f.attachments[point]
	if !ok {
		return
	}
	switch img.(type) {
	case *RenderBuffer:
		f.dev.FramebufferRenderbuffer(f.handle, point, 0)
	default:
		f.dev.FramebufferTexture(f.handle, point, 0, 0)
	}
	delete(f.attachments, point)
	if point.IsColor() {
		f.updateDrawBuffers()
	}
}

// Attachment returns the image bound to point, or nil.
func (f *Framebuffer) Attachment(point device.Attachment) Image {
	return f.attachments[point]
}

// Points returns the attachment points in use, ordered.
func (f *Framebuffer) Points() []device.Attachment {
	points := make([]device.Attachment, 0, len(f.attachments))
	for p := range f.attachments {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	return points
}

func (f *Framebuffer) updateDrawBuffers() {
	var colors []device.Attachment
	for _, p := range f.Points() {
		if p.IsColor() {
			colors = append(colors, p)
		}
	}
	f.dev.FramebufferDrawBuffers(f.handle, colors)
}

// Status returns the completeness status of the framebuffer.
func (f *Framebuffer) Status() device.FramebufferStatus {
	return f.dev.CheckFramebufferStatus(f.handle)
}

// Bind makes the framebuffer the destination of draws. Binding one
// framebuffer leaves the attachments of every other framebuffer untouched.
func (f *Framebuffer) Bind() {
	f.dev.BindFramebuffer(f.handle)
}

// Release deletes the framebuffer object. The attached images are not
// released.
func (f *Framebuffer) Release() {
	if f.IsDefault() || f.released {
		return
	}
	f.dev.DeleteFramebuffer(f.handle)
	f.released = true
	f.attachments = nil
	log.WithField("framebuffer", f.handle).Debug("framebuffer deleted")
}

func checkAttachment(dev device.Device, point device.Attachment, format device.Format) error {
	if point.IsColor() && point.ColorIndex() >= dev.Info().MaxColorAttachments {
		return fmt.Errorf("%w: %v exceeds the %d color attachments of the device",
			ErrInvalidAttachment, point, dev.Info().MaxColorAttachments)
	}
	if !format.CompatibleWith(point) {
		return fmt.Errorf("%w: format %v cannot be bound to %v", ErrInvalidAttachment, format, point)
	}
	return nil
}
