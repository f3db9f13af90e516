// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"fmt"

	"github.com/devblok/korufx/device"
	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Attachment describes one image of a render target.
type Attachment struct {
	Point  device.Attachment
	Format device.Format

	// RenderBuffer backs the attachment with a renderbuffer, which cannot
	// be sampled, instead of a texture.
	RenderBuffer bool
}

// Description describes a render target.
type Description struct {
	Width       int
	Height      int
	Attachments []Attachment
}

// DefaultDescription describes an RGBA8 color texture at Color0 and a
// D24S8 renderbuffer at DepthStencil.
func DefaultDescription(width, height int) Description {
	return Description{
		Width:  width,
		Height: height,
		Attachments: []Attachment{
			{Point: device.Color0, Format: device.RGBA8},
			{Point: device.DepthStencil, Format: device.D24S8, RenderBuffer: true},
		},
	}
}

// Validate checks the description against the limits of dev.
func (d Description) Validate(dev device.Device) error {
	info := dev.Info()
	if d.Width <= 0 || d.Height <= 0 ||
		(info.MaxTextureSize > 0 && (d.Width > info.MaxTextureSize || d.Height > info.MaxTextureSize)) {
		return fmt.Errorf("%w: render target of %dx%d", ErrInvalidSize, d.Width, d.Height)
	}

	seen := make(map[device.Attachment]bool, len(d.Attachments))
	for _, a := range d.Attachments {
		if seen[a.Point] {
			return fmt.Errorf("%w: %v described twice", ErrInvalidAttachment, a.Point)
		}
		seen[a.Point] = true
		if err := checkAttachment(dev, a.Point, a.Format); err != nil {
			return err
		}
	}
	if seen[device.DepthStencil] && (seen[device.Depth] || seen[device.Stencil]) {
		return fmt.Errorf("%w: DepthStencil combined with a separate Depth or Stencil image", ErrInvalidAttachment)
	}
	return nil
}

// RenderTarget owns a framebuffer and every image attached to it.
type RenderTarget struct {
	dev           device.Device
	width         int
	height        int
	framebuffer   *Framebuffer
	textures      map[device.Attachment]*Texture
	renderBuffers map[device.Attachment]*RenderBuffer
}

// NewRenderTarget creates a target with the default attachments.
func NewRenderTarget(dev device.Device, width, height int) (*RenderTarget, error) {
	return NewRenderTargetFromDescription(dev, DefaultDescription(width, height))
}

// NewRenderTargetFromDescription creates a target with the described
// attachments. The description is validated before any GPU object is
// created, and a framebuffer that turns out incomplete is released with its
// images before ErrIncompleteFramebuffer is returned.
func NewRenderTargetFromDescription(dev device.Device, desc Description) (*RenderTarget, error) {
	if err := desc.Validate(dev); err != nil {
		return nil, err
	}

	rt := &RenderTarget{
		dev:           dev,
		width:         desc.Width,
		height:        desc.Height,
		framebuffer:   NewFramebuffer(dev),
		textures:      make(map[device.Attachment]*Texture),
		renderBuffers: make(map[device.Attachment]*RenderBuffer),
	}
	for _, a := range desc.Attachments {
		if err := rt.addImage(a); err != nil {
			rt.Release()
			return nil, err
		}
	}

	if status := rt.framebuffer.Status(); status != device.FramebufferComplete {
		rt.Release()
		return nil, fmt.Errorf("%w: %v", ErrIncompleteFramebuffer, status)
	}

	log.WithFields(log.Fields{
		"framebuffer": rt.framebuffer.Handle(),
		"width":       rt.width,
		"height":      rt.height,
		"attachments": len(desc.Attachments),
	}).Debug("render target created")
	return rt, nil
}

func (rt *RenderTarget) addImage(a Attachment) error {
	if a.RenderBuffer {
		rb, err := NewRenderBuffer(rt.dev, rt.width, rt.height, a.Format)
		if err != nil {
			return err
		}
		rt.renderBuffers[a.Point] = rb
		return rt.framebuffer.Attach(a.Point, rb)
	}

	tex := NewTexture(rt.dev, device.Texture2D)
	rt.textures[a.Point] = tex
	if err := tex.SetStorage2D(rt.width, rt.height, a.Format); err != nil {
		return err
	}
	return rt.framebuffer.Attach(a.Point, tex)
}

// ScreenTarget returns a target that renders to the window system
// framebuffer. It owns no images.
func ScreenTarget(dev device.Device, width, height int) *RenderTarget {
	return &RenderTarget{
		dev:         dev,
		width:       width,
		height:      height,
		framebuffer: DefaultFramebuffer(dev),
	}
}

// IsScreen reports whether the target renders to the window.
func (rt *RenderTarget) IsScreen() bool {
	return rt.framebuffer.IsDefault()
}

// Width returns the width of the target in pixels.
func (rt *RenderTarget) Width() int {
	return rt.width
}

// Height returns the height of the target in pixels.
func (rt *RenderTarget) Height() int {
	return rt.height
}

// Texture returns the texture at point, or nil when point has no texture.
func (rt *RenderTarget) Texture(point device.Attachment) *Texture {
	return rt.textures[point]
}

// RenderBuffer returns the renderbuffer at point, or nil when point has no
// renderbuffer.
func (rt *RenderTarget) RenderBuffer(point device.Attachment) *RenderBuffer {
	return rt.renderBuffers[point]
}

// Framebuffer returns the framebuffer the target renders into, or nil after
// Release. The target keeps ownership of it and of its attachments.
func (rt *RenderTarget) Framebuffer() *Framebuffer {
	return rt.framebuffer
}

// FramebufferHandle returns the device handle of the target's framebuffer.
func (rt *RenderTarget) FramebufferHandle() device.Framebuffer {
	return rt.framebuffer.Handle()
}

// Bind makes the target the destination of draws and sets the viewport to
// cover it.
func (rt *RenderTarget) Bind() {
	rt.framebuffer.Bind()
	rt.dev.Viewport(0, 0, rt.width, rt.height)
}

// Clear binds the target and clears all of its buffers to color.
func (rt *RenderTarget) Clear(color mgl32.Vec4) {
	rt.Bind()
	ClearBackgroundColor(rt.dev, color)
}

// Release deletes the framebuffer and drops the target's references to its
// images.
func (rt *RenderTarget) Release() {
	if rt.framebuffer == nil {
		return
	}
	rt.framebuffer.Release()
	rt.framebuffer = nil
	for point, tex := range rt.textures {
		tex.Release()
		delete(rt.textures, point)
	}
	for point, rb := range rt.renderBuffers {
		rb.Release()
		delete(rt.renderBuffers, point)
	}
}
