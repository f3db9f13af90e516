// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"errors"
	"fmt"

	"github.com/devblok/korufx/device"
	log "github.com/sirupsen/logrus"
)

var errNot2D = errors.New("render: 2D image storage on a texture that is not 2D")

// Texture is a shared texture object. A texture can be attached to a
// Framebuffer.
type Texture struct {
	dev    device.Device
	handle device.Texture
	typ    device.TextureType
	width  int
	height int
	format device.Format
	refs   refs
}

// NewTexture creates a texture of typ with no storage.
func NewTexture(dev device.Device, typ device.TextureType) *Texture {
	t := &Texture{dev: dev, handle: dev.CreateTexture(typ), typ: typ, refs: 1}
	log.WithField("texture", t.handle).Debug("texture created")
	return t
}

// Handle returns the device handle of the texture.
func (t *Texture) Handle() device.Texture {
	return t.handle
}

// Type returns the texture type.
func (t *Texture) Type() device.TextureType {
	return t.typ
}

// Width implements Image
func (t *Texture) Width() int {
	return t.width
}

// Height implements Image
func (t *Texture) Height() int {
	return t.height
}

// Format implements Image
func (t *Texture) Format() device.Format {
	return t.format
}

func (t *Texture) attachTo(dev device.Device, fb device.Framebuffer, point device.Attachment) {
	dev.FramebufferTexture(fb, point, t.handle, 0)
}

// SetImage2D uploads img as level 0 and sets filtering that needs no
// mipmaps: linear for normalised formats, nearest for integer ones.
func (t *Texture) SetImage2D(img *ImageData) error {
	if err := img.Validate(); err != nil {
		return err
	}
	format, _ := img.InternalFormat()
	pixels, _ := img.PixelFormat()
	if err := t.storage(img.Width, img.Height, format, pixels, img.Type, img.Data); err != nil {
		return err
	}
	t.defaultFilter()
	return nil
}

// SetStorage2D allocates uninitialised storage of the given format.
func (t *Texture) SetStorage2D(width, height int, format device.Format) error {
	if !format.Valid() {
		return fmt.Errorf("%w: format %v", ErrInvalidAttachment, format)
	}
	pixels, ptype := format.TransferFormat()
	if err := t.storage(width, height, format, pixels, ptype, nil); err != nil {
		return err
	}
	t.defaultFilter()
	return nil
}

func (t *Texture) storage(width, height int, format device.Format, pixels device.PixelFormat, ptype device.PixelType, data []byte) error {
	if t.typ != device.Texture2D && t.typ != device.TextureRectangle {
		return errNot2D
	}
	if limit := t.dev.Info().MaxTextureSize; width <= 0 || height <= 0 || (limit > 0 && (width > limit || height > limit)) {
		return fmt.Errorf("%w: texture of %dx%d", ErrInvalidSize, width, height)
	}
	t.dev.TexImage2D(t.handle, t.typ, width, height, format, pixels, ptype, data)
	t.width, t.height, t.format = width, height, format

	log.WithFields(log.Fields{
		"texture": t.handle,
		"width":   width,
		"height":  height,
		"format":  format,
	}).Debug("texture storage allocated")
	return nil
}

func (t *Texture) defaultFilter() {
	if t.format.Integer() || t.format.Kind() != device.ColorFormat {
		t.SetFilter(device.Nearest, device.Nearest)
	} else {
		t.SetFilter(device.Linear, device.Linear)
	}
	t.SetWrap(device.ClampToEdge, device.ClampToEdge)
}

// SetFilter sets the minification and magnification filters.
func (t *Texture) SetFilter(minification, magnification int32) {
	t.dev.TexParameter(t.handle, device.MinFilter, minification)
	t.dev.TexParameter(t.handle, device.MagFilter, magnification)
}

// SetWrap sets the wrap modes of the s and t coordinates.
func (t *Texture) SetWrap(s, tc int32) {
	t.dev.TexParameter(t.handle, device.WrapS, s)
	t.dev.TexParameter(t.handle, device.WrapT, tc)
}

// Bind binds the texture to its target on the active unit.
func (t *Texture) Bind() {
	t.dev.BindTexture(t.typ, t.handle)
}

// BindUnit binds the texture to texture unit unit for sampling.
func (t *Texture) BindUnit(unit uint32) {
	t.dev.BindTextureUnit(unit, t.handle)
}

// BindImage binds level 0 of the texture to image unit unit for load/store.
func (t *Texture) BindImage(unit uint32, access device.Access) {
	t.dev.BindImageTexture(unit, t.handle, access, t.format)
}

// Acquire adds a reference to the texture and returns it.
func (t *Texture) Acquire() *Texture {
	t.refs.acquire()
	return t
}

// Release drops a reference, deleting the texture with the last one.
func (t *Texture) Release() {
	if t.refs.release() {
		t.dev.DeleteTexture(t.handle)
		log.WithField("texture", t.handle).Debug("texture deleted")
	}
}
