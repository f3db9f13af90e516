// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package render

import (
	"fmt"
	"image"

	"github.com/devblok/korufx/device"
	"github.com/disintegration/imaging"
)

// ImageData is decoded pixel data ready for upload. Rows are tightly
// packed and the first row becomes the bottom row of the texture.
type ImageData struct {
	Width      int
	Height     int
	Components int
	Type       device.PixelType
	Data       []byte

	// PreserveInt selects an integer internal format for 8 and 16 bit
	// pixel types instead of a normalised one.
	PreserveInt bool
}

// NewImageData converts img to 8 bit RGBA. Rows are kept in image order,
// so img should be flipped vertically first to appear upright.
func NewImageData(img image.Image) *ImageData {
	nrgba := imaging.Clone(img)
	return &ImageData{
		Width:      nrgba.Rect.Dx(),
		Height:     nrgba.Rect.Dy(),
		Components: 4,
		Type:       device.U8,
		Data:       nrgba.Pix,
	}
}

// internal formats indexed by pixel type, then component count - 1, then
// normalised/integer
var imageFormats = map[device.PixelType][4][2]device.Format{
	device.I8: {
		{device.R8, device.R8I}, {device.RG8, device.RG8I},
		{device.RGB8, device.RGB8I}, {device.RGBA8, device.RGBA8I},
	},
	device.U8: {
		{device.R8, device.R8UI}, {device.RG8, device.RG8UI},
		{device.RGB8, device.RGB8UI}, {device.RGBA8, device.RGBA8UI},
	},
	device.I16: {
		{device.R16, device.R16I}, {device.RG16, device.RG16I},
		{device.RGB16, device.RGB16I}, {device.RGBA16, device.RGBA16I},
	},
	device.U16: {
		{device.R16, device.R16UI}, {device.RG16, device.RG16UI},
		{device.RGB16, device.RGB16UI}, {device.RGBA16, device.RGBA16UI},
	},
	device.I32: {
		{device.R32I, device.R32I}, {device.RG32I, device.RG32I},
		{device.RGB32I, device.RGB32I}, {device.RGBA32I, device.RGBA32I},
	},
	device.U32: {
		{device.R32UI, device.R32UI}, {device.RG32UI, device.RG32UI},
		{device.RGB32UI, device.RGB32UI}, {device.RGBA32UI, device.RGBA32UI},
	},
	device.F32: {
		{device.R32F, device.R32F}, {device.RG32F, device.RG32F},
		{device.RGB32F, device.RGB32F}, {device.RGBA32F, device.RGBA32F},
	},
}

var (
	normalisedLayouts = [4]device.PixelFormat{device.PixelRed, device.PixelRG, device.PixelRGB, device.PixelRGBA}
	integerLayouts    = [4]device.PixelFormat{device.PixelRedInteger, device.PixelRGInteger, device.PixelRGBInteger, device.PixelRGBAInteger}
)

// InternalFormat returns the texture format the data is stored in.
func (d *ImageData) InternalFormat() (device.Format, error) {
	formats, ok := imageFormats[d.Type]
	if !ok {
		return device.FormatUndefined, fmt.Errorf("%w: pixel type %d", ErrInvalidPixelData, d.Type)
	}
	if d.Components < 1 || d.Components > 4 {
		return device.FormatUndefined, fmt.Errorf("%w: %d channels", ErrInvalidPixelData, d.Components)
	}
	if d.PreserveInt {
		return formats[d.Components-1][1], nil
	}
	return formats[d.Components-1][0], nil
}

// PixelFormat returns the client layout of the data.
func (d *ImageData) PixelFormat() (device.PixelFormat, error) {
	format, err := d.InternalFormat()
	if err != nil {
		return 0, err
	}
	if format.Integer() {
		return integerLayouts[d.Components-1], nil
	}
	return normalisedLayouts[d.Components-1], nil
}

// Validate checks the description and, when Data is set, its length.
func (d *ImageData) Validate() error {
	if _, err := d.InternalFormat(); err != nil {
		return err
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: image of %dx%d", ErrInvalidSize, d.Width, d.Height)
	}
	if d.Data == nil {
		return nil
	}
	if want := d.Width * d.Height * d.Components * d.Type.Size(); len(d.Data) != want {
		return fmt.Errorf("%w: %d bytes for a %dx%dx%d image, want %d",
			ErrInvalidPixelData, len(d.Data), d.Width, d.Height, d.Components, want)
	}
	return nil
}
