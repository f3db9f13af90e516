// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "strconv"

// Format is the internal (storage) format of a texture or renderbuffer.
type Format int

// Internal formats
const (
	FormatUndefined Format = iota

	R8
	RG8
	RGB8
	RGBA8

	R32F
	RG32F
	RGB32F
	RGBA32F

	R16
	RG16
	RGB16
	RGBA16

	R32I
	RG32I
	RGB32I
	RGBA32I

	R32UI
	RG32UI
	RGB32UI
	RGBA32UI

	R16UI
	RG16UI
	RGB16UI
	RGBA16UI

	R16I
	RG16I
	RGB16I
	RGBA16I

	R8I
	RG8I
	RGB8I
	RGBA8I

	R8UI
	RG8UI
	RGB8UI
	RGBA8UI

	D24S8
	D32FS8

	D32F
	D24
	D16

	S8
	S16

	formatCount
)

// FormatKind groups formats by the attachment points they may be bound to.
type FormatKind int

// Format kinds
const (
	ColorFormat FormatKind = iota
	DepthFormat
	StencilFormat
	DepthStencilFormat
)

// PixelFormat is the channel layout of client pixel data.
type PixelFormat int

// Client pixel layouts
const (
	PixelRed PixelFormat = iota
	PixelRG
	PixelRGB
	PixelRGBA
	PixelRedInteger
	PixelRGInteger
	PixelRGBInteger
	PixelRGBAInteger
	PixelDepth
	PixelStencil
	PixelDepthStencil
)

// PixelType is the component type of client pixel data.
type PixelType int

// Client pixel component types
const (
	I8 PixelType = iota
	U8
	I16
	U16
	I32
	U32
	F32
	U24S8
	F32U24S8
)

// Size returns the size of one component of the type in bytes. Packed
// depth-stencil types report the size of a whole pixel.
func (t PixelType) Size() int {
	switch t {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32, U24S8:
		return 4
	case F32U24S8:
		return 8
	}
	return 0
}

type formatInfo struct {
	name       string
	kind       FormatKind
	components int
	integer    bool
	pixels     PixelFormat
	ptype      PixelType
}

var formats = [formatCount]formatInfo{
	R8:    {"R8", ColorFormat, 1, false, PixelRed, U8},
	RG8:   {"RG8", ColorFormat, 2, false, PixelRG, U8},
	RGB8:  {"RGB8", ColorFormat, 3, false, PixelRGB, U8},
	RGBA8: {"RGBA8", ColorFormat, 4, false, PixelRGBA, U8},

	R32F:    {"R32F", ColorFormat, 1, false, PixelRed, F32},
	RG32F:   {"RG32F", ColorFormat, 2, false, PixelRG, F32},
	RGB32F:  {"RGB32F", ColorFormat, 3, false, PixelRGB, F32},
	RGBA32F: {"RGBA32F", ColorFormat, 4, false, PixelRGBA, F32},

	R16:    {"R16", ColorFormat, 1, false, PixelRed, U16},
	RG16:   {"RG16", ColorFormat, 2, false, PixelRG, U16},
	RGB16:  {"RGB16", ColorFormat, 3, false, PixelRGB, U16},
	RGBA16: {"RGBA16", ColorFormat, 4, false, PixelRGBA, U16},

	R32I:    {"R32I", ColorFormat, 1, true, PixelRedInteger, I32},
	RG32I:   {"RG32I", ColorFormat, 2, true, PixelRGInteger, I32},
	RGB32I:  {"RGB32I", ColorFormat, 3, true, PixelRGBInteger, I32},
	RGBA32I: {"RGBA32I", ColorFormat, 4, true, PixelRGBAInteger, I32},

	R32UI:    {"R32UI", ColorFormat, 1, true, PixelRedInteger, U32},
	RG32UI:   {"RG32UI", ColorFormat, 2, true, PixelRGInteger, U32},
	RGB32UI:  {"RGB32UI", ColorFormat, 3, true, PixelRGBInteger, U32},
	RGBA32UI: {"RGBA32UI", ColorFormat, 4, true, PixelRGBAInteger, U32},

	R16UI:    {"R16UI", ColorFormat, 1, true, PixelRedInteger, U16},
	RG16UI:   {"RG16UI", ColorFormat, 2, true, PixelRGInteger, U16},
	RGB16UI:  {"RGB16UI", ColorFormat, 3, true, PixelRGBInteger, U16},
	RGBA16UI: {"RGBA16UI", ColorFormat, 4, true, PixelRGBAInteger, U16},

	R16I:    {"R16I", ColorFormat, 1, true, PixelRedInteger, I16},
	RG16I:   {"RG16I", ColorFormat, 2, true, PixelRGInteger, I16},
	RGB16I:  {"RGB16I", ColorFormat, 3, true, PixelRGBInteger, I16},
	RGBA16I: {"RGBA16I", ColorFormat, 4, true, PixelRGBAInteger, I16},

	R8I:    {"R8I", ColorFormat, 1, true, PixelRedInteger, I8},
	RG8I:   {"RG8I", ColorFormat, 2, true, PixelRGInteger, I8},
	RGB8I:  {"RGB8I", ColorFormat, 3, true, PixelRGBInteger, I8},
	RGBA8I: {"RGBA8I", ColorFormat, 4, true, PixelRGBAInteger, I8},

	R8UI:    {"R8UI", ColorFormat, 1, true, PixelRedInteger, U8},
	RG8UI:   {"RG8UI", ColorFormat, 2, true, PixelRGInteger, U8},
	RGB8UI:  {"RGB8UI", ColorFormat, 3, true, PixelRGBInteger, U8},
	RGBA8UI: {"RGBA8UI", ColorFormat, 4, true, PixelRGBAInteger, U8},

	D24S8:  {"D24S8", DepthStencilFormat, 2, false, PixelDepthStencil, U24S8},
	D32FS8: {"D32FS8", DepthStencilFormat, 2, false, PixelDepthStencil, F32U24S8},

	D32F: {"D32F", DepthFormat, 1, false, PixelDepth, F32},
	D24:  {"D24", DepthFormat, 1, false, PixelDepth, U32},
	D16:  {"D16", DepthFormat, 1, false, PixelDepth, U16},

	S8:  {"S8", StencilFormat, 1, false, PixelStencil, U8},
	S16: {"S16", StencilFormat, 1, false, PixelStencil, U16},
}

// Valid reports whether f names a known internal format.
func (f Format) Valid() bool {
	return f > FormatUndefined && f < formatCount
}

// Kind returns the attachment class of the format.
func (f Format) Kind() FormatKind {
	return formats[f.index()].kind
}

// Components returns the number of channels stored by the format.
func (f Format) Components() int {
	return formats[f.index()].components
}

// Integer reports whether the format stores unnormalised integers.
func (f Format) Integer() bool {
	return formats[f.index()].integer
}

// TransferFormat returns the client pixel layout and component type that
// match the format, used when allocating storage with no initial data.
func (f Format) TransferFormat() (PixelFormat, PixelType) {
	info := formats[f.index()]
	return info.pixels, info.ptype
}

// CompatibleWith reports whether images of this format can be bound to point.
func (f Format) CompatibleWith(point Attachment) bool {
	if !f.Valid() {
		return false
	}
	switch point {
	case DepthStencil:
		return f.Kind() == DepthStencilFormat
	case Depth:
		return f.Kind() == DepthFormat
	case Stencil:
		return f.Kind() == StencilFormat
	}
	return point.IsColor() && f.Kind() == ColorFormat
}

func (f Format) String() string {
	if f.Valid() {
		return formats[f].name
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

func (f Format) index() Format {
	if f.Valid() {
		return f
	}
	return FormatUndefined
}
