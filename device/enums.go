// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "strconv"

// BufferTarget is a buffer binding point.
type BufferTarget int

// Buffer binding points
const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
	UniformBuffer
	ShaderStorageBuffer
	AtomicCounterBuffer
	TextureBuffer
	QueryBuffer
	TransformFeedbackBuffer
	CopyReadBuffer
	CopyWriteBuffer
	PixelPackBuffer
	PixelUnpackBuffer
	DispatchIndirectBuffer
	DrawIndirectBuffer
)

// BufferUsage is a hint on how buffer data will be accessed.
type BufferUsage int

// Buffer usage hints
const (
	StaticDraw BufferUsage = iota
	StaticRead
	StaticCopy
	DynamicDraw
	DynamicRead
	DynamicCopy
	StreamDraw
	StreamRead
	StreamCopy
)

// DataType is the component type of a vertex attribute.
type DataType int

// Vertex attribute component types
const (
	Float DataType = iota
	Int
	UnsignedInt
)

// ShaderStage identifies the pipeline stage a shader module runs in.
type ShaderStage int

// Shader stages
const (
	VertexStage ShaderStage = iota
	FragmentStage
	GeometryStage
	TessControlStage
	TessEvaluationStage
	ComputeStage
)

var shaderStageNames = [...]string{
	VertexStage:         "vertex",
	FragmentStage:       "fragment",
	GeometryStage:       "geometry",
	TessControlStage:    "tessellation control",
	TessEvaluationStage: "tessellation evaluation",
	ComputeStage:        "compute",
}

func (s ShaderStage) String() string {
	if s >= 0 && int(s) < len(shaderStageNames) {
		return shaderStageNames[s]
	}
	return "ShaderStage(" + strconv.Itoa(int(s)) + ")"
}

// TextureType is the dimensionality and layout of a texture object.
type TextureType int

// Texture types
const (
	Texture1D TextureType = iota
	Texture2D
	Texture3D
	Texture1DArray
	Texture2DArray
	TextureRectangle
	TextureCubeMap
	TextureCubeMapArray
	TextureBufferType
	Texture2DMultisample
	Texture2DMultisampleArray
)

// TextureParameter is a sampling parameter of a texture.
type TextureParameter int

// Texture parameters
const (
	MinFilter TextureParameter = iota
	MagFilter
	WrapS
	WrapT
	WrapR
)

// Values for the filter and wrap texture parameters.
const (
	Nearest int32 = iota
	Linear
	ClampToEdge
	ClampToBorder
	Repeat
	MirroredRepeat
)

// Access is how a shader may access an image unit.
type Access int

// Image access modes
const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

// Barrier is a set of memory barrier bits.
type Barrier uint32

// Memory barrier bits
const (
	ShaderImageAccessBarrier Barrier = 1 << iota
	TextureFetchBarrier
	FramebufferBarrier
	AllBarriers Barrier = ^Barrier(0)
)

// Attachment is a framebuffer attachment point. It is a key, not a resource.
type Attachment int

// Framebuffer attachment points. Color points above Color7 are
// valid as long as the driver supports them.
const (
	DepthStencil Attachment = iota - 3
	Depth
	Stencil
	Color0
	Color1
	Color2
	Color3
	Color4
	Color5
	Color6
	Color7
)

// ColorAttachment returns the color attachment point with index i.
func ColorAttachment(i int) Attachment {
	return Color0 + Attachment(i)
}

// IsColor reports whether a is a color attachment point.
func (a Attachment) IsColor() bool {
	return a >= Color0
}

// ColorIndex returns the index of a color attachment point, or -1.
func (a Attachment) ColorIndex() int {
	if !a.IsColor() {
		return -1
	}
	return int(a - Color0)
}

func (a Attachment) String() string {
	switch a {
	case DepthStencil:
		return "DepthStencil"
	case Depth:
		return "Depth"
	case Stencil:
		return "Stencil"
	}
	if a.IsColor() {
		return "Color" + strconv.Itoa(a.ColorIndex())
	}
	return "Attachment(" + strconv.Itoa(int(a)) + ")"
}

// FramebufferStatus is the completeness state of a framebuffer.
type FramebufferStatus int

// Framebuffer completeness states
const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferUndefined
	FramebufferIncompleteAttachment
	FramebufferIncompleteMissingAttachment
	FramebufferIncompleteDrawBuffer
	FramebufferIncompleteReadBuffer
	FramebufferUnsupported
	FramebufferIncompleteMultisample
	FramebufferIncompleteLayerTargets
	FramebufferStatusUnknown
)

var framebufferStatusNames = [...]string{
	FramebufferComplete:                    "complete",
	FramebufferUndefined:                   "undefined",
	FramebufferIncompleteAttachment:        "incomplete attachment",
	FramebufferIncompleteMissingAttachment: "missing attachment",
	FramebufferIncompleteDrawBuffer:        "incomplete draw buffer",
	FramebufferIncompleteReadBuffer:        "incomplete read buffer",
	FramebufferUnsupported:                 "unsupported",
	FramebufferIncompleteMultisample:       "incomplete multisample",
	FramebufferIncompleteLayerTargets:      "incomplete layer targets",
	FramebufferStatusUnknown:               "unknown",
}

func (s FramebufferStatus) String() string {
	if s >= 0 && int(s) < len(framebufferStatusNames) {
		return framebufferStatusNames[s]
	}
	return "FramebufferStatus(" + strconv.Itoa(int(s)) + ")"
}

// ClearMask selects the buffers Clear operates on.
type ClearMask uint32

// Clear mask bits
const (
	ColorBufferBit ClearMask = 1 << iota
	DepthBufferBit
	StencilBufferBit
)

// DrawMode is the primitive assembly mode of a draw call.
type DrawMode int

// Primitive modes
const (
	Triangles DrawMode = iota
	TriangleStrip
	TriangleFan
	Lines
	LineStrip
	Points
)
