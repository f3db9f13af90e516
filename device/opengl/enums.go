// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opengl

import (
	"github.com/devblok/korufx/device"
	"github.com/go-gl/gl/v4.6-core/gl"
)

var bufferTargets = [...]uint32{
	device.ArrayBuffer:             gl.ARRAY_BUFFER,
	device.ElementArrayBuffer:      gl.ELEMENT_ARRAY_BUFFER,
	device.UniformBuffer:           gl.UNIFORM_BUFFER,
	device.ShaderStorageBuffer:     gl.SHADER_STORAGE_BUFFER,
	device.AtomicCounterBuffer:     gl.ATOMIC_COUNTER_BUFFER,
	device.TextureBuffer:           gl.TEXTURE_BUFFER,
	device.QueryBuffer:             gl.QUERY_BUFFER,
	device.TransformFeedbackBuffer: gl.TRANSFORM_FEEDBACK_BUFFER,
	device.CopyReadBuffer:          gl.COPY_READ_BUFFER,
	device.CopyWriteBuffer:         gl.COPY_WRITE_BUFFER,
	device.PixelPackBuffer:         gl.PIXEL_PACK_BUFFER,
	device.PixelUnpackBuffer:       gl.PIXEL_UNPACK_BUFFER,
	device.DispatchIndirectBuffer:  gl.DISPATCH_INDIRECT_BUFFER,
	device.DrawIndirectBuffer:      gl.DRAW_INDIRECT_BUFFER,
}

func bufferTarget(t device.BufferTarget) uint32 {
	return bufferTargets[t]
}

var bufferUsages = [...]uint32{
	device.StaticDraw:  gl.STATIC_DRAW,
	device.StaticRead:  gl.STATIC_READ,
	device.StaticCopy:  gl.STATIC_COPY,
	device.DynamicDraw: gl.DYNAMIC_DRAW,
	device.DynamicRead: gl.DYNAMIC_READ,
	device.DynamicCopy: gl.DYNAMIC_COPY,
	device.StreamDraw:  gl.STREAM_DRAW,
	device.StreamRead:  gl.STREAM_READ,
	device.StreamCopy:  gl.STREAM_COPY,
}

func bufferUsage(u device.BufferUsage) uint32 {
	return bufferUsages[u]
}

func dataType(t device.DataType) uint32 {
	switch t {
	case device.Int:
		return gl.INT
	case device.UnsignedInt:
		return gl.UNSIGNED_INT
	default:
		return gl.FLOAT
	}
}

var shaderStages = [...]uint32{
	device.VertexStage:         gl.VERTEX_SHADER,
	device.FragmentStage:       gl.FRAGMENT_SHADER,
	device.GeometryStage:       gl.GEOMETRY_SHADER,
	device.TessControlStage:    gl.TESS_CONTROL_SHADER,
	device.TessEvaluationStage: gl.TESS_EVALUATION_SHADER,
	device.ComputeStage:        gl.COMPUTE_SHADER,
}

func shaderStage(s device.ShaderStage) uint32 {
	return shaderStages[s]
}

var textureTypes = [...]uint32{
	device.Texture1D:                 gl.TEXTURE_1D,
	device.Texture2D:                 gl.TEXTURE_2D,
	device.Texture3D:                 gl.TEXTURE_3D,
	device.Texture1DArray:            gl.TEXTURE_1D_ARRAY,
	device.Texture2DArray:            gl.TEXTURE_2D_ARRAY,
	device.TextureRectangle:          gl.TEXTURE_RECTANGLE,
	device.TextureCubeMap:            gl.TEXTURE_CUBE_MAP,
	device.TextureCubeMapArray:       gl.TEXTURE_CUBE_MAP_ARRAY,
	device.TextureBufferType:         gl.TEXTURE_BUFFER,
	device.Texture2DMultisample:      gl.TEXTURE_2D_MULTISAMPLE,
	device.Texture2DMultisampleArray: gl.TEXTURE_2D_MULTISAMPLE_ARRAY,
}

func textureType(t device.TextureType) uint32 {
	return textureTypes[t]
}

var textureParameters = [...]uint32{
	device.MinFilter: gl.TEXTURE_MIN_FILTER,
	device.MagFilter: gl.TEXTURE_MAG_FILTER,
	device.WrapS:     gl.TEXTURE_WRAP_S,
	device.WrapT:     gl.TEXTURE_WRAP_T,
	device.WrapR:     gl.TEXTURE_WRAP_R,
}

func textureParameter(p device.TextureParameter) uint32 {
	return textureParameters[p]
}

func textureParameterValue(v int32) int32 {
	switch v {
	case device.Nearest:
		return gl.NEAREST
	case device.Linear:
		return gl.LINEAR
	case device.ClampToEdge:
		return gl.CLAMP_TO_EDGE
	case device.ClampToBorder:
		return gl.CLAMP_TO_BORDER
	case device.Repeat:
		return gl.REPEAT
	case device.MirroredRepeat:
		return gl.MIRRORED_REPEAT
	}
	return v
}

func imageAccess(a device.Access) uint32 {
	switch a {
	case device.ReadOnly:
		return gl.READ_ONLY
	case device.WriteOnly:
		return gl.WRITE_ONLY
	default:
		return gl.READ_WRITE
	}
}

func barrierBits(b device.Barrier) uint32 {
	if b == device.AllBarriers {
		return gl.ALL_BARRIER_BITS
	}
	var bits uint32
	if b&device.ShaderImageAccessBarrier != 0 {
		bits |= gl.SHADER_IMAGE_ACCESS_BARRIER_BIT
	}
	if b&device.TextureFetchBarrier != 0 {
		bits |= gl.TEXTURE_FETCH_BARRIER_BIT
	}
	if b&device.FramebufferBarrier != 0 {
		bits |= gl.FRAMEBUFFER_BARRIER_BIT
	}
	return bits
}

func attachment(a device.Attachment) uint32 {
	switch a {
	case device.DepthStencil:
		return gl.DEPTH_STENCIL_ATTACHMENT
	case device.Depth:
		return gl.DEPTH_ATTACHMENT
	case device.Stencil:
		return gl.STENCIL_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a.ColorIndex())
}

func framebufferStatus(s uint32) device.FramebufferStatus {
	switch s {
	case gl.FRAMEBUFFER_COMPLETE:
		return device.FramebufferComplete
	case gl.FRAMEBUFFER_UNDEFINED:
		return device.FramebufferUndefined
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return device.FramebufferIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return device.FramebufferIncompleteMissingAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return device.FramebufferIncompleteDrawBuffer
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return device.FramebufferIncompleteReadBuffer
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return device.FramebufferUnsupported
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return device.FramebufferIncompleteMultisample
	case gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:
		return device.FramebufferIncompleteLayerTargets
	}
	return device.FramebufferStatusUnknown
}

func drawMode(m device.DrawMode) uint32 {
	switch m {
	case device.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case device.TriangleFan:
		return gl.TRIANGLE_FAN
	case device.Lines:
		return gl.LINES
	case device.LineStrip:
		return gl.LINE_STRIP
	case device.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

var internalFormats = map[device.Format]uint32{
	device.R8:    gl.R8,
	device.RG8:   gl.RG8,
	device.RGB8:  gl.RGB8,
	device.RGBA8: gl.RGBA8,

	device.R32F:    gl.R32F,
	device.RG32F:   gl.RG32F,
	device.RGB32F:  gl.RGB32F,
	device.RGBA32F: gl.RGBA32F,

	device.R16:    gl.R16,
	device.RG16:   gl.RG16,
	device.RGB16:  gl.RGB16,
	device.RGBA16: gl.RGBA16,

	device.R32I:    gl.R32I,
	device.RG32I:   gl.RG32I,
	device.RGB32I:  gl.RGB32I,
	device.RGBA32I: gl.RGBA32I,

	device.R32UI:    gl.R32UI,
	device.RG32UI:   gl.RG32UI,
	device.RGB32UI:  gl.RGB32UI,
	device.RGBA32UI: gl.RGBA32UI,

	device.R16UI:    gl.R16UI,
	device.RG16UI:   gl.RG16UI,
	device.RGB16UI:  gl.RGB16UI,
	device.RGBA16UI: gl.RGBA16UI,

	device.R16I:    gl.R16I,
	device.RG16I:   gl.RG16I,
	device.RGB16I:  gl.RGB16I,
	device.RGBA16I: gl.RGBA16I,

	device.R8I:    gl.R8I,
	device.RG8I:   gl.RG8I,
	device.RGB8I:  gl.RGB8I,
	device.RGBA8I: gl.RGBA8I,

	device.R8UI:    gl.R8UI,
	device.RG8UI:   gl.RG8UI,
	device.RGB8UI:  gl.RGB8UI,
	device.RGBA8UI: gl.RGBA8UI,

	device.D24S8:  gl.DEPTH24_STENCIL8,
	device.D32FS8: gl.DEPTH32F_STENCIL8,

	device.D32F: gl.DEPTH_COMPONENT32F,
	device.D24:  gl.DEPTH_COMPONENT24,
	device.D16:  gl.DEPTH_COMPONENT16,

	device.S8:  gl.STENCIL_INDEX8,
	device.S16: gl.STENCIL_INDEX16,
}

func internalFormat(f device.Format) uint32 {
	return internalFormats[f]
}

func pixelFormat(p device.PixelFormat) uint32 {
	switch p {
	case device.PixelRed:
		return gl.RED
	case device.PixelRG:
		return gl.RG
	case device.PixelRGB:
		return gl.RGB
	case device.PixelRedInteger:
		return gl.RED_INTEGER
	case device.PixelRGInteger:
		return gl.RG_INTEGER
	case device.PixelRGBInteger:
		return gl.RGB_INTEGER
	case device.PixelRGBAInteger:
		return gl.RGBA_INTEGER
	case device.PixelDepth:
		return gl.DEPTH_COMPONENT
	case device.PixelStencil:
		return gl.STENCIL_INDEX
	case device.PixelDepthStencil:
		return gl.DEPTH_STENCIL
	default:
		return gl.RGBA
	}
}

func pixelType(t device.PixelType) uint32 {
	switch t {
	case device.I8:
		return gl.BYTE
	case device.I16:
		return gl.SHORT
	case device.U16:
		return gl.UNSIGNED_SHORT
	case device.I32:
		return gl.INT
	case device.U32:
		return gl.UNSIGNED_INT
	case device.F32:
		return gl.FLOAT
	case device.U24S8:
		return gl.UNSIGNED_INT_24_8
	case device.F32U24S8:
		return gl.FLOAT_32_UNSIGNED_INT_24_8_REV
	default:
		return gl.UNSIGNED_BYTE
	}
}
