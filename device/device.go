// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device defines the immediate-mode GPU command API that the
// render layer issues its work against. Every call is assumed to be made
// on the goroutine that owns the current GPU context, in call order.
package device

// Opaque object handles allocated by the driver. The zero value of each
// handle type means "no object".
type (
	Buffer       uint32
	VertexArray  uint32
	Shader       uint32
	Program      uint32
	Texture      uint32
	Renderbuffer uint32
	Framebuffer  uint32
)

// DefaultFramebuffer is the framebuffer provided by the window system.
const DefaultFramebuffer Framebuffer = 0

// Info describes the driver behind a Device.
type Info struct {
	Vendor          string
	Renderer        string
	Version         string
	ShadingLanguage string

	MaxColorAttachments      int
	MaxTextureImageUnits     int
	MaxImageUnits            int
	MaxTextureSize           int
	MaxComputeWorkGroupCount [3]int
}

// Device describes the GPU command context. Implementations are not safe
// for concurrent use.
type Device interface {
	// Info returns driver strings and limits
	Info() Info

	CreateBuffer() Buffer
	BufferData(b Buffer, size int, data []byte, usage BufferUsage)
	BufferSubData(b Buffer, offset int, data []byte)
	BindBuffer(target BufferTarget, b Buffer)
	DeleteBuffer(b Buffer)

	CreateVertexArray() VertexArray
	BindVertexArray(a VertexArray)
	VertexArrayAttribFormat(a VertexArray, attrib uint32, size int, typ DataType, normalized bool, offset uint32)
	VertexArrayAttribBinding(a VertexArray, attrib, binding uint32)
	EnableVertexArrayAttrib(a VertexArray, attrib uint32)
	VertexArrayVertexBuffer(a VertexArray, binding uint32, b Buffer, offset, stride int)
	VertexArrayElementBuffer(a VertexArray, b Buffer)
	DeleteVertexArray(a VertexArray)

	CreateShader(stage ShaderStage) Shader
	ShaderSource(s Shader, source string)
	CompileShader(s Shader)
	ShaderCompiled(s Shader) bool
	ShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	ProgramLinked(p Program) bool
	ProgramInfoLog(p Program) string
	UseProgram(p Program)
	UniformLocation(p Program, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4f(location int32, m [16]float32)
	DeleteProgram(p Program)

	DispatchCompute(x, y, z uint32)
	MemoryBarrier(barriers Barrier)

	CreateTexture(typ TextureType) Texture
	TexImage2D(t Texture, typ TextureType, width, height int, format Format, pixels PixelFormat, ptype PixelType, data []byte)
	TexParameter(t Texture, param TextureParameter, value int32)
	BindTexture(typ TextureType, t Texture)
	BindTextureUnit(unit uint32, t Texture)
	BindImageTexture(unit uint32, t Texture, access Access, format Format)
	DeleteTexture(t Texture)

	CreateRenderbuffer() Renderbuffer
	RenderbufferStorage(r Renderbuffer, format Format, width, height int)
	DeleteRenderbuffer(r Renderbuffer)

	CreateFramebuffer() Framebuffer
	FramebufferTexture(f Framebuffer, point Attachment, t Texture, level int)
	FramebufferRenderbuffer(f Framebuffer, point Attachment, r Renderbuffer)
	FramebufferDrawBuffers(f Framebuffer, points []Attachment)
	CheckFramebufferStatus(f Framebuffer) FramebufferStatus
	BindFramebuffer(f Framebuffer)
	DeleteFramebuffer(f Framebuffer)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	SetDepthTest(enable bool)
	DrawArrays(mode DrawMode, first, count int)
}
