// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opengl implements device.Device on top of an OpenGL 4.6 core
// context. The context must be current on the calling OS thread.
package opengl

import (
	"errors"
	"strings"
	"unsafe"

	"github.com/devblok/korufx/device"
	"github.com/go-gl/gl/v4.6-core/gl"
	log "github.com/sirupsen/logrus"
)

// ProcAddressFunc resolves GL entry points, such as sdl.GLGetProcAddress.
type ProcAddressFunc func(name string) unsafe.Pointer

// Configuration controls backend initialisation.
type Configuration struct {
	// DebugOutput routes driver debug messages to the logger.
	DebugOutput bool
}

// New loads GL entry points for the current context and returns a Device.
// With a nil getProcAddress the default platform loader is used.
func New(getProcAddress ProcAddressFunc, cfg Configuration) (*Device, error) {
	var err error
	if getProcAddress == nil {
		err = gl.Init()
	} else {
		err = gl.InitWithProcAddrFunc(getProcAddress)
	}
	if err != nil {
		return nil, errors.New("gl.Init(): " + err.Error())
	}

	d := &Device{}
	d.info = d.queryInfo()
	log.WithFields(log.Fields{
		"vendor":   d.info.Vendor,
		"renderer": d.info.Renderer,
		"version":  d.info.Version,
	}).Info("OpenGL context ready")

	if cfg.DebugOutput {
		enableDebugOutput()
	}
	return d, nil
}

// Device is the OpenGL implementation of device.Device.
type Device struct {
	info device.Info
}

var _ device.Device = (*Device)(nil)

func (d *Device) queryInfo() device.Info {
	info := device.Info{
		Vendor:          gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer:        gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:         gl.GoStr(gl.GetString(gl.VERSION)),
		ShadingLanguage: gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),

		MaxColorAttachments:  integer(gl.MAX_COLOR_ATTACHMENTS),
		MaxTextureImageUnits: integer(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS),
		MaxImageUnits:        integer(gl.MAX_IMAGE_UNITS),
		MaxTextureSize:       integer(gl.MAX_TEXTURE_SIZE),
	}
	for i := range info.MaxComputeWorkGroupCount {
		var v int32
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, uint32(i), &v)
		info.MaxComputeWorkGroupCount[i] = int(v)
	}
	return info
}

func integer(pname uint32) int {
	var v int32
	gl.GetIntegerv(pname, &v)
	return int(v)
}

func enableDebugOutput() {
	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(func(source, gltype, id, severity uint32, length int32, message string, userParam unsafe.Pointer) {
		entry := log.WithFields(log.Fields{"id": id, "source": source, "type": gltype})
		message = strings.TrimSpace(message)
		switch severity {
		case gl.DEBUG_SEVERITY_HIGH:
			entry.Error(message)
		case gl.DEBUG_SEVERITY_MEDIUM:
			entry.Warn(message)
		case gl.DEBUG_SEVERITY_LOW:
			entry.Info(message)
		default:
			entry.Debug(message)
		}
	}, nil)
	gl.DebugMessageControl(gl.DONT_CARE, gl.DONT_CARE, gl.DEBUG_SEVERITY_NOTIFICATION, 0, nil, false)
}

// Info implements interface
func (d *Device) Info() device.Info {
	return d.info
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// CreateBuffer implements interface
func (d *Device) CreateBuffer() device.Buffer {
	var b uint32
	gl.CreateBuffers(1, &b)
	return device.Buffer(b)
}

// BufferData implements interface
func (d *Device) BufferData(b device.Buffer, size int, data []byte, usage device.BufferUsage) {
	gl.NamedBufferData(uint32(b), size, ptr(data), bufferUsage(usage))
}

// BufferSubData implements interface
func (d *Device) BufferSubData(b device.Buffer, offset int, data []byte) {
	gl.NamedBufferSubData(uint32(b), offset, len(data), ptr(data))
}

// BindBuffer implements interface
func (d *Device) BindBuffer(target device.BufferTarget, b device.Buffer) {
	gl.BindBuffer(bufferTarget(target), uint32(b))
}

// DeleteBuffer implements interface
func (d *Device) DeleteBuffer(b device.Buffer) {
	h := uint32(b)
	gl.DeleteBuffers(1, &h)
}

// CreateVertexArray implements interface
func (d *Device) CreateVertexArray() device.VertexArray {
	var a uint32
	gl.CreateVertexArrays(1, &a)
	return device.VertexArray(a)
}

// BindVertexArray implements interface
func (d *Device) BindVertexArray(a device.VertexArray) {
	gl.BindVertexArray(uint32(a))
}

// VertexArrayAttribFormat implements interface
func (d *Device) VertexArrayAttribFormat(a device.VertexArray, attrib uint32, size int, typ device.DataType, normalized bool, offset uint32) {
	switch typ {
	case device.Int, device.UnsignedInt:
		gl.VertexArrayAttribIFormat(uint32(a), attrib, int32(size), dataType(typ), offset)
	default:
		gl.VertexArrayAttribFormat(uint32(a), attrib, int32(size), dataType(typ), normalized, offset)
	}
}

// VertexArrayAttribBinding implements interface
func (d *Device) VertexArrayAttribBinding(a device.VertexArray, attrib, binding uint32) {
	gl.VertexArrayAttribBinding(uint32(a), attrib, binding)
}

// EnableVertexArrayAttrib implements interface
func (d *Device) EnableVertexArrayAttrib(a device.VertexArray, attrib uint32) {
	gl.EnableVertexArrayAttrib(uint32(a), attrib)
}

// VertexArrayVertexBuffer implements interface
func (d *Device) VertexArrayVertexBuffer(a device.VertexArray, binding uint32, b device.Buffer, offset, stride int) {
	gl.VertexArrayVertexBuffer(uint32(a), binding, uint32(b), offset, int32(stride))
}

// VertexArrayElementBuffer implements interface
func (d *Device) VertexArrayElementBuffer(a device.VertexArray, b device.Buffer) {
	gl.VertexArrayElementBuffer(uint32(a), uint32(b))
}

// DeleteVertexArray implements interface
func (d *Device) DeleteVertexArray(a device.VertexArray) {
	h := uint32(a)
	gl.DeleteVertexArrays(1, &h)
}

// CreateShader implements interface
func (d *Device) CreateShader(stage device.ShaderStage) device.Shader {
	return device.Shader(gl.CreateShader(shaderStage(stage)))
}

// ShaderSource implements interface
func (d *Device) ShaderSource(s device.Shader, source string) {
	csources, free := gl.Strs(source + "\x00")
	defer free()
	gl.ShaderSource(uint32(s), 1, csources, nil)
}

// CompileShader implements interface
func (d *Device) CompileShader(s device.Shader) {
	gl.CompileShader(uint32(s))
}

// ShaderCompiled implements interface
func (d *Device) ShaderCompiled(s device.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

// ShaderInfoLog implements interface
func (d *Device) ShaderInfoLog(s device.Shader) string {
	var length int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gl.GetShaderInfoLog(uint32(s), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

// DeleteShader implements interface
func (d *Device) DeleteShader(s device.Shader) {
	gl.DeleteShader(uint32(s))
}

// CreateProgram implements interface
func (d *Device) CreateProgram() device.Program {
	return device.Program(gl.CreateProgram())
}

// AttachShader implements interface
func (d *Device) AttachShader(p device.Program, s device.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

// LinkProgram implements interface
func (d *Device) LinkProgram(p device.Program) {
	gl.LinkProgram(uint32(p))
}

// ProgramLinked implements interface
func (d *Device) ProgramLinked(p device.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

// ProgramInfoLog implements interface
func (d *Device) ProgramInfoLog(p device.Program) string {
	var length int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	buf := make([]byte, length+1)
	gl.GetProgramInfoLog(uint32(p), length, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00")
}

// UseProgram implements interface
func (d *Device) UseProgram(p device.Program) {
	gl.UseProgram(uint32(p))
}

// UniformLocation implements interface
func (d *Device) UniformLocation(p device.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

// Uniform1i implements interface
func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

// Uniform1f implements interface
func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

// Uniform2f implements interface
func (d *Device) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}

// Uniform3f implements interface
func (d *Device) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

// UniformMatrix4f implements interface
func (d *Device) UniformMatrix4f(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// DeleteProgram implements interface
func (d *Device) DeleteProgram(p device.Program) {
	gl.DeleteProgram(uint32(p))
}

// DispatchCompute implements interface
func (d *Device) DispatchCompute(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

// MemoryBarrier implements interface
func (d *Device) MemoryBarrier(barriers device.Barrier) {
	gl.MemoryBarrier(barrierBits(barriers))
}

// CreateTexture implements interface
func (d *Device) CreateTexture(typ device.TextureType) device.Texture {
	var t uint32
	gl.CreateTextures(textureType(typ), 1, &t)
	return device.Texture(t)
}

// TexImage2D implements interface
func (d *Device) TexImage2D(t device.Texture, typ device.TextureType, width, height int, format device.Format, pixels device.PixelFormat, ptype device.PixelType, data []byte) {
	target := textureType(typ)
	gl.BindTexture(target, uint32(t))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(target, 0, int32(internalFormat(format)), int32(width), int32(height), 0, pixelFormat(pixels), pixelType(ptype), ptr(data))
}

// TexParameter implements interface
func (d *Device) TexParameter(t device.Texture, param device.TextureParameter, value int32) {
	gl.TextureParameteri(uint32(t), textureParameter(param), textureParameterValue(value))
}

// BindTexture implements interface
func (d *Device) BindTexture(typ device.TextureType, t device.Texture) {
	gl.BindTexture(textureType(typ), uint32(t))
}

// BindTextureUnit implements interface
func (d *Device) BindTextureUnit(unit uint32, t device.Texture) {
	gl.BindTextureUnit(unit, uint32(t))
}

// BindImageTexture implements interface
func (d *Device) BindImageTexture(unit uint32, t device.Texture, access device.Access, format device.Format) {
	gl.BindImageTexture(unit, uint32(t), 0, false, 0, imageAccess(access), internalFormat(format))
}

// DeleteTexture implements interface
func (d *Device) DeleteTexture(t device.Texture) {
	h := uint32(t)
	gl.DeleteTextures(1, &h)
}

// CreateRenderbuffer implements interface
func (d *Device) CreateRenderbuffer() device.Renderbuffer {
	var r uint32
	gl.CreateRenderbuffers(1, &r)
	return device.Renderbuffer(r)
}

// RenderbufferStorage implements interface
func (d *Device) RenderbufferStorage(r device.Renderbuffer, format device.Format, width, height int) {
	gl.NamedRenderbufferStorage(uint32(r), internalFormat(format), int32(width), int32(height))
}

// DeleteRenderbuffer implements interface
func (d *Device) DeleteRenderbuffer(r device.Renderbuffer) {
	h := uint32(r)
	gl.DeleteRenderbuffers(1, &h)
}

// CreateFramebuffer implements interface
func (d *Device) CreateFramebuffer() device.Framebuffer {
	var f uint32
	gl.CreateFramebuffers(1, &f)
	return device.Framebuffer(f)
}

// FramebufferTexture implements interface
func (d *Device) FramebufferTexture(f device.Framebuffer, point device.Attachment, t device.Texture, level int) {
	gl.NamedFramebufferTexture(uint32(f), attachment(point), uint32(t), int32(level))
}

// FramebufferRenderbuffer implements interface
func (d *Device) FramebufferRenderbuffer(f device.Framebuffer, point device.Attachment, r device.Renderbuffer) {
	gl.NamedFramebufferRenderbuffer(uint32(f), attachment(point), gl.RENDERBUFFER, uint32(r))
}

// FramebufferDrawBuffers implements interface
func (d *Device) FramebufferDrawBuffers(f device.Framebuffer, points []device.Attachment) {
	if len(points) == 0 {
		gl.NamedFramebufferDrawBuffer(uint32(f), gl.NONE)
		return
	}
	bufs := make([]uint32, len(points))
	for i, p := range points {
		bufs[i] = attachment(p)
	}
	gl.NamedFramebufferDrawBuffers(uint32(f), int32(len(bufs)), &bufs[0])
}

// CheckFramebufferStatus implements interface
func (d *Device) CheckFramebufferStatus(f device.Framebuffer) device.FramebufferStatus {
	return framebufferStatus(gl.CheckNamedFramebufferStatus(uint32(f), gl.FRAMEBUFFER))
}

// BindFramebuffer implements interface
func (d *Device) BindFramebuffer(f device.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(f))
}

// DeleteFramebuffer implements interface
func (d *Device) DeleteFramebuffer(f device.Framebuffer) {
	h := uint32(f)
	gl.DeleteFramebuffers(1, &h)
}

// Viewport implements interface
func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ClearColor implements interface
func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// Clear implements interface
func (d *Device) Clear(mask device.ClearMask) {
	var bits uint32
	if mask&device.ColorBufferBit != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&device.DepthBufferBit != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&device.StencilBufferBit != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

// SetDepthTest implements interface
func (d *Device) SetDepthTest(enable bool) {
	if enable {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
}

// DrawArrays implements interface
func (d *Device) DrawArrays(mode device.DrawMode, first, count int) {
	gl.DrawArrays(drawMode(mode), int32(first), int32(count))
}
