// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package devicetest provides an in-memory device.Device for tests.
// It allocates handles, keeps count of live objects, records draws and
// dispatches together with the bindings they were issued under, and
// emulates shader compilation and program linking closely enough to
// produce driver-style diagnostics for malformed sources.
package devicetest

import (
	"fmt"
	"sort"

	"github.com/devblok/korufx/device"
)

// Shader is the recorded state of a shader object.
type Shader struct {
	Stage    device.ShaderStage
	Source   string
	Compiled bool
	Log      string
}

// Program is the recorded state of a program object.
type Program struct {
	Shaders  []device.Shader
	Linked   bool
	Log      string
	Uniforms map[int32]interface{}

	sources   map[device.ShaderStage]string
	locations map[string]int32
}

// Uniform returns the last value set for the named uniform.
func (p *Program) Uniform(name string) (interface{}, bool) {
	loc, ok := p.locations[name]
	if !ok {
		return nil, false
	}
	v, ok := p.Uniforms[loc]
	return v, ok
}

// Buffer is the recorded state of a buffer object.
type Buffer struct {
	Size  int
	Data  []byte
	Usage device.BufferUsage
}

// VertexArray is the recorded state of a vertex array object.
type VertexArray struct {
	Attributes map[uint32]Attribute
	Bindings   map[uint32]VertexBinding
	Elements   device.Buffer
}

// Attribute is one vertex attribute of a vertex array.
type Attribute struct {
	Size       int
	Type       device.DataType
	Normalized bool
	Offset     uint32
	Binding    uint32
	Enabled    bool
}

// VertexBinding is a vertex buffer binding of a vertex array.
type VertexBinding struct {
	Buffer device.Buffer
	Offset int
	Stride int
}

// Texture is the recorded state of a texture object.
type Texture struct {
	Type   device.TextureType
	Width  int
	Height int
	Format device.Format
	Pixels device.PixelFormat
	PType  device.PixelType
	Data   []byte
	Params map[device.TextureParameter]int32
}

// Renderbuffer is the recorded state of a renderbuffer object.
type Renderbuffer struct {
	Width  int
	Height int
	Format device.Format
}

// Framebuffer is the recorded state of a framebuffer object.
type Framebuffer struct {
	Textures      map[device.Attachment]device.Texture
	Renderbuffers map[device.Attachment]device.Renderbuffer
	DrawBuffers   []device.Attachment
}

// ImageBinding is a texture bound to an image unit.
type ImageBinding struct {
	Texture device.Texture
	Access  device.Access
	Format  device.Format
}

// State is the current binding state of the context.
type State struct {
	Framebuffer  device.Framebuffer
	Program      device.Program
	VertexArray  device.VertexArray
	Viewport     [4]int
	ClearColor   [4]float32
	DepthTest    bool
	Buffers      map[device.BufferTarget]device.Buffer
	TextureUnits map[uint32]device.Texture
	ImageUnits   map[uint32]ImageBinding
}

// Draw is a recorded draw call.
type Draw struct {
	Mode         device.DrawMode
	First        int
	Count        int
	Framebuffer  device.Framebuffer
	Program      device.Program
	VertexArray  device.VertexArray
	Viewport     [4]int
	TextureUnits map[uint32]device.Texture
}

// Dispatch is a recorded compute dispatch.
type Dispatch struct {
	X, Y, Z      uint32
	Program      device.Program
	TextureUnits map[uint32]device.Texture
	ImageUnits   map[uint32]ImageBinding
}

// Clear is a recorded clear call.
type Clear struct {
	Framebuffer device.Framebuffer
	Mask        device.ClearMask
	Color       [4]float32
}

// Counts is the number of live objects per kind.
type Counts struct {
	Buffers       int
	VertexArrays  int
	Shaders       int
	Programs      int
	Textures      int
	Renderbuffers int
	Framebuffers  int
}

// Total returns the number of live objects of all kinds.
func (c Counts) Total() int {
	return c.Buffers + c.VertexArrays + c.Shaders + c.Programs + c.Textures + c.Renderbuffers + c.Framebuffers
}

// Device is an in-memory device.Device. The zero value is not usable,
// create one with New.
type Device struct {
	device.Device

	info        device.Info
	next        uint32
	allocations int

	buffers       map[device.Buffer]*Buffer
	vertexArrays  map[device.VertexArray]*VertexArray
	shaders       map[device.Shader]*Shader
	programs      map[device.Program]*Program
	textures      map[device.Texture]*Texture
	renderbuffers map[device.Renderbuffer]*Renderbuffer
	framebuffers  map[device.Framebuffer]*Framebuffer

	// State is the current binding state
	State State

	Draws      []Draw
	Dispatches []Dispatch
	Barriers   []device.Barrier
	Clears     []Clear

	// Errors collects invalid operations, the equivalent of glGetError
	Errors []string
}

// DefaultInfo is the driver description reported by New.
var DefaultInfo = device.Info{
	Vendor:                   "korufx",
	Renderer:                 "devicetest",
	Version:                  "4.6.0 devicetest",
	ShadingLanguage:          "4.60",
	MaxColorAttachments:      8,
	MaxTextureImageUnits:     32,
	MaxImageUnits:            8,
	MaxTextureSize:           16384,
	MaxComputeWorkGroupCount: [3]int{65535, 65535, 65535},
}

// New creates an empty Device.
func New() *Device {
	return &Device{
		info:          DefaultInfo,
		buffers:       make(map[device.Buffer]*Buffer),
		vertexArrays:  make(map[device.VertexArray]*VertexArray),
		shaders:       make(map[device.Shader]*Shader),
		programs:      make(map[device.Program]*Program),
		textures:      make(map[device.Texture]*Texture),
		renderbuffers: make(map[device.Renderbuffer]*Renderbuffer),
		framebuffers:  make(map[device.Framebuffer]*Framebuffer),
		State: State{
			Buffers:      make(map[device.BufferTarget]device.Buffer),
			TextureUnits: make(map[uint32]device.Texture),
			ImageUnits:   make(map[uint32]ImageBinding),
		},
	}
}

// Live returns the number of objects that were created and not deleted.
func (d *Device) Live() Counts {
	return Counts{
		Buffers:       len(d.buffers),
		VertexArrays:  len(d.vertexArrays),
		Shaders:       len(d.shaders),
		Programs:      len(d.programs),
		Textures:      len(d.textures),
		Renderbuffers: len(d.renderbuffers),
		Framebuffers:  len(d.framebuffers),
	}
}

// Allocations returns the number of objects ever created.
func (d *Device) Allocations() int {
	return d.allocations
}

// Reset forgets recorded draws, dispatches, barriers, clears and errors.
func (d *Device) Reset() {
	d.Draws = nil
	d.Dispatches = nil
	d.Barriers = nil
	d.Clears = nil
	d.Errors = nil
}

// Buffer returns the state of a live buffer.
func (d *Device) Buffer(b device.Buffer) (*Buffer, bool) {
	v, ok := d.buffers[b]
	return v, ok
}

// VertexArray returns the state of a live vertex array.
func (d *Device) VertexArray(a device.VertexArray) (*VertexArray, bool) {
	v, ok := d.vertexArrays[a]
	return v, ok
}

// Shader returns the state of a live shader.
func (d *Device) Shader(s device.Shader) (*Shader, bool) {
	v, ok := d.shaders[s]
	return v, ok
}

// Program returns the state of a live program.
func (d *Device) Program(p device.Program) (*Program, bool) {
	v, ok := d.programs[p]
	return v, ok
}

// Texture returns the state of a live texture.
func (d *Device) Texture(t device.Texture) (*Texture, bool) {
	v, ok := d.textures[t]
	return v, ok
}

// Renderbuffer returns the state of a live renderbuffer.
func (d *Device) Renderbuffer(r device.Renderbuffer) (*Renderbuffer, bool) {
	v, ok := d.renderbuffers[r]
	return v, ok
}

// Framebuffer returns the state of a live framebuffer.
func (d *Device) Framebuffer(f device.Framebuffer) (*Framebuffer, bool) {
	v, ok := d.framebuffers[f]
	return v, ok
}

func (d *Device) handle() uint32 {
	d.next++
	d.allocations++
	return d.next
}

func (d *Device) errorf(format string, args ...interface{}) {
	d.Errors = append(d.Errors, fmt.Sprintf(format, args...))
}

// Info implements interface
func (d *Device) Info() device.Info {
	return d.info
}

// CreateBuffer implements interface
func (d *Device) CreateBuffer() device.Buffer {
	b := device.Buffer(d.handle())
	d.buffers[b] = &Buffer{}
	return b
}

// BufferData implements interface
func (d *Device) BufferData(b device.Buffer, size int, data []byte, usage device.BufferUsage) {
	buf, ok := d.buffers[b]
	if !ok {
		d.errorf("BufferData: unknown buffer %d", b)
		return
	}
	buf.Size = size
	buf.Usage = usage
	buf.Data = make([]byte, size)
	copy(buf.Data, data)
}

// BufferSubData implements interface
func (d *Device) BufferSubData(b device.Buffer, offset int, data []byte) {
	buf, ok := d.buffers[b]
	if !ok {
		d.errorf("BufferSubData: unknown buffer %d", b)
		return
	}
	if offset < 0 || offset+len(data) > buf.Size {
		d.errorf("BufferSubData: range %d+%d outside buffer of size %d", offset, len(data), buf.Size)
		return
	}
	copy(buf.Data[offset:], data)
}

// BindBuffer implements interface
func (d *Device) BindBuffer(target device.BufferTarget, b device.Buffer) {
	if _, ok := d.buffers[b]; !ok && b != 0 {
		d.errorf("BindBuffer: unknown buffer %d", b)
		return
	}
	d.State.Buffers[target] = b
}

// DeleteBuffer implements interface
func (d *Device) DeleteBuffer(b device.Buffer) {
	if b == 0 {
		return
	}
	if _, ok := d.buffers[b]; !ok {
		d.errorf("DeleteBuffer: unknown buffer %d", b)
		return
	}
	delete(d.buffers, b)
	for target, bound := range d.State.Buffers {
		if bound == b {
			delete(d.State.Buffers, target)
		}
	}
}

// CreateVertexArray implements interface
func (d *Device) CreateVertexArray() device.VertexArray {
	a := device.VertexArray(d.handle())
	d.vertexArrays[a] = &VertexArray{
		Attributes: make(map[uint32]Attribute),
		Bindings:   make(map[uint32]VertexBinding),
	}
	return a
}

// BindVertexArray implements interface
func (d *Device) BindVertexArray(a device.VertexArray) {
	if _, ok := d.vertexArrays[a]; !ok && a != 0 {
		d.errorf("BindVertexArray: unknown vertex array %d", a)
		return
	}
	d.State.VertexArray = a
}

func (d *Device) vertexArray(op string, a device.VertexArray) *VertexArray {
	va, ok := d.vertexArrays[a]
	if !ok {
		d.errorf("%s: unknown vertex array %d", op, a)
	}
	return va
}

// VertexArrayAttribFormat implements interface
func (d *Device) VertexArrayAttribFormat(a device.VertexArray, attrib uint32, size int, typ device.DataType, normalized bool, offset uint32) {
	if va := d.vertexArray("VertexArrayAttribFormat", a); va != nil {
		attr := va.Attributes[attrib]
		attr.Size, attr.Type, attr.Normalized, attr.Offset = size, typ, normalized, offset
		va.Attributes[attrib] = attr
	}
}

// VertexArrayAttribBinding implements interface
func (d *Device) VertexArrayAttribBinding(a device.VertexArray, attrib, binding uint32) {
	if va := d.vertexArray("VertexArrayAttribBinding", a); va != nil {
		attr := va.Attributes[attrib]
		attr.Binding = binding
		va.Attributes[attrib] = attr
	}
}

// EnableVertexArrayAttrib implements interface
func (d *Device) EnableVertexArrayAttrib(a device.VertexArray, attrib uint32) {
	if va := d.vertexArray("EnableVertexArrayAttrib", a); va != nil {
		attr := va.Attributes[attrib]
		attr.Enabled = true
		va.Attributes[attrib] = attr
	}
}

// VertexArrayVertexBuffer implements interface
func (d *Device) VertexArrayVertexBuffer(a device.VertexArray, binding uint32, b device.Buffer, offset, stride int) {
	if va := d.vertexArray("VertexArrayVertexBuffer", a); va != nil {
		if _, ok := d.buffers[b]; !ok {
			d.errorf("VertexArrayVertexBuffer: unknown buffer %d", b)
			return
		}
		va.Bindings[binding] = VertexBinding{Buffer: b, Offset: offset, Stride: stride}
	}
}

// VertexArrayElementBuffer implements interface
func (d *Device) VertexArrayElementBuffer(a device.VertexArray, b device.Buffer) {
	if va := d.vertexArray("VertexArrayElementBuffer", a); va != nil {
		if _, ok := d.buffers[b]; !ok && b != 0 {
			d.errorf("VertexArrayElementBuffer: unknown buffer %d", b)
			return
		}
		va.Elements = b
	}
}

// DeleteVertexArray implements interface
func (d *Device) DeleteVertexArray(a device.VertexArray) {
	if a == 0 {
		return
	}
	if _, ok := d.vertexArrays[a]; !ok {
		d.errorf("DeleteVertexArray: unknown vertex array %d", a)
		return
	}
	delete(d.vertexArrays, a)
	if d.State.VertexArray == a {
		d.State.VertexArray = 0
	}
}

// CreateShader implements interface
func (d *Device) CreateShader(stage device.ShaderStage) device.Shader {
	s := device.Shader(d.handle())
	d.shaders[s] = &Shader{Stage: stage}
	return s
}

// ShaderSource implements interface
func (d *Device) ShaderSource(s device.Shader, source string) {
	if sh, ok := d.shaders[s]; ok {
		sh.Source = source
	} else {
		d.errorf("ShaderSource: unknown shader %d", s)
	}
}

// CompileShader implements interface
func (d *Device) CompileShader(s device.Shader) {
	sh, ok := d.shaders[s]
	if !ok {
		d.errorf("CompileShader: unknown shader %d", s)
		return
	}
	sh.Log = compile(sh.Stage, sh.Source)
	sh.Compiled = sh.Log == ""
}

// ShaderCompiled implements interface
func (d *Device) ShaderCompiled(s device.Shader) bool {
	sh, ok := d.shaders[s]
	return ok && sh.Compiled
}

// ShaderInfoLog implements interface
func (d *Device) ShaderInfoLog(s device.Shader) string {
	if sh, ok := d.shaders[s]; ok {
		return sh.Log
	}
	return ""
}

// DeleteShader implements interface
func (d *Device) DeleteShader(s device.Shader) {
	if s == 0 {
		return
	}
	if _, ok := d.shaders[s]; !ok {
		d.errorf("DeleteShader: unknown shader %d", s)
		return
	}
	delete(d.shaders, s)
}

// CreateProgram implements interface
func (d *Device) CreateProgram() device.Program {
	p := device.Program(d.handle())
	d.programs[p] = &Program{
		Uniforms:  make(map[int32]interface{}),
		locations: make(map[string]int32),
	}
	return p
}

// AttachShader implements interface
func (d *Device) AttachShader(p device.Program, s device.Shader) {
	prog, ok := d.programs[p]
	if !ok {
		d.errorf("AttachShader: unknown program %d", p)
		return
	}
	if _, ok := d.shaders[s]; !ok {
		d.errorf("AttachShader: unknown shader %d", s)
		return
	}
	prog.Shaders = append(prog.Shaders, s)
}

// LinkProgram implements interface
func (d *Device) LinkProgram(p device.Program) {
	prog, ok := d.programs[p]
	if !ok {
		d.errorf("LinkProgram: unknown program %d", p)
		return
	}
	var attached []*Shader
	for _, s := range prog.Shaders {
		if sh, ok := d.shaders[s]; ok {
			attached = append(attached, sh)
		}
	}
	prog.Log = link(attached)
	prog.Linked = prog.Log == ""
	prog.sources = make(map[device.ShaderStage]string)
	prog.locations = make(map[string]int32)
	prog.Uniforms = make(map[int32]interface{})
	if prog.Linked {
		for _, sh := range attached {
			prog.sources[sh.Stage] += sh.Source
		}
	}
}

// ProgramLinked implements interface
func (d *Device) ProgramLinked(p device.Program) bool {
	prog, ok := d.programs[p]
	return ok && prog.Linked
}

// ProgramInfoLog implements interface
func (d *Device) ProgramInfoLog(p device.Program) string {
	if prog, ok := d.programs[p]; ok {
		return prog.Log
	}
	return ""
}

// UseProgram implements interface
func (d *Device) UseProgram(p device.Program) {
	if p != 0 {
		prog, ok := d.programs[p]
		if !ok {
			d.errorf("UseProgram: unknown program %d", p)
			return
		}
		if !prog.Linked {
			d.errorf("UseProgram: program %d is not linked", p)
			return
		}
	}
	d.State.Program = p
}

// UniformLocation implements interface
func (d *Device) UniformLocation(p device.Program, name string) int32 {
	prog, ok := d.programs[p]
	if !ok || !prog.Linked {
		d.errorf("UniformLocation: program %d is not a linked program", p)
		return -1
	}
	if loc, ok := prog.locations[name]; ok {
		return loc
	}
	stages := make([]int, 0, len(prog.sources))
	for stage := range prog.sources {
		stages = append(stages, int(stage))
	}
	sort.Ints(stages)
	for _, stage := range stages {
		if declaresUniform(prog.sources[device.ShaderStage(stage)], name) {
			loc := int32(len(prog.locations))
			prog.locations[name] = loc
			return loc
		}
	}
	return -1
}

func (d *Device) setUniform(op string, location int32, v interface{}) {
	if location == -1 {
		return
	}
	prog, ok := d.programs[d.State.Program]
	if !ok {
		d.errorf("%s: no program in use", op)
		return
	}
	if int(location) >= len(prog.locations) || location < 0 {
		d.errorf("%s: invalid location %d", op, location)
		return
	}
	prog.Uniforms[location] = v
}

// Uniform1i implements interface
func (d *Device) Uniform1i(location int32, v int32) {
	d.setUniform("Uniform1i", location, v)
}

// Uniform1f implements interface
func (d *Device) Uniform1f(location int32, v float32) {
	d.setUniform("Uniform1f", location, v)
}

// Uniform2f implements interface
func (d *Device) Uniform2f(location int32, v0, v1 float32) {
	d.setUniform("Uniform2f", location, [2]float32{v0, v1})
}

// Uniform3f implements interface
func (d *Device) Uniform3f(location int32, v0, v1, v2 float32) {
	d.setUniform("Uniform3f", location, [3]float32{v0, v1, v2})
}

// UniformMatrix4f implements interface
func (d *Device) UniformMatrix4f(location int32, m [16]float32) {
	d.setUniform("UniformMatrix4f", location, m)
}

// DeleteProgram implements interface
func (d *Device) DeleteProgram(p device.Program) {
	if p == 0 {
		return
	}
	if _, ok := d.programs[p]; !ok {
		d.errorf("DeleteProgram: unknown program %d", p)
		return
	}
	delete(d.programs, p)
	if d.State.Program == p {
		d.State.Program = 0
	}
}

// DispatchCompute implements interface
func (d *Device) DispatchCompute(x, y, z uint32) {
	prog, ok := d.programs[d.State.Program]
	if !ok {
		d.errorf("DispatchCompute: no program in use")
		return
	}
	if _, compute := prog.sources[device.ComputeStage]; !compute {
		d.errorf("DispatchCompute: program %d has no compute stage", d.State.Program)
		return
	}
	d.Dispatches = append(d.Dispatches, Dispatch{
		X: x, Y: y, Z: z,
		Program:      d.State.Program,
		TextureUnits: copyUnits(d.State.TextureUnits),
		ImageUnits:   copyImages(d.State.ImageUnits),
	})
}

// MemoryBarrier implements interface
func (d *Device) MemoryBarrier(barriers device.Barrier) {
	d.Barriers = append(d.Barriers, barriers)
}

// CreateTexture implements interface
func (d *Device) CreateTexture(typ device.TextureType) device.Texture {
	t := device.Texture(d.handle())
	d.textures[t] = &Texture{Type: typ, Params: make(map[device.TextureParameter]int32)}
	return t
}

// TexImage2D implements interface
func (d *Device) TexImage2D(t device.Texture, typ device.TextureType, width, height int, format device.Format, pixels device.PixelFormat, ptype device.PixelType, data []byte) {
	tex, ok := d.textures[t]
	if !ok {
		d.errorf("TexImage2D: unknown texture %d", t)
		return
	}
	if tex.Type != typ {
		d.errorf("TexImage2D: texture %d is not bound to this target", t)
		return
	}
	if !format.Valid() {
		d.errorf("TexImage2D: invalid internal format %v", format)
		return
	}
	if width <= 0 || height <= 0 {
		d.errorf("TexImage2D: invalid size %dx%d", width, height)
		return
	}
	tex.Width, tex.Height = width, height
	tex.Format, tex.Pixels, tex.PType = format, pixels, ptype
	tex.Data = append([]byte(nil), data...)
}

// TexParameter implements interface
func (d *Device) TexParameter(t device.Texture, param device.TextureParameter, value int32) {
	tex, ok := d.textures[t]
	if !ok {
		d.errorf("TexParameter: unknown texture %d", t)
		return
	}
	tex.Params[param] = value
}

// BindTexture implements interface
func (d *Device) BindTexture(typ device.TextureType, t device.Texture) {
	if tex, ok := d.textures[t]; t != 0 && (!ok || tex.Type != typ) {
		d.errorf("BindTexture: texture %d cannot be bound to this target", t)
	}
}

// BindTextureUnit implements interface
func (d *Device) BindTextureUnit(unit uint32, t device.Texture) {
	if int(unit) >= d.info.MaxTextureImageUnits {
		d.errorf("BindTextureUnit: unit %d out of range", unit)
		return
	}
	if t == 0 {
		delete(d.State.TextureUnits, unit)
		return
	}
	if _, ok := d.textures[t]; !ok {
		d.errorf("BindTextureUnit: unknown texture %d", t)
		return
	}
	d.State.TextureUnits[unit] = t
}

// BindImageTexture implements interface
func (d *Device) BindImageTexture(unit uint32, t device.Texture, access device.Access, format device.Format) {
	if int(unit) >= d.info.MaxImageUnits {
		d.errorf("BindImageTexture: unit %d out of range", unit)
		return
	}
	if t == 0 {
		delete(d.State.ImageUnits, unit)
		return
	}
	tex, ok := d.textures[t]
	if !ok {
		d.errorf("BindImageTexture: unknown texture %d", t)
		return
	}
	if tex.Width == 0 {
		d.errorf("BindImageTexture: texture %d has no storage", t)
		return
	}
	d.State.ImageUnits[unit] = ImageBinding{Texture: t, Access: access, Format: format}
}

// DeleteTexture implements interface
func (d *Device) DeleteTexture(t device.Texture) {
	if t == 0 {
		return
	}
	if _, ok := d.textures[t]; !ok {
		d.errorf("DeleteTexture: unknown texture %d", t)
		return
	}
	delete(d.textures, t)
	for unit, bound := range d.State.TextureUnits {
		if bound == t {
			delete(d.State.TextureUnits, unit)
		}
	}
	for unit, bound := range d.State.ImageUnits {
		if bound.Texture == t {
			delete(d.State.ImageUnits, unit)
		}
	}
	for _, fb := range d.framebuffers {
		for point, attached := range fb.Textures {
			if attached == t {
				delete(fb.Textures, point)
			}
		}
	}
}

// CreateRenderbuffer implements interface
func (d *Device) CreateRenderbuffer() device.Renderbuffer {
	r := device.Renderbuffer(d.handle())
	d.renderbuffers[r] = &Renderbuffer{}
	return r
}

// RenderbufferStorage implements interface
func (d *Device) RenderbufferStorage(r device.Renderbuffer, format device.Format, width, height int) {
	rb, ok := d.renderbuffers[r]
	if !ok {
		d.errorf("RenderbufferStorage: unknown renderbuffer %d", r)
		return
	}
	if !format.Valid() || width <= 0 || height <= 0 {
		d.errorf("RenderbufferStorage: invalid storage %v %dx%d", format, width, height)
		return
	}
	rb.Width, rb.Height, rb.Format = width, height, format
}

// DeleteRenderbuffer implements interface
func (d *Device) DeleteRenderbuffer(r device.Renderbuffer) {
	if r == 0 {
		return
	}
	if _, ok := d.renderbuffers[r]; !ok {
		d.errorf("DeleteRenderbuffer: unknown renderbuffer %d", r)
		return
	}
	delete(d.renderbuffers, r)
	for _, fb := range d.framebuffers {
		for point, attached := range fb.Renderbuffers {
			if attached == r {
				delete(fb.Renderbuffers, point)
			}
		}
	}
}

// CreateFramebuffer implements interface
func (d *Device) CreateFramebuffer() device.Framebuffer {
	f := device.Framebuffer(d.handle())
	d.framebuffers[f] = &Framebuffer{
		Textures:      make(map[device.Attachment]device.Texture),
		Renderbuffers: make(map[device.Attachment]device.Renderbuffer),
		DrawBuffers:   []device.Attachment{device.Color0},
	}
	return f
}

func (d *Device) framebuffer(op string, f device.Framebuffer) *Framebuffer {
	fb, ok := d.framebuffers[f]
	if !ok {
		d.errorf("%s: unknown framebuffer %d", op, f)
	}
	return fb
}

// FramebufferTexture implements interface
func (d *Device) FramebufferTexture(f device.Framebuffer, point device.Attachment, t device.Texture, level int) {
	fb := d.framebuffer("FramebufferTexture", f)
	if fb == nil {
		return
	}
	delete(fb.Renderbuffers, point)
	if t == 0 {
		delete(fb.Textures, point)
		return
	}
	if _, ok := d.textures[t]; !ok {
		d.errorf("FramebufferTexture: unknown texture %d", t)
		return
	}
	fb.Textures[point] = t
}

// FramebufferRenderbuffer implements interface
func (d *Device) FramebufferRenderbuffer(f device.Framebuffer, point device.Attachment, r device.Renderbuffer) {
	fb := d.framebuffer("FramebufferRenderbuffer", f)
	if fb == nil {
		return
	}
	delete(fb.Textures, point)
	if r == 0 {
		delete(fb.Renderbuffers, point)
		return
	}
	if _, ok := d.renderbuffers[r]; !ok {
		d.errorf("FramebufferRenderbuffer: unknown renderbuffer %d", r)
		return
	}
	fb.Renderbuffers[point] = r
}

// FramebufferDrawBuffers implements interface
func (d *Device) FramebufferDrawBuffers(f device.Framebuffer, points []device.Attachment) {
	if fb := d.framebuffer("FramebufferDrawBuffers", f); fb != nil {
		fb.DrawBuffers = append([]device.Attachment(nil), points...)
	}
}

// CheckFramebufferStatus implements interface
func (d *Device) CheckFramebufferStatus(f device.Framebuffer) device.FramebufferStatus {
	if f == device.DefaultFramebuffer {
		return device.FramebufferComplete
	}
	fb := d.framebuffer("CheckFramebufferStatus", f)
	if fb == nil {
		return device.FramebufferUndefined
	}
	if len(fb.Textures)+len(fb.Renderbuffers) == 0 {
		return device.FramebufferIncompleteMissingAttachment
	}
	for _, t := range fb.Textures {
		if d.textures[t].Width == 0 {
			return device.FramebufferIncompleteAttachment
		}
	}
	for _, r := range fb.Renderbuffers {
		if d.renderbuffers[r].Width == 0 {
			return device.FramebufferIncompleteAttachment
		}
	}
	for _, point := range fb.DrawBuffers {
		_, tex := fb.Textures[point]
		_, rb := fb.Renderbuffers[point]
		if !tex && !rb {
			return device.FramebufferIncompleteDrawBuffer
		}
	}
	return device.FramebufferComplete
}

// BindFramebuffer implements interface
func (d *Device) BindFramebuffer(f device.Framebuffer) {
	if _, ok := d.framebuffers[f]; !ok && f != device.DefaultFramebuffer {
		d.errorf("BindFramebuffer: unknown framebuffer %d", f)
		return
	}
	d.State.Framebuffer = f
}

// DeleteFramebuffer implements interface
func (d *Device) DeleteFramebuffer(f device.Framebuffer) {
	if f == device.DefaultFramebuffer {
		return
	}
	if _, ok := d.framebuffers[f]; !ok {
		d.errorf("DeleteFramebuffer: unknown framebuffer %d", f)
		return
	}
	delete(d.framebuffers, f)
	if d.State.Framebuffer == f {
		d.State.Framebuffer = device.DefaultFramebuffer
	}
}

// Viewport implements interface
func (d *Device) Viewport(x, y, width, height int) {
	d.State.Viewport = [4]int{x, y, width, height}
}

// ClearColor implements interface
func (d *Device) ClearColor(r, g, b, a float32) {
	d.State.ClearColor = [4]float32{r, g, b, a}
}

// Clear implements interface
func (d *Device) Clear(mask device.ClearMask) {
	d.Clears = append(d.Clears, Clear{
		Framebuffer: d.State.Framebuffer,
		Mask:        mask,
		Color:       d.State.ClearColor,
	})
}

// SetDepthTest implements interface
func (d *Device) SetDepthTest(enable bool) {
	d.State.DepthTest = enable
}

// DrawArrays implements interface
func (d *Device) DrawArrays(mode device.DrawMode, first, count int) {
	if _, ok := d.programs[d.State.Program]; !ok {
		d.errorf("DrawArrays: no program in use")
		return
	}
	if d.State.VertexArray == 0 {
		d.errorf("DrawArrays: no vertex array bound")
		return
	}
	if status := d.CheckFramebufferStatus(d.State.Framebuffer); status != device.FramebufferComplete {
		d.errorf("DrawArrays: framebuffer %d is %v", d.State.Framebuffer, status)
		return
	}
	d.Draws = append(d.Draws, Draw{
		Mode:         mode,
		First:        first,
		Count:        count,
		Framebuffer:  d.State.Framebuffer,
		Program:      d.State.Program,
		VertexArray:  d.State.VertexArray,
		Viewport:     d.State.Viewport,
		TextureUnits: copyUnits(d.State.TextureUnits),
	})
}

func copyUnits(units map[uint32]device.Texture) map[uint32]device.Texture {
	c := make(map[uint32]device.Texture, len(units))
	for k, v := range units {
		c[k] = v
	}
	return c
}

func copyImages(units map[uint32]ImageBinding) map[uint32]ImageBinding {
	c := make(map[uint32]ImageBinding, len(units))
	for k, v := range units {
		c[k] = v
	}
	return c
}
