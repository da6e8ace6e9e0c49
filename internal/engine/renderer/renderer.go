// Package renderer draws voxel instances with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelforge/internal/engine/scene"
	"github.com/Faultbox/voxelforge/internal/engine/shader"
	"github.com/Faultbox/voxelforge/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

const (
	floatSize = 4
	// Per-instance layout: mat4 model followed by vec3 color.
	instanceFloats = 16 + 3
	instanceStride = instanceFloats * floatSize
)

// Renderer draws lit, instanced unit cubes.
type Renderer struct {
	config Config

	program *shader.Program

	cubeVAO     uint32
	cubeVBO     uint32
	instanceVBO uint32
	vertexCount int32

	instanceCap int
	staging     []float32
}

// New creates a new renderer.
// Must be called after the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{config: cfg}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(0.09, 0.10, 0.13, 1.0)

	var err error
	r.program, err = shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	r.createBuffers()
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

func (r *Renderer) createBuffers() {
	vertices := cubeVertices()
	r.vertexCount = int32(len(vertices) / 6)

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position and normal.
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*floatSize, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*floatSize, 3*floatSize)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &r.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)

	// Model matrix columns at locations 2..5, color at 6.
	for col := uint32(0); col < 4; col++ {
		loc := 2 + col
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, instanceStride, uintptr(col*4*floatSize))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}
	gl.VertexAttribPointerWithOffset(6, 3, gl.FLOAT, false, instanceStride, 16*floatSize)
	gl.EnableVertexAttribArray(6)
	gl.VertexAttribDivisor(6, 1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("cube buffers created",
		zap.Uint32("vao", r.cubeVAO),
		zap.Int32("vertices", r.vertexCount),
	)
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
	}
	if r.cubeVBO != 0 {
		gl.DeleteBuffers(1, &r.cubeVBO)
	}
	if r.instanceVBO != 0 {
		gl.DeleteBuffers(1, &r.instanceVBO)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders instances with the given camera.
func (r *Renderer) Draw(view, projection mgl32.Mat4, eye mgl32.Vec3, instances []scene.Instance) {
	if len(instances) == 0 {
		return
	}
	r.upload(instances)

	r.program.Use()
	r.program.SetMat4("uView", view)
	r.program.SetMat4("uProjection", projection)
	r.program.SetVec3("uEye", eye)
	r.program.SetVec3("uLightDir", mgl32.Vec3{-0.4, -1, -0.3}.Normalize())

	gl.BindVertexArray(r.cubeVAO)
	gl.DrawArraysInstanced(gl.TRIANGLES, 0, r.vertexCount, int32(len(instances)))
	gl.BindVertexArray(0)
}

// upload copies instance data into the instance buffer, growing it as needed.
func (r *Renderer) upload(instances []scene.Instance) {
	need := len(instances) * instanceFloats
	if cap(r.staging) < need {
		r.staging = make([]float32, need)
	}
	buf := r.staging[:need]
	for i, inst := range instances {
		o := i * instanceFloats
		copy(buf[o:o+16], inst.Model[:])
		copy(buf[o+16:o+19], inst.Color[:])
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.instanceVBO)
	if len(instances) > r.instanceCap {
		r.instanceCap = len(instances) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.instanceCap*instanceStride, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, need*floatSize, unsafe.Pointer(&buf[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// End finishes the current frame.
func (r *Renderer) End() {}

// ReadPixels returns the back buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
