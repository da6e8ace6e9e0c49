// Package camera provides the orbit camera used by the viewer.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around Y

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	// AutoRotate spins the camera around the model, radians per second.
	AutoRotate float32

	FOV  float32 // vertical, degrees
	Near float32
	Far  float32
}

// NewOrbitCamera creates an orbit camera framing a model a few dozen voxels across.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Center:          mgl32.Vec3{0, 3, 0},
		Distance:        24,
		Pitch:           0.45,
		Yaw:             0.6,
		MinDistance:     4,
		MaxDistance:     200,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             45,
		Near:            0.1,
		Far:             500,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	cp, sp := cos(c.Pitch), sin(c.Pitch)
	cy, sy := cos(c.Yaw), sin(c.Yaw)
	return c.Center.Add(mgl32.Vec3{cp * sy, sp, cp * cy}.Mul(c.Distance))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns a perspective projection for the given viewport.
func (c *OrbitCamera) ProjectionMatrix(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Update applies auto-rotation.
func (c *OrbitCamera) Update(dt float64) {
	c.Yaw += c.AutoRotate * float32(dt)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = mgl32.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Frame centers the camera on a model of the given radius and height
// standing on the ground plane.
func (c *OrbitCamera) Frame(radius, height float32) {
	c.Center = mgl32.Vec3{0, height / 2, 0}
	fit := max(radius, height/2) / sin(mgl32.DegToRad(c.FOV)/2)
	c.Distance = mgl32.Clamp(fit*1.4, c.MinDistance, c.MaxDistance)
}

func sin(a float32) float32 { return float32(math.Sin(float64(a))) }
func cos(a float32) float32 { return float32(math.Cos(float64(a))) }
