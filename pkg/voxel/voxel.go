// Package voxel defines voxel models: ordered sets of colored unit cubes on an integer grid.
package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Voxel is a unit cube at an integer grid coordinate.
type Voxel struct {
	X, Y, Z int
	Color   RGB
}

// Position returns the voxel coordinate as a float vector.
func (v Voxel) Position() mgl32.Vec3 {
	return mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Set is an immutable, ordered list of voxels.
// Order defines the index correspondence with simulated particles.
type Set struct {
	voxels []Voxel
}

// NewSet creates a set from a copy of voxels.
func NewSet(voxels []Voxel) Set {
	if len(voxels) == 0 {
		return Set{}
	}
	cp := make([]Voxel, len(voxels))
	copy(cp, voxels)
	return Set{voxels: cp}
}

// Len returns the number of voxels.
func (s Set) Len() int {
	return len(s.voxels)
}

// At returns the voxel at index i.
func (s Set) At(i int) Voxel {
	return s.voxels[i]
}

// Voxels returns a copy of the voxel list.
func (s Set) Voxels() []Voxel {
	cp := make([]Voxel, len(s.voxels))
	copy(cp, s.voxels)
	return cp
}

// Bounds is an axis-aligned box in grid coordinates (inclusive).
type Bounds struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

// Bounds returns the bounding box of the set. ok is false for an empty set.
func (s Set) Bounds() (b Bounds, ok bool) {
	if len(s.voxels) == 0 {
		return Bounds{}, false
	}
	v0 := s.voxels[0]
	b = Bounds{v0.X, v0.Y, v0.Z, v0.X, v0.Y, v0.Z}
	for _, v := range s.voxels[1:] {
		b.MinX = min(b.MinX, v.X)
		b.MinY = min(b.MinY, v.Y)
		b.MinZ = min(b.MinZ, v.Z)
		b.MaxX = max(b.MaxX, v.X)
		b.MaxY = max(b.MaxY, v.Y)
		b.MaxZ = max(b.MaxZ, v.Z)
	}
	return b, true
}

// Size returns the extent of the box in voxels along each axis.
func (b Bounds) Size() (int, int, int) {
	return b.MaxX - b.MinX + 1, b.MaxY - b.MinY + 1, b.MaxZ - b.MinZ + 1
}

// HorizontalCenter returns the XZ center of the set's bounding box.
// An empty set is centered on the origin.
func (s Set) HorizontalCenter() (x, z float32) {
	b, ok := s.Bounds()
	if !ok {
		return 0, 0
	}
	return float32(b.MinX+b.MaxX) / 2, float32(b.MinZ+b.MaxZ) / 2
}

// Floor returns the y of the lowest voxel's bottom face.
// An empty set rests on y = -0.5 so that its offset is zero.
func (s Set) Floor() float32 {
	b, ok := s.Bounds()
	if !ok {
		return -0.5
	}
	return float32(b.MinY) - 0.5
}

// Offset returns the render-space translation that centers the model
// horizontally and places the bottom face of its lowest voxel at y = 0.
// Stored voxel coordinates are not affected. Empty sets return the zero vector.
func (s Set) Offset() mgl32.Vec3 {
	if len(s.voxels) == 0 {
		return mgl32.Vec3{}
	}
	cx, cz := s.HorizontalCenter()
	return mgl32.Vec3{-cx, -s.Floor(), -cz}
}

// String implements fmt.Stringer.
func (s Set) String() string {
	b, ok := s.Bounds()
	if !ok {
		return "voxel.Set{empty}"
	}
	w, h, d := b.Size()
	return fmt.Sprintf("voxel.Set{%d voxels, %dx%dx%d}", len(s.voxels), w, h, d)
}
