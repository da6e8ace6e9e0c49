// Package scene converts the animation state into draw instances.
// It has no GPU dependencies so it can be tested headless.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelforge/internal/controller"
)

// CubeInset shrinks each drawn cube slightly so neighbours stay distinguishable.
const CubeInset = 0.94

// Instance is one cube to draw.
type Instance struct {
	Model mgl32.Mat4
	Color [3]float32
}

// Build appends one instance per visible particle of snap to dst[:0].
// Particles with zero scale are skipped.
func Build(dst []Instance, snap controller.Snapshot) []Instance {
	dst = dst[:0]
	n := min(len(snap.Particles), snap.Voxels.Len())
	inset := mgl32.Scale3D(CubeInset, CubeInset, CubeInset)
	for i := 0; i < n; i++ {
		p := snap.Particles[i]
		if p.Scale <= 0 {
			continue
		}
		dst = append(dst, Instance{
			Model: p.Transform(snap.Offset).Mul4(inset),
			Color: snap.Voxels.At(i).Color.Floats(),
		})
	}
	return dst
}

// Floor returns the instance used to draw the ground plane at world y = 0.
func Floor(halfExtent float32) Instance {
	const thickness = 0.05
	return Instance{
		Model: mgl32.Translate3D(0, -thickness/2, 0).
			Mul4(mgl32.Scale3D(halfExtent*2, thickness, halfExtent*2)),
		Color: [3]float32{0.22, 0.24, 0.28},
	}
}

// Radius returns the horizontal half-size of the active model in world units,
// used to frame the camera.
func Radius(snap controller.Snapshot) float32 {
	b, ok := snap.Voxels.Bounds()
	if !ok {
		return 1
	}
	sx, sy, sz := b.Size()
	return max(float32(sx), float32(sy), float32(sz)) / 2
}
