package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeVertices(t *testing.T) {
	v := cubeVertices()
	if len(v) != 36*6 {
		t.Fatalf("expected 36 vertices, got %d floats", len(v))
	}

	// Every triangle must wind counter-clockwise around its face normal.
	for tri := 0; tri < 12; tri++ {
		at := func(k int) mgl32.Vec3 {
			o := (tri*3 + k) * 6
			return mgl32.Vec3{v[o], v[o+1], v[o+2]}
		}
		o := tri * 3 * 6
		normal := mgl32.Vec3{v[o+3], v[o+4], v[o+5]}
		cross := at(1).Sub(at(0)).Cross(at(2).Sub(at(0)))
		if cross.Dot(normal) <= 0 {
			t.Errorf("triangle %d winds clockwise", tri)
		}
	}
}
