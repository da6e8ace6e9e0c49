package preset

import (
	"math"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// builder accumulates voxels, keeping the first color placed at a cell.
type builder struct {
	voxels []voxel.Voxel
	seen   map[[3]int]bool
}

func newBuilder() *builder {
	return &builder{seen: make(map[[3]int]bool)}
}

func (b *builder) put(x, y, z int, c voxel.RGB) {
	k := [3]int{x, y, z}
	if b.seen[k] {
		return
	}
	b.seen[k] = true
	b.voxels = append(b.voxels, voxel.Voxel{X: x, Y: y, Z: z, Color: c})
}

func (b *builder) set() voxel.Set {
	return voxel.NewSet(b.voxels)
}

var (
	stone     = voxel.RGB{R: 0x9a, G: 0x9a, B: 0xa0}
	darkStone = voxel.RGB{R: 0x6b, G: 0x6b, B: 0x73}
	roof      = voxel.RGB{R: 0x3b, G: 0x5b, B: 0xa8}
	bark      = voxel.RGB{R: 0x6e, G: 0x45, B: 0x22}
	leaf      = voxel.RGB{R: 0x3c, G: 0x9a, B: 0x3c}
	leafLight = voxel.RGB{R: 0x5c, G: 0xc0, B: 0x4e}
	red       = voxel.RGB{R: 0xd9, G: 0x2b, B: 0x3a}
	white     = voxel.RGB{R: 0xf2, G: 0xee, B: 0xe4}
	sand      = voxel.RGB{R: 0xe0, G: 0xc0, B: 0x7a}
	sandDark  = voxel.RGB{R: 0xc4, G: 0xa0, B: 0x5a}
)

func builtins() []Preset {
	return []Preset{
		{Name: "castle", Voxels: castle()},
		{Name: "tree", Voxels: tree()},
		{Name: "heart", Voxels: heart()},
		{Name: "mushroom", Voxels: mushroom()},
		{Name: "pyramid", Voxels: pyramid()},
		{Name: "cube", Voxels: cube()},
	}
}

func castle() voxel.Set {
	b := newBuilder()
	const size = 11

	// Towers first so they win the corner cells.
	for _, c := range [][2]int{{0, 0}, {0, size - 1}, {size - 1, 0}, {size - 1, size - 1}} {
		for y := 0; y < 7; y++ {
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					col := stone
					if y == 6 {
						if (dx+dz)%2 != 0 {
							continue
						}
						col = roof
					}
					b.put(c[0]+dx, y, c[1]+dz, col)
				}
			}
		}
	}

	for i := 0; i < size; i++ {
		for y := 0; y < 5; y++ {
			col := stone
			if y == 0 {
				col = darkStone
			}
			// Crenellations on top.
			if y == 4 && i%2 == 1 {
				continue
			}
			// Gate in the front wall.
			gate := i >= 4 && i <= 6 && y < 3
			if !gate {
				b.put(i, y, 0, col)
			}
			b.put(i, y, size-1, col)
			b.put(0, y, i, col)
			b.put(size-1, y, i, col)
		}
	}
	return b.set()
}

func tree() voxel.Set {
	b := newBuilder()
	for y := 0; y < 5; y++ {
		b.put(0, y, 0, bark)
	}

	const r = 3.0
	cy := 6.0
	for x := -3; x <= 3; x++ {
		for y := 3; y <= 9; y++ {
			for z := -3; z <= 3; z++ {
				d := math.Sqrt(float64(x*x) + (float64(y)-cy)*(float64(y)-cy) + float64(z*z))
				if d > r {
					continue
				}
				col := leaf
				if (x+y+z)%3 == 0 {
					col = leafLight
				}
				b.put(x, y, z, col)
			}
		}
	}
	return b.set()
}

func heart() voxel.Set {
	b := newBuilder()
	for x := -6; x <= 6; x++ {
		for y := -6; y <= 5; y++ {
			fx := float64(x) / 5
			fy := float64(y) / 5
			a := fx*fx + fy*fy - 1
			if a*a*a-fx*fx*fy*fy*fy > 0 {
				continue
			}
			for z := 0; z < 2; z++ {
				b.put(x, y+6, z, red)
			}
		}
	}
	return b.set()
}

func mushroom() voxel.Set {
	b := newBuilder()
	for y := 0; y < 4; y++ {
		for x := -1; x <= 1; x++ {
			for z := -1; z <= 1; z++ {
				if x*x+z*z <= 1 {
					b.put(x, y, z, white)
				}
			}
		}
	}

	const r = 4.0
	for x := -4; x <= 4; x++ {
		for z := -4; z <= 4; z++ {
			for y := 0; y <= 4; y++ {
				d := math.Sqrt(float64(x*x + y*y + z*z))
				if d > r || d < r-1.5 {
					continue
				}
				col := red
				if (x*7+z*3+y)%5 == 0 {
					col = white
				}
				b.put(x, y+3, z, col)
			}
		}
	}
	return b.set()
}

func pyramid() voxel.Set {
	b := newBuilder()
	const base = 9
	for y := 0; y <= base/2; y++ {
		for x := y; x < base-y; x++ {
			for z := y; z < base-y; z++ {
				col := sand
				if y%2 == 1 {
					col = sandDark
				}
				b.put(x, y, z, col)
			}
		}
	}
	return b.set()
}

func cube() voxel.Set {
	b := newBuilder()
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			for z := 0; z < 4; z++ {
				col := white
				if (x+y+z)%2 == 0 {
					col = darkStone
				}
				b.put(x, y, z, col)
			}
		}
	}
	return b.set()
}
