package generation

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// Procedural is an offline Gateway. The same prompt always yields the same
// model; color words in the prompt pick the palette.
type Procedural struct{}

var palette = map[string]voxel.RGB{
	"red":    {R: 0xd9, G: 0x2b, B: 0x3a},
	"orange": {R: 0xf0, G: 0x8a, B: 0x24},
	"yellow": {R: 0xf5, G: 0xd0, B: 0x2e},
	"green":  {R: 0x3c, G: 0x9a, B: 0x3c},
	"blue":   {R: 0x2e, G: 0x64, B: 0xd0},
	"purple": {R: 0x8a, G: 0x3c, B: 0xc0},
	"pink":   {R: 0xf0, G: 0x8c, B: 0xc0},
	"white":  {R: 0xf2, G: 0xee, B: 0xe4},
	"black":  {R: 0x22, G: 0x22, B: 0x26},
	"brown":  {R: 0x6e, G: 0x45, B: 0x22},
	"gray":   {R: 0x9a, G: 0x9a, B: 0xa0},
	"grey":   {R: 0x9a, G: 0x9a, B: 0xa0},
}

func (Procedural) Generate(ctx context.Context, prompt string) ([]voxel.Descriptor, error) {
	p, err := normalize(prompt)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(p)))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed>>17|1))

	primary, accent := colors(p, rng)
	height := 4 + rng.IntN(7)
	base := 1.5 + rng.Float64()*2.5
	bulge := rng.Float64() * 2
	phase := rng.Float64() * math.Pi

	var ds []voxel.Descriptor
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		r := base + bulge*math.Sin(t*math.Pi+phase)
		ir := int(math.Ceil(r))
		for x := -ir; x <= ir; x++ {
			for z := -ir; z <= ir; z++ {
				d := math.Sqrt(float64(x*x + z*z))
				if d > r {
					continue
				}
				c := primary
				if y == height-1 || (d > r-1 && (x+z+y)%3 == 0) {
					c = accent
				}
				ds = append(ds, voxel.Descriptor{X: x, Y: y, Z: z, Color: c.Hex()})
			}
		}
	}
	return ds, nil
}

func colors(prompt string, rng *rand.Rand) (primary, accent voxel.RGB) {
	var found []voxel.RGB
	for _, w := range strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		if c, ok := palette[w]; ok {
			found = append(found, c)
		}
	}

	random := func() voxel.RGB {
		return voxel.RGB{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256))}
	}
	switch len(found) {
	case 0:
		return random(), random()
	case 1:
		return found[0], voxel.RGB{R: 0xf2, G: 0xee, B: 0xe4}
	default:
		return found[0], found[1]
	}
}
