package volume

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// FillRule decides the material of one interior cell during generation.
type FillRule interface {
	Sample(rng *rand.Rand, x, y, z int) uint8
}

// UniformRandom marks a cell solid with the given probability, rolled in
// whole percent.
type UniformRandom struct {
	Probability float64
	Value       uint8
}

// Percent is the probability rounded to the nearest whole percent.
func (r UniformRandom) Percent() int {
	return int(math.Round(r.Probability * 100))
}

func (r UniformRandom) Sample(rng *rand.Rand, x, y, z int) uint8 {
	if rng.Intn(100) < r.Percent() {
		return r.Value
	}
	return 0
}

type UniformSolid struct {
	Value uint8
}

func (r UniformSolid) Sample(_ *rand.Rand, _, _, _ int) uint8 {
	return r.Value
}

// PerlinTerrain builds a height field: a column is solid below
// Base + Amplitude*noise(x*Frequency, z*Frequency).
type PerlinTerrain struct {
	Base      float64
	Amplitude float64
	Frequency float64
	Value     uint8

	noise *perlin.Perlin
}

func NewPerlinTerrain(seed int64, base, amplitude, frequency float64) *PerlinTerrain {
	return &PerlinTerrain{
		Base:      base,
		Amplitude: amplitude,
		Frequency: frequency,
		Value:     SolidValue,
		noise:     perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (r *PerlinTerrain) Height(x, z int) float64 {
	return r.Base + r.Amplitude*r.noise.Noise2D(float64(x)*r.Frequency, float64(z)*r.Frequency)
}

func (r *PerlinTerrain) Sample(_ *rand.Rand, x, y, z int) uint8 {
	if float64(y) < r.Height(x, z) {
		return r.Value
	}
	return 0
}

type GenerateOptions struct {
	Padding      int
	PaddingValue uint8
	Rule         FillRule
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Padding: DefaultPadding,
		Rule:    UniformRandom{Probability: 0.5, Value: SolidValue},
	}
}

// RuleByName resolves the rule names accepted in config files. The seed and
// size are only used by "perlin".
func RuleByName(name string, seed int64, size int) (FillRule, error) {
	switch name {
	case "", "random":
		return UniformRandom{Probability: 0.5, Value: SolidValue}, nil
	case "solid":
		return UniformSolid{Value: SolidValue}, nil
	case "perlin":
		return NewPerlinTerrain(seed, float64(size)/2, float64(size)/8, 1.0/32), nil
	default:
		return nil, fmt.Errorf("volume: unknown fill rule %q", name)
	}
}

// Generate fills the field from seed. Cells in [Padding, Size-Padding) on
// every axis are sampled from the rule in z, y, x order so the same seed
// always produces the same world. The padding band is set to PaddingValue.
func (f *Field) Generate(seed int64, opts GenerateOptions) {
	if opts.Rule == nil {
		opts.Rule = UniformRandom{Probability: 0.5, Value: SolidValue}
	}
	pad := opts.Padding
	if pad < 0 {
		pad = 0
	}
	rng := rand.New(rand.NewSource(seed))

	lo, hi := pad, f.Size-pad
	for z := 0; z < f.Size; z++ {
		for y := 0; y < f.Size; y++ {
			for x := 0; x < f.Size; x++ {
				idx := x + y*f.Size + z*f.Size*f.Size
				if x < lo || y < lo || z < lo || x >= hi || y >= hi || z >= hi {
					f.Cells[idx] = opts.PaddingValue
					continue
				}
				f.Cells[idx] = opts.Rule.Sample(rng, x, y, z)
			}
		}
	}
}
