package volume

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	f := NewField(8)
	require.Len(t, f.Cells, 512)
	assert.Equal(t, 0, f.SolidCount())
	assert.NotEqual(t, f.ID, NewField(8).ID)

	assert.Panics(t, func() { NewField(0) })
}

func TestFieldIndexRoundTrip(t *testing.T) {
	f := NewField(8)
	idx := f.Index(3, 5, 7)
	assert.Equal(t, 3+5*8+7*64, idx)

	x, y, z := f.Coord(idx)
	assert.Equal(t, []int{3, 5, 7}, []int{x, y, z})
}

func TestSetAndIsVoxel(t *testing.T) {
	f := NewField(8)
	f.SetVoxel(4, 4, 4, 255)

	assert.True(t, f.IsVoxel(mgl32.Vec3{4, 4, 4}))
	assert.True(t, f.IsVoxel(mgl32.Vec3{4.9, 4.1, 4.99}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{5, 4, 4}))
	assert.Equal(t, uint8(255), f.GetVoxel(4, 4, 4))

	f.SetVoxel(4, 4, 4, 0)
	assert.False(t, f.IsVoxel(mgl32.Vec3{4, 4, 4}))
}

func TestAnyNonzeroIsSolid(t *testing.T) {
	f := NewField(4)
	f.SetVoxel(1, 1, 1, 7)
	assert.True(t, f.IsVoxel(mgl32.Vec3{1.5, 1.5, 1.5}))
}

func TestOutOfRangeAccess(t *testing.T) {
	f := NewField(8)
	before := f.Checksum()

	f.SetVoxel(-1, 0, 0, 255)
	f.SetVoxel(0, 8, 0, 255)
	f.SetVoxel(0, 0, 100, 255)
	assert.Equal(t, before, f.Checksum())
	assert.Equal(t, 0, f.SolidCount())

	assert.False(t, f.IsVoxel(mgl32.Vec3{8, 0, 0}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{0, -2, 0}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{0, 0, 1e6}))
	assert.Equal(t, uint8(0), f.GetVoxel(-1, -1, -1))
}

func TestIsVoxelTruncatesTowardZero(t *testing.T) {
	f := NewField(4)
	f.SetVoxel(0, 0, 0, 255)

	// -0.5 truncates to cell 0, not -1.
	assert.True(t, f.IsVoxel(mgl32.Vec3{-0.5, 0, 0}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{-1.5, 0, 0}))
}

func TestSnapshotIsACopy(t *testing.T) {
	f := NewField(4)
	f.SetVoxel(1, 2, 3, 255)

	snap := f.Snapshot()
	require.Equal(t, f.Cells, snap)

	f.SetVoxel(1, 2, 3, 0)
	assert.Equal(t, uint8(255), snap[f.Index(1, 2, 3)])
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewField(16)
	b := NewField(16)
	opts := GenerateOptions{Padding: 4, Rule: UniformRandom{Probability: 0.5, Value: SolidValue}}

	a.Generate(42, opts)
	b.Generate(42, opts)
	assert.Equal(t, a.Checksum(), b.Checksum())

	b.Generate(43, opts)
	assert.NotEqual(t, a.Checksum(), b.Checksum())
}

func TestGeneratePaddingBandIsAir(t *testing.T) {
	f := NewField(16)
	f.Generate(1, GenerateOptions{Padding: 4, Rule: UniformSolid{Value: SolidValue}})

	for idx, c := range f.Cells {
		x, y, z := f.Coord(idx)
		interior := x >= 4 && y >= 4 && z >= 4 && x < 12 && y < 12 && z < 12
		if interior {
			require.Equal(t, SolidValue, c, "interior cell %d,%d,%d", x, y, z)
		} else {
			require.Equal(t, uint8(0), c, "padding cell %d,%d,%d", x, y, z)
		}
	}
	assert.Equal(t, 8*8*8, f.SolidCount())
}

func TestGenerateSolidPaddingVariant(t *testing.T) {
	f := NewField(8)
	f.Generate(1, GenerateOptions{Padding: 2, PaddingValue: SolidValue, Rule: UniformSolid{}})

	assert.True(t, f.IsVoxel(mgl32.Vec3{0, 0, 0}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{4, 4, 4}))
	assert.Equal(t, 8*8*8-4*4*4, f.SolidCount())
}

func TestGenerateRandomValuesAreBinary(t *testing.T) {
	f := NewField(32)
	f.Generate(7, GenerateOptions{Padding: 8, Rule: UniformRandom{Probability: 0.5, Value: SolidValue}})

	for _, c := range f.Cells {
		require.Contains(t, []uint8{0, SolidValue}, c)
	}
	interior := 16 * 16 * 16
	solid := f.SolidCount()
	assert.Greater(t, solid, interior/4)
	assert.Less(t, solid, interior*3/4)
}

func TestGenerateDefaultWorld(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates the full 256^3 world")
	}
	f := NewField(DefaultWorldSize)
	f.Generate(0, DefaultGenerateOptions())

	assert.False(t, f.IsVoxel(mgl32.Vec3{0, 0, 0}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{31, 100, 100}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{224, 100, 100}))
	assert.Greater(t, f.SolidCount(), 0)
}

func TestPerlinTerrainIsHeightField(t *testing.T) {
	rule := NewPerlinTerrain(3, 8, 2, 1.0/8)
	rng := rand.New(rand.NewSource(0))

	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			h := rule.Height(x, z)
			for y := 0; y < 16; y++ {
				got := rule.Sample(rng, x, y, z)
				if float64(y) < h {
					require.Equal(t, SolidValue, got)
				} else {
					require.Equal(t, uint8(0), got)
				}
			}
		}
	}
}

func TestUniformRandomRoundsToWholePercent(t *testing.T) {
	assert.Equal(t, 29, UniformRandom{Probability: 0.29}.Percent())
	assert.Equal(t, 57, UniformRandom{Probability: 0.57}.Percent())
	assert.Equal(t, 100, UniformRandom{Probability: 1}.Percent())
	assert.Equal(t, 0, UniformRandom{Probability: 0.004}.Percent())

	// The hit rate follows the rounded threshold.
	rule := UniformRandom{Probability: 0.29, Value: SolidValue}
	rng := rand.New(rand.NewSource(1))
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if rule.Sample(rng, 0, 0, 0) != 0 {
			hits++
		}
	}
	assert.InDelta(t, 0.29, float64(hits)/n, 0.015)
}

func TestRuleByName(t *testing.T) {
	r, err := RuleByName("", 0, 16)
	require.NoError(t, err)
	assert.IsType(t, UniformRandom{}, r)

	r, err = RuleByName("solid", 0, 16)
	require.NoError(t, err)
	assert.IsType(t, UniformSolid{}, r)

	r, err = RuleByName("perlin", 0, 16)
	require.NoError(t, err)
	assert.IsType(t, &PerlinTerrain{}, r)

	_, err = RuleByName("caves", 0, 16)
	assert.Error(t, err)
}
