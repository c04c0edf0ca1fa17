package pick

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gekko3d/voxfield/voxelrt/rt/volume"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceOrder(t *testing.T) {
	assert.Equal(t, [3]int{1, 0, 0}, FacePosX.Normal())
	assert.Equal(t, [3]int{-1, 0, 0}, FaceNegX.Normal())
	assert.Equal(t, [3]int{0, 1, 0}, FacePosY.Normal())
	assert.Equal(t, [3]int{0, -1, 0}, FaceNegY.Normal())
	assert.Equal(t, [3]int{0, 0, 1}, FacePosZ.Normal())
	assert.Equal(t, [3]int{0, 0, -1}, FaceNegZ.Normal())
	assert.Equal(t, "-Z", FaceNegZ.String())
	assert.Equal(t, [3]int{}, Face(9).Normal())
}

func TestFaceEncodeDecode(t *testing.T) {
	for f := FacePosX; f <= FaceNegZ; f++ {
		got, err := DecodeFace(f.Encode())
		require.NoError(t, err)
		assert.Equal(t, f, got)

		// Render targets may store the alpha with a little error.
		got, err = DecodeFace(f.Encode() + 0.07)
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	for _, a := range []float32{-0.2, 1.2, 3} {
		_, err := DecodeFace(a)
		assert.ErrorIs(t, err, ErrBadFace, "alpha %v", a)
	}
}

func TestDecodeRemoveAppliesBias(t *testing.T) {
	enc := EncodeHit([3]int{10, 20, 30}, FacePosY, 64)

	target, err := Decode(enc, 64, false)
	require.NoError(t, err)
	assert.Equal(t, [3]int{11, 21, 30}, target.Hit)
	assert.Equal(t, FacePosY, target.Face)
	assert.Equal(t, target.Hit, target.Cell)
}

func TestDecodePlaceUsesFaceNormal(t *testing.T) {
	enc := EncodeHit([3]int{10, 20, 30}, FacePosY, 64)

	target, err := Decode(enc, 64, true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{11, 21, 30}, target.Hit)
	assert.Equal(t, [3]int{11, 22, 30}, target.Cell)

	enc = EncodeHit([3]int{10, 20, 30}, FaceNegZ, 64)
	target, err = Decode(enc, 64, true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{11, 21, 29}, target.Cell)
}

func TestDecodeFullWorldPrecision(t *testing.T) {
	for _, v := range []int{0, 1, 127, 128, 253} {
		enc := EncodeHit([3]int{v, v, v}, FacePosX, 256)
		target, err := Decode(enc, 256, false)
		require.NoError(t, err)
		assert.Equal(t, [3]int{v + 1, v + 1, v}, target.Hit)
	}
}

func TestDecodeBackground(t *testing.T) {
	_, err := Decode(Background, 64, true)
	assert.ErrorIs(t, err, ErrNoHit)
}

func TestDecodeRejectsOutOfRange(t *testing.T) {
	// The bias pushes x=63 to 64.
	target, err := Decode(EncodeHit([3]int{63, 5, 5}, FacePosX, 64), 64, false)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, [3]int{64, 6, 5}, target.Cell)

	// Placing back across -X would land in the grid, but the hit itself is outside.
	target, err = Decode(EncodeHit([3]int{63, 5, 5}, FaceNegX, 64), 64, true)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, [3]int{64, 6, 5}, target.Hit)
	assert.Equal(t, [3]int{63, 6, 5}, target.Cell)

	_, err = Decode(EncodeHit([3]int{5, 63, 5}, FaceNegY, 64), 64, false)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Decode(EncodeHit([3]int{5, 5, 63}, FacePosZ, 64), 64, true)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Decode(EncodeHit([3]int{5, 5, 0}, FaceNegZ, 64), 64, true)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Decode(EncodeHit([3]int{5, 5, 0}, FaceNegZ, 64), 64, false)
	assert.NoError(t, err)
}

func TestDecodeRejectsBadFace(t *testing.T) {
	enc := EncodeHit([3]int{1, 1, 1}, FacePosX, 16)
	enc[3] = 2
	_, err := Decode(enc, 16, false)
	assert.ErrorIs(t, err, ErrBadFace)
}

func TestRaycastSpecExample(t *testing.T) {
	f := volume.NewField(8)
	f.SetVoxel(4, 4, 4, 255)

	hit := Raycast(f, 8, Ray{Origin: mgl32.Vec3{4, 4, -10}, Direction: mgl32.Vec3{0, 0, 1}}, 100)
	require.True(t, hit.Valid)
	assert.Equal(t, [3]int{4, 4, 4}, hit.Voxel)
	assert.Equal(t, FaceNegZ, hit.Face)
	assert.InDelta(t, 14, hit.T, 1e-5)
	assert.Equal(t, 5, hit.Steps)
	assert.True(t, hit.Position.ApproxEqual(mgl32.Vec3{4, 4, 4}))
}

func TestRaycastStepBudget(t *testing.T) {
	f := volume.NewField(8)
	f.SetVoxel(4, 4, 4, 255)
	ray := Ray{Origin: mgl32.Vec3{4, 4, -10}, Direction: mgl32.Vec3{0, 0, 1}}

	assert.False(t, Raycast(f, 8, ray, 0).Valid)
	assert.False(t, Raycast(f, 8, ray, -1).Valid)
	assert.False(t, Raycast(f, 8, ray, 4).Valid)
	assert.True(t, Raycast(f, 8, ray, 5).Valid)
}

func TestRaycastInvalidRays(t *testing.T) {
	f := volume.NewField(8)
	f.Generate(1, volume.GenerateOptions{Rule: volume.UniformSolid{Value: 255}})

	assert.False(t, Raycast(f, 8, Ray{Origin: mgl32.Vec3{1, 1, 1}}, 100).Valid, "zero direction")
	assert.False(t, Raycast(f, 8, Ray{Origin: mgl32.Vec3{-5, -5, -5}, Direction: mgl32.Vec3{-1, 0, 0}}, 100).Valid, "misses grid")
	assert.False(t, Raycast(f, 8, Ray{Origin: mgl32.Vec3{-5, 20, 4}, Direction: mgl32.Vec3{1, 0, 0}}, 100).Valid, "passes above grid")

	empty := volume.NewField(8)
	assert.False(t, Raycast(empty, 8, Ray{Origin: mgl32.Vec3{4, 4, -1}, Direction: mgl32.Vec3{0, 0, 1}}, 100).Valid, "leaves grid")
}

func TestRaycastNegativeDirection(t *testing.T) {
	f := volume.NewField(8)
	f.SetVoxel(4, 4, 4, 255)

	hit := Raycast(f, 8, Ray{Origin: mgl32.Vec3{4.5, 4.5, 20}, Direction: mgl32.Vec3{0, 0, -1}}, 100)
	require.True(t, hit.Valid)
	assert.Equal(t, [3]int{4, 4, 4}, hit.Voxel)
	assert.Equal(t, FacePosZ, hit.Face)
	assert.Equal(t, 4, hit.Steps)
}

func TestRaycastFromInsideGrid(t *testing.T) {
	f := volume.NewField(8)
	f.SetVoxel(3, 1, 1, 255)

	hit := Raycast(f, 8, Ray{Origin: mgl32.Vec3{1.5, 1.5, 1.5}, Direction: mgl32.Vec3{2, 0, 0}}, 100)
	require.True(t, hit.Valid)
	assert.Equal(t, [3]int{3, 1, 1}, hit.Voxel)
	assert.Equal(t, FaceNegX, hit.Face)
	assert.InDelta(t, 1.5, hit.T, 1e-5)

	f.SetVoxel(1, 1, 1, 255)
	hit = Raycast(f, 8, Ray{Origin: mgl32.Vec3{1.5, 1.5, 1.5}, Direction: mgl32.Vec3{0, 1, 0}}, 100)
	require.True(t, hit.Valid)
	assert.Equal(t, [3]int{1, 1, 1}, hit.Voxel)
	assert.Equal(t, 1, hit.Steps)
	assert.Equal(t, float32(0), hit.T)
}

func TestRaycastAgreesWithIsVoxel(t *testing.T) {
	const size = 16
	f := volume.NewField(size)
	f.Generate(5, volume.GenerateOptions{Padding: 3, Rule: volume.UniformRandom{Probability: 0.1, Value: 255}})

	rng := rand.New(rand.NewSource(11))
	hits := 0
	for i := 0; i < 500; i++ {
		origin := mgl32.Vec3{-4, rng.Float32()*size + 0.01, rng.Float32()*size + 0.01}
		dir := mgl32.Vec3{1, rng.Float32() - 0.5, rng.Float32() - 0.5}
		hit := Raycast(f, size, Ray{Origin: origin, Direction: dir}, 3*size)
		if !hit.Valid {
			continue
		}
		hits++
		v := hit.Voxel
		require.True(t, f.IsVoxel(mgl32.Vec3{float32(v[0]) + 0.5, float32(v[1]) + 0.5, float32(v[2]) + 0.5}))

		// The cell the ray came from is air or outside the grid.
		n := hit.Face.Normal()
		prev := mgl32.Vec3{float32(v[0]+n[0]) + 0.5, float32(v[1]+n[1]) + 0.5, float32(v[2]+n[2]) + 0.5}
		require.False(t, f.IsVoxel(prev), "ray %d entered %v through %s", i, v, hit.Face)
	}
	assert.Greater(t, hits, 0)
}

func TestHitTarget(t *testing.T) {
	hit := Hit{Valid: true, Voxel: [3]int{4, 4, 4}, Face: FaceNegZ}

	target, err := hit.Target(true, 8)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 3}, target.Cell)

	target, err = hit.Target(false, 8)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 4}, target.Cell)

	_, err = Hit{}.Target(true, 8)
	assert.ErrorIs(t, err, ErrNoHit)

	edge := Hit{Valid: true, Voxel: [3]int{7, 0, 0}, Face: FacePosX}
	_, err = edge.Target(true, 8)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRenderPicker(t *testing.T) {
	src := &StaticSource{Pixel: EncodeHit([3]int{2, 3, 4}, FacePosX, 16)}
	p := RenderPicker{Source: src, Size: 16}

	target, err := p.Pick(true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 4}, target.Cell)
	assert.Equal(t, 1, src.Reads)

	boom := errors.New("device lost")
	src.Err = boom
	_, err = p.Pick(true)
	assert.ErrorIs(t, err, boom)
}

type fixedRay Ray

func (r fixedRay) CenterRay() Ray { return Ray(r) }

func TestRayPicker(t *testing.T) {
	f := volume.NewField(8)
	f.SetVoxel(4, 4, 4, 255)
	p := RayPicker{
		Field:    f,
		Size:     8,
		Camera:   fixedRay{Origin: mgl32.Vec3{4.5, 4.5, -2}, Direction: mgl32.Vec3{0, 0, 1}},
		MaxSteps: 64,
	}

	target, err := p.Pick(true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 4}, target.Hit)
	assert.Equal(t, [3]int{4, 4, 3}, target.Cell)

	f.SetVoxel(4, 4, 4, 0)
	_, err = p.Pick(false)
	assert.ErrorIs(t, err, ErrNoHit)
}
