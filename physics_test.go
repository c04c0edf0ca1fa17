package voxfield

import (
	"math/rand"
	"testing"

	"github.com/gekko3d/voxfield/voxelrt/rt/volume"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floorTop = 5

// floorField has solid ground for y < floorTop.
func floorField() *volume.Field {
	f := volume.NewField(16)
	for z := 0; z < 16; z++ {
		for y := 0; y < floorTop; y++ {
			for x := 0; x < 16; x++ {
				f.SetVoxel(x, y, z, 255)
			}
		}
	}
	return f
}

func TestCapsuleRing(t *testing.T) {
	c := DefaultCapsule()
	pts := c.Ring(mgl32.Vec3{1, 2, 3}, c.Height)

	want := []mgl32.Vec3{{1.25, 2.65, 3}, {0.75, 2.65, 3}, {1, 2.65, 3.25}, {1, 2.65, 2.75}}
	for i, w := range want {
		assert.True(t, w.ApproxEqualThreshold(pts[i], 1e-5), "point %d: %v", i, pts[i])
	}
	for _, p := range pts[4:] {
		assert.InDelta(t, 2.65, p.Y(), 1e-5)
		d := mgl32.Vec2{p.X() - 1, p.Z() - 3}
		assert.InDelta(t, 0.25, d.Len(), 0.001)
	}
}

func TestRestingBodyStaysGrounded(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{8.5, floorTop, 8.5})

	for i := 0; i < 120; i++ {
		StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{}, 1.0/60)
		require.Equal(t, float32(floorTop), b.Position.Y())
		require.False(t, b.InAir)
		require.Equal(t, float32(0), b.Velocity.Y())
	}
}

func TestFallingBodyLands(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{8.5, 9, 8.5})
	const dt = float32(1.0 / 60)

	landed, expected := -1, -1
	for i := 0; i < 300 && landed < 0; i++ {
		// Feet y the step will test, computed the same way StepBody does.
		y := b.Position.Y()
		vy := b.Velocity.Y() + b.GravityAccel*dt
		proposed := y + float32(vy*dt)
		if expected < 0 && y+(proposed-y) < floorTop {
			expected = i
		}

		StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{}, dt)
		if !b.InAir {
			landed = i
			assert.Equal(t, y, b.Position.Y(), "landing keeps the pre-step height")
		} else {
			require.Less(t, expected, 0, "frame %d crossed the floor but stayed in air", i)
			assert.InDelta(t, proposed, b.Position.Y(), 1e-5)
		}
	}
	require.GreaterOrEqual(t, landed, 0, "body never landed")
	assert.Equal(t, expected, landed, "lands on the first frame whose feet drop below the floor")
	assert.GreaterOrEqual(t, b.Position.Y(), float32(floorTop))
	assert.Less(t, b.Position.Y(), float32(floorTop)+0.2)
	assert.Equal(t, float32(0), b.Velocity.Y())
}

func TestJump(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{8.5, floorTop, 8.5})
	StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{}, 1.0/60)
	require.False(t, b.InAir)

	require.True(t, b.Jump())
	assert.Equal(t, float32(JumpVelocity), b.Velocity.Y())
	assert.False(t, b.Jump(), "no double jump")

	StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{}, 1.0/60)
	assert.Greater(t, b.Position.Y(), float32(floorTop))
	assert.True(t, b.InAir)

	free := NewBody(mgl32.Vec3{})
	free.Gravity = false
	free.InAir = false
	assert.False(t, free.Jump())
}

func TestCeilingStopsAscent(t *testing.T) {
	f := volume.NewField(16)
	for z := 0; z < 16; z++ {
		for x := 0; x < 16; x++ {
			f.SetVoxel(x, 7, z, 255)
		}
	}
	b := NewBody(mgl32.Vec3{8.5, 6.3, 8.5})
	b.Gravity = false
	b.Velocity = mgl32.Vec3{0, 3, 0}

	ResolveMovement(f, DefaultCapsule(), &b, b.Position, b.Position.Add(mgl32.Vec3{0, 0.1, 0}))
	assert.Equal(t, float32(6.3), b.Position.Y())
	assert.Equal(t, float32(0), b.Velocity.Y())
	assert.True(t, b.InAir)
}

func TestWallBlocksXButNotZ(t *testing.T) {
	f := volume.NewField(16)
	for z := 0; z < 16; z++ {
		for y := 0; y < 16; y++ {
			f.SetVoxel(10, y, z, 255)
		}
	}
	b := NewBody(mgl32.Vec3{9.7, 5, 5})
	old := b.Position

	ResolveMovement(f, DefaultCapsule(), &b, old, old.Add(mgl32.Vec3{0.1, 0, 0.1}))
	assert.Equal(t, old.X(), b.Position.X())
	assert.InDelta(t, 5.1, b.Position.Z(), 1e-6)
}

func TestAxesAreOrderIndependent(t *testing.T) {
	f := volume.NewField(16)
	f.Generate(3, volume.GenerateOptions{Padding: 2, Rule: volume.UniformRandom{Probability: 0.15, Value: 255}})
	c := DefaultCapsule()
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 500; i++ {
		old := mgl32.Vec3{2 + rng.Float32()*12, 2 + rng.Float32()*12, 2 + rng.Float32()*12}
		d := mgl32.Vec3{(rng.Float32() - 0.5) * 0.6, 0, (rng.Float32() - 0.5) * 0.6}

		both := NewBody(old)
		ResolveMovement(f, c, &both, old, old.Add(d))

		onlyX := NewBody(old)
		ResolveMovement(f, c, &onlyX, old, old.Add(mgl32.Vec3{d.X(), 0, 0}))
		onlyZ := NewBody(old)
		ResolveMovement(f, c, &onlyZ, old, old.Add(mgl32.Vec3{0, 0, d.Z()}))

		require.Equal(t, onlyX.Position.X(), both.Position.X())
		require.Equal(t, onlyZ.Position.Z(), both.Position.Z())
	}
}

func TestNoVerticalMoveIsAirborne(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{8.5, floorTop, 8.5})
	b.Gravity = false
	b.InAir = false

	StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{0.05, 0, 0}, 1.0/60)
	assert.True(t, b.InAir)
	assert.Equal(t, float32(floorTop), b.Position.Y())
}

func TestCollisionOffPassesThroughWalls(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{8.5, 3, 8.5})
	b.Gravity = false
	b.Collision = false

	StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{1, -1, 0}, 1.0/60)
	assert.Equal(t, mgl32.Vec3{9.5, 2, 8.5}, b.Position)
}

func TestOutsideWorldIsEmpty(t *testing.T) {
	f := floorField()
	b := NewBody(mgl32.Vec3{-5, 2, -5})

	StepBody(f, DefaultCapsule(), &b, mgl32.Vec3{-0.1, 0, 0}, 1.0/60)
	assert.Less(t, b.Position.Y(), float32(2))
	assert.InDelta(t, -5.1, b.Position.X(), 1e-6)
	assert.True(t, b.InAir)
}
