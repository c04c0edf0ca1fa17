package volume

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSphere(t *testing.T) {
	f := NewField(16)
	n := Sphere(f, mgl32.Vec3{8, 8, 8}, 1, SolidValue)

	// The eight cells around the center point have centers sqrt(0.75) away.
	assert.Equal(t, 8, n)
	assert.Equal(t, 8, f.SolidCount())
	assert.True(t, f.IsVoxel(mgl32.Vec3{7.5, 7.5, 7.5}))
	assert.False(t, f.IsVoxel(mgl32.Vec3{9.5, 8.5, 8.5}))
}

func TestSphereClipsToField(t *testing.T) {
	f := NewField(8)
	n := Sphere(f, mgl32.Vec3{0, 0, 0}, 3, SolidValue)

	assert.Equal(t, f.SolidCount(), n)
	assert.Greater(t, n, 0)
	assert.EqualValues(t, SolidValue, f.GetVoxel(0, 0, 0))
}

func TestCube(t *testing.T) {
	f := NewField(8)
	assert.Equal(t, 27, Cube(f, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{3.9, 3.9, 3.9}, 9))
	assert.EqualValues(t, 9, f.GetVoxel(3, 3, 3))
	assert.EqualValues(t, 0, f.GetVoxel(4, 3, 3))

	assert.Equal(t, 8, Cube(f, mgl32.Vec3{-5, -5, -5}, mgl32.Vec3{1, 1, 1}, 9))
	assert.Equal(t, 0, Cube(f, mgl32.Vec3{5, 5, 5}, mgl32.Vec3{2, 2, 2}, 9))
	assert.Equal(t, 0, Cube(f, mgl32.Vec3{20, 20, 20}, mgl32.Vec3{30, 30, 30}, 9))
}
