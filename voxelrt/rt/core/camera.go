package core

import (
	"github.com/chewxy/math32"
	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFovy        = 90
	DefaultNear        = 0.1
	DefaultFar         = 1000
	DefaultCameraSpeed = 0.025
	MouseSensitivity   = 0.1
	MaxPitch           = 89
)

// Camera is a Y-up look-direction camera. With FPSControls on, horizontal
// movement stays in the XZ plane regardless of pitch.
type Camera struct {
	Eye           mgl32.Vec3
	ViewDirection mgl32.Vec3
	Up            mgl32.Vec3

	Fovy   float32 // degrees
	Aspect float32
	Near   float32
	Far    float32

	Speed       float32
	FPSControls bool
}

func NewCamera() *Camera {
	return &Camera{
		ViewDirection: mgl32.Vec3{0, 0, 1},
		Up:            mgl32.Vec3{0, 1, 0},
		Fovy:          DefaultFovy,
		Aspect:        16.0 / 9.0,
		Near:          DefaultNear,
		Far:           DefaultFar,
		Speed:         DefaultCameraSpeed,
		FPSControls:   true,
	}
}

// Pitch returns the elevation of the view direction in degrees.
func (c *Camera) Pitch() float32 {
	y := mgl32.Clamp(c.ViewDirection.Normalize().Y(), -1, 1)
	return mgl32.RadToDeg(math32.Asin(y))
}

// MouseLook turns the camera by a cursor delta in pixels. Moving the cursor
// right turns right, moving it down looks down.
func (c *Camera) MouseLook(dx, dy float32) {
	yaw := -dx * MouseSensitivity
	current := c.Pitch()
	target := mgl32.Clamp(current-dy*MouseSensitivity, -MaxPitch, MaxPitch)

	dir := c.ViewDirection
	right := dir.Cross(c.Up)
	if right.Len() > 1e-6 {
		dir = mgl32.QuatRotate(mgl32.DegToRad(target-current), right.Normalize()).Rotate(dir)
	}
	dir = mgl32.QuatRotate(mgl32.DegToRad(yaw), c.Up).Rotate(dir)
	c.ViewDirection = dir.Normalize()
}

func (c *Camera) Forward() mgl32.Vec3 {
	if c.FPSControls {
		flat := mgl32.Vec3{c.ViewDirection.X(), 0, c.ViewDirection.Z()}
		if flat.Len() < 1e-6 {
			return mgl32.Vec3{}
		}
		return flat.Normalize()
	}
	return c.ViewDirection.Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	r := c.Forward().Cross(mgl32.Vec3{0, 1, 0})
	if r.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return r.Normalize()
}

// MoveVector scales the camera axes by the given inputs (-1..1) and Speed.
func (c *Camera) MoveVector(forward, right, up float32) mgl32.Vec3 {
	v := c.Forward().Mul(forward).Add(c.Right().Mul(right)).Add(c.Up.Mul(up))
	return v.Mul(c.Speed)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.ViewDirection), c.Up)
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), c.Aspect, c.Near, c.Far)
}

func (c *Camera) InverseView() mgl32.Mat4 {
	return c.ViewMatrix().Inv()
}

func (c *Camera) InverseProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Inv()
}

func (c *Camera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

// CenterRay is the ray through the middle of the viewport.
func (c *Camera) CenterRay() pick.Ray {
	return pick.Ray{Origin: c.Eye, Direction: c.ViewDirection.Normalize()}
}

// ScreenRay unprojects a cursor position (pixels, origin top-left).
func (c *Camera) ScreenRay(x, y, width, height float32) pick.Ray {
	ndc := mgl32.Vec4{2*x/width - 1, 1 - 2*y/height, -1, 1}
	eye := c.InverseProjection().Mul4x1(ndc)
	eye = mgl32.Vec4{eye.X(), eye.Y(), -1, 0}
	world := c.InverseView().Mul4x1(eye).Vec3()
	return pick.Ray{Origin: c.Eye, Direction: world.Normalize()}
}
