package voxfield

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	PlayerHeight      = 0.65
	PlayerRadius      = 0.25
	GravityConstant   = -9.81
	JumpVelocity      = 5
	diagonalRingScale = 0.707
)

// Occupancy answers point-in-solid queries. Points outside the world are
// never solid.
type Occupancy interface {
	IsVoxel(p mgl32.Vec3) bool
}

// Capsule is the player's collision shape, probed as two rings of eight
// points on the XZ plane: one at the feet and one at Height above them.
type Capsule struct {
	Height float32
	Radius float32
}

func DefaultCapsule() Capsule {
	return Capsule{Height: PlayerHeight, Radius: PlayerRadius}
}

// Ring returns the eight probe points around center at yOffset above it.
func (c Capsule) Ring(center mgl32.Vec3, yOffset float32) [8]mgl32.Vec3 {
	r := c.Radius
	d := r * diagonalRingScale
	offsets := [8][2]float32{
		{r, 0}, {-r, 0}, {0, r}, {0, -r},
		{d, d}, {-d, d}, {d, -d}, {-d, -d},
	}
	var pts [8]mgl32.Vec3
	for i, o := range offsets {
		pts[i] = mgl32.Vec3{center.X() + o[0], center.Y() + yOffset, center.Z() + o[1]}
	}
	return pts
}

func (c Capsule) Blocked(q Occupancy, center mgl32.Vec3, yOffset float32) bool {
	for _, p := range c.Ring(center, yOffset) {
		if q.IsVoxel(p) {
			return true
		}
	}
	return false
}

// Body is the player's kinematic state. Position is the feet.
type Body struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	InAir    bool

	Gravity   bool
	Collision bool

	JumpVelocity float32
	GravityAccel float32
}

func NewBody(feet mgl32.Vec3) Body {
	return Body{
		Position:     feet,
		InAir:        true,
		Gravity:      true,
		Collision:    true,
		JumpVelocity: JumpVelocity,
		GravityAccel: GravityConstant,
	}
}

func (b *Body) Eye(c Capsule) mgl32.Vec3 {
	return b.Position.Add(mgl32.Vec3{0, c.Height, 0})
}

// Jump starts a jump when standing on ground with gravity on.
func (b *Body) Jump() bool {
	if !b.Gravity || b.InAir {
		return false
	}
	b.Velocity[1] = b.JumpVelocity
	b.InAir = true
	return true
}

// ResolveMovement moves b from old toward proposed one axis at a time.
// X and Z are each tested from the starting feet position so the result
// does not depend on axis order. A blocked vertical move keeps the old
// height and zeroes vertical velocity; landing also clears InAir.
func ResolveMovement(q Occupancy, c Capsule, b *Body, old, proposed mgl32.Vec3) {
	delta := proposed.Sub(old)
	pos := old
	b.InAir = true

	if delta.X() != 0 {
		tx := old.Add(mgl32.Vec3{delta.X(), 0, 0})
		if !c.Blocked(q, tx, 0) && !c.Blocked(q, tx, c.Height) {
			pos[0] = tx.X()
		}
	}

	if delta.Z() != 0 {
		tz := old.Add(mgl32.Vec3{0, 0, delta.Z()})
		if !c.Blocked(q, tz, 0) && !c.Blocked(q, tz, c.Height) {
			pos[2] = tz.Z()
		}
	}

	ty := old.Add(mgl32.Vec3{0, delta.Y(), 0})
	feetHit := c.Blocked(q, ty, 0)
	headHit := c.Blocked(q, ty, c.Height)

	switch {
	case delta.Y() > 0:
		if headHit {
			b.Velocity[1] = 0
		} else {
			pos[1] = ty.Y()
		}
	case delta.Y() < 0:
		if feetHit {
			b.Velocity[1] = 0
			b.InAir = false
		} else {
			pos[1] = ty.Y()
		}
	}

	b.Position = pos
}

// StepBody advances b by one frame: the input move plus gravity, then
// collision when enabled.
func StepBody(q Occupancy, c Capsule, b *Body, move mgl32.Vec3, dt float32) {
	old := b.Position
	proposed := old.Add(move)

	if b.Gravity {
		b.Velocity[1] += b.GravityAccel * dt
		proposed = proposed.Add(b.Velocity.Mul(dt))
	}

	if !b.Collision {
		b.InAir = true
		b.Position = proposed
		return
	}
	ResolveMovement(q, c, b, old, proposed)
}
