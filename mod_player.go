package voxfield

import (
	"github.com/gekko3d/voxfield/voxelrt/rt/core"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	speedStep      = 0.025
	speedStepShift = 0.1
)

type Player struct {
	Body    Body
	Capsule Capsule
	Camera  *core.Camera
}

// NewPlayer places the camera at cfg.Spawn; the feet sit one body height
// below it.
func NewPlayer(cfg PlayerConfig) *Player {
	capsule := Capsule{Height: cfg.Height, Radius: cfg.Radius}
	eye := mgl32.Vec3{cfg.Spawn[0], cfg.Spawn[1], cfg.Spawn[2]}

	body := NewBody(eye.Sub(mgl32.Vec3{0, capsule.Height, 0}))
	body.Gravity = cfg.UseGravity
	body.Collision = cfg.UseCollision
	body.JumpVelocity = cfg.JumpVelocity
	body.GravityAccel = cfg.Gravity

	cam := core.NewCamera()
	cam.Eye = eye
	cam.Fovy = cfg.Fovy
	cam.Near = cfg.Near
	cam.Far = cfg.Far
	cam.Speed = cfg.CameraSpeed
	cam.FPSControls = body.Gravity

	return &Player{Body: body, Capsule: capsule, Camera: cam}
}

type PlayerModule struct {
	Config PlayerConfig
}

func (mod PlayerModule) Install(app *App, cmd *Commands) {
	player := NewPlayer(mod.Config)
	cmd.AddResources(player, player.Camera)
	app.UseSystem(
		System(playerControlSystem).
			InStage(Update).
			RunAlways(),
	)
}

func playerControlSystem(t *Time, input *Input, world *World, player *Player, cmd *Commands) {
	if input.JustPressed[KeyEscape] {
		cmd.Quit("escape pressed")
		return
	}
	if input.JustPressed[KeyF] {
		input.MouseCaptured = true
	}
	if input.JustPressed[KeyG] {
		input.MouseCaptured = false
	}

	body := &player.Body
	if input.JustPressed[KeyF1] {
		body.Gravity = !body.Gravity
		body.Velocity = mgl32.Vec3{}
		cmd.Logger().Debugf("gravity %v", body.Gravity)
	}
	if input.JustPressed[KeyF2] {
		body.Collision = !body.Collision
		cmd.Logger().Debugf("collision %v", body.Collision)
	}

	cam := player.Camera
	if input.MouseCaptured {
		cam.MouseLook(float32(input.MouseDeltaX), float32(input.MouseDeltaY))
	}
	if input.ScrollY != 0 {
		step := float32(speedStep)
		if input.Pressed[KeyShift] {
			step = speedStepShift
		}
		if input.ScrollY < 0 {
			step = -step
		}
		cam.Speed = max(cam.Speed+step, 0)
	}

	var forward, right, up float32
	if input.Pressed[KeyW] {
		forward++
	}
	if input.Pressed[KeyS] {
		forward--
	}
	if input.Pressed[KeyD] {
		right++
	}
	if input.Pressed[KeyA] {
		right--
	}
	if input.Pressed[KeyControl] {
		up--
	}
	if input.Pressed[KeySpace] {
		if body.Gravity {
			body.Jump()
		} else {
			up++
		}
	}

	cam.FPSControls = body.Gravity
	StepBody(world.Field, player.Capsule, body, cam.MoveVector(forward, right, up), t.Dt)
	cam.Eye = body.Eye(player.Capsule)
}
