package voxfield

import (
	"time"
)

const defaultMaxDt = 0.1

// Time holds the frame clock. Dt is in seconds and clamped to MaxDt so a
// stall does not tunnel bodies through the world.
type Time struct {
	Time    time.Time
	Dt      float32
	Elapsed float32
	Frame   uint64
	MaxDt   float32

	now func() time.Time
}

type TimeModule struct {
	MaxDt float32
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	maxDt := mod.MaxDt
	if maxDt <= 0 {
		maxDt = defaultMaxDt
	}
	cmd.AddResources(&Time{
		Time:  time.Now(),
		MaxDt: maxDt,
		now:   time.Now,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

func timeSystem(timeResource *Time) {
	clock := timeResource.now
	if clock == nil {
		clock = time.Now
	}
	now := clock()

	dt := float32(now.Sub(timeResource.Time).Seconds())
	if dt < 0 {
		dt = 0
	}
	if timeResource.MaxDt > 0 && dt > timeResource.MaxDt {
		dt = timeResource.MaxDt
	}
	timeResource.Dt = dt
	timeResource.Elapsed += dt
	timeResource.Frame++
	timeResource.Time = now
}
