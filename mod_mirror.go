package voxfield

import (
	"fmt"

	"github.com/gekko3d/voxfield/voxelrt/rt/gpu"
	"go.uber.org/zap"
)

// MirrorModule uploads the world to a device texture once and flushes
// queued cell edits every frame before rendering.
type MirrorModule struct {
	Device           gpu.Device
	MaxEditsPerFrame int
	// Verify compares device and host after every flush and panics on
	// divergence. Needs a device that implements gpu.Reader.
	Verify bool
}

type mirrorSettings struct {
	verify      bool
	lastFlushes int
}

func (mod MirrorModule) Install(app *App, cmd *Commands) {
	world, ok := Resource[World](app)
	if !ok {
		panic("MirrorModule requires WorldModule to be installed first")
	}
	if mod.Device == nil {
		panic("MirrorModule requires a device")
	}

	mirror := gpu.NewMirror(mod.Device, gpu.MirrorOptions{MaxEditsPerFrame: mod.MaxEditsPerFrame})
	if err := mirror.UploadFull(world.Field); err != nil {
		app.Logger().Errorf("mirror upload failed: %v", err)
		panic(fmt.Sprintf("mirror: %v", err))
	}
	_, readable := mod.Device.(gpu.Reader)
	logInfo(app.Logger(), "device mirror uploaded",
		zap.Stringer("field", world.Field.ID),
		zap.String("device", fmt.Sprintf("%T", mod.Device)),
		zap.Int("max_edits_per_frame", mirror.MaxEditsPerFrame),
		zap.Bool("verify", mod.Verify && readable),
	)

	cmd.AddResources(mirror, &mirrorSettings{verify: mod.Verify})
	app.UseSystem(
		System(mirrorFlushSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

func mirrorFlushSystem(world *World, mirror *gpu.Mirror, settings *mirrorSettings, cmd *Commands) {
	if err := mirror.Flush(); err != nil {
		cmd.Logger().Warnf("mirror flush: %v (%d edits still queued)", err, mirror.Pending())
		return
	}
	if !settings.verify || mirror.Stats.Flushes == settings.lastFlushes {
		return
	}
	settings.lastFlushes = mirror.Stats.Flushes
	if err := mirror.Verify(world.Field); err != nil {
		cmd.Logger().Errorf("mirror verify: %v", err)
		panic(err)
	}
}
