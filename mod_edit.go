package voxfield

import (
	"errors"

	"github.com/gekko3d/voxfield/voxelrt/rt/gpu"
	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
	"github.com/gekko3d/voxfield/voxelrt/rt/volume"
)

// Editor turns clicks into single-cell edits. Left button removes the aimed
// voxel, right button places one against the aimed face.
type Editor struct {
	Picker   pick.Picker
	Material uint8
	Mirror   *gpu.Mirror

	LastTarget pick.Target
	Placed     int
	Removed    int
	Rejected   int
}

type EditModule struct {
	Config EditConfig
	// Source reads the pick pass. Required for the render picker.
	Source pick.PixelSource
}

func (mod EditModule) Install(app *App, cmd *Commands) {
	world, ok := Resource[World](app)
	if !ok {
		panic("EditModule requires WorldModule to be installed first")
	}

	var picker pick.Picker
	if mod.Config.Picker == "render" {
		if mod.Source != nil {
			picker = pick.RenderPicker{Source: mod.Source, Size: world.Field.Size}
		} else {
			app.Logger().Warnf("render picker needs a pixel source, using ray picker")
		}
	}
	if picker == nil {
		player, ok := Resource[Player](app)
		if !ok {
			panic("EditModule ray picker requires PlayerModule to be installed first")
		}
		picker = pick.RayPicker{
			Field:    world.Field,
			Size:     world.Field.Size,
			Camera:   player.Camera,
			MaxSteps: mod.Config.MaxSteps,
		}
	}

	material := mod.Config.Material
	if material == 0 {
		material = volume.SolidValue
	}
	editor := &Editor{Picker: picker, Material: material}
	if mirror, ok := Resource[gpu.Mirror](app); ok {
		editor.Mirror = mirror
	}

	cmd.AddResources(editor)
	app.UseSystem(
		System(editSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func editSystem(input *Input, world *World, editor *Editor, cmd *Commands) {
	if !input.MouseCaptured {
		return
	}
	if input.JustReleased[MouseButtonLeft] {
		editor.Apply(world.Field, false, cmd.Logger())
	}
	if input.JustReleased[MouseButtonRight] {
		editor.Apply(world.Field, true, cmd.Logger())
	}
}

// Apply resolves the aimed cell, writes it and queues it for the device.
// Misses and targets outside the world are dropped.
func (e *Editor) Apply(f *volume.Field, placing bool, log Logger) bool {
	target, err := e.Picker.Pick(placing)
	if err != nil {
		e.Rejected++
		if errors.Is(err, pick.ErrNoHit) || errors.Is(err, pick.ErrOutOfRange) {
			log.Debugf("edit dropped: %v (cell %v)", err, target.Cell)
		} else {
			log.Warnf("pick failed: %v", err)
		}
		return false
	}

	x, y, z := target.Cell[0], target.Cell[1], target.Cell[2]
	value := uint8(0)
	if placing {
		value = e.Material
	}
	f.SetVoxel(x, y, z, value)
	if e.Mirror != nil {
		if err := e.Mirror.SyncCell(f, x, y, z); err != nil {
			log.Warnf("mirror sync (%d,%d,%d): %v", x, y, z, err)
		}
	}

	e.LastTarget = target
	if placing {
		e.Placed++
		log.Debugf("placed voxel (%d,%d,%d) on face %s", x, y, z, target.Face)
	} else {
		e.Removed++
		log.Debugf("removed voxel (%d,%d,%d)", x, y, z)
	}
	return true
}
