package voxfield

import (
	"fmt"

	"github.com/gekko3d/voxfield/voxelrt/rt/volume"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// World is the resource holding the voxel field shared by physics,
// picking and the device mirror.
type World struct {
	Field *volume.Field
	Seed  int64
	Rule  string
}

type WorldModule struct {
	Config WorldConfig
}

func (mod WorldModule) Install(app *App, cmd *Commands) {
	cfg := mod.Config
	rule, err := volume.RuleByName(cfg.Rule, cfg.Seed, cfg.Size)
	if err != nil {
		panic(fmt.Sprintf("world: %v", err))
	}

	field := volume.NewField(cfg.Size)
	field.Generate(cfg.Seed, volume.GenerateOptions{
		Padding:      cfg.Padding,
		PaddingValue: cfg.PaddingValue,
		Rule:         rule,
	})

	for _, st := range cfg.Structures {
		stampStructure(field, st)
	}

	logInfo(app.Logger(), "world generated",
		zap.Stringer("field", field.ID),
		zap.Int("size", field.Size),
		zap.Int64("seed", cfg.Seed),
		zap.String("rule", cfg.Rule),
		zap.Int("structures", len(cfg.Structures)),
		zap.Int("solid", field.SolidCount()),
		zap.Uint64("checksum", field.Checksum()),
	)

	cmd.AddResources(&World{Field: field, Seed: cfg.Seed, Rule: cfg.Rule})
}

func stampStructure(f *volume.Field, st StructureConfig) int {
	value := st.Value
	if value == 0 {
		value = volume.SolidValue
	}
	switch st.Kind {
	case "sphere":
		return volume.Sphere(f, mgl32.Vec3(st.Center), st.Radius, value)
	case "cube":
		return volume.Cube(f, mgl32.Vec3(st.Min), mgl32.Vec3(st.Max), value)
	}
	return 0
}
