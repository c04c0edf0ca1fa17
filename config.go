package voxfield

import (
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/voxfield/voxelrt/rt/volume"
	"gopkg.in/yaml.v3"
)

type WorldConfig struct {
	Size         int    `yaml:"size"`
	Seed         int64  `yaml:"seed"`
	Padding      int    `yaml:"padding"`
	PaddingValue uint8  `yaml:"padding_value"`
	Rule         string `yaml:"rule"`
	// Structures are stamped over the generated terrain in order.
	Structures []StructureConfig `yaml:"structures"`
}

type StructureConfig struct {
	Kind   string     `yaml:"kind"`
	Center [3]float32 `yaml:"center"`
	Radius float32    `yaml:"radius"`
	Min    [3]float32 `yaml:"min"`
	Max    [3]float32 `yaml:"max"`
	Value  uint8      `yaml:"value"`
}

type PlayerConfig struct {
	Spawn        [3]float32 `yaml:"spawn"`
	Height       float32    `yaml:"height"`
	Radius       float32    `yaml:"radius"`
	JumpVelocity float32    `yaml:"jump_velocity"`
	Gravity      float32    `yaml:"gravity"`
	UseGravity   bool       `yaml:"use_gravity"`
	UseCollision bool       `yaml:"use_collision"`
	CameraSpeed  float32    `yaml:"camera_speed"`
	Fovy         float32    `yaml:"fovy"`
	Near         float32    `yaml:"near"`
	Far          float32    `yaml:"far"`
}

type MirrorConfig struct {
	Backend          string `yaml:"backend"`
	MaxEditsPerFrame int    `yaml:"max_edits_per_frame"`
}

type EditConfig struct {
	Picker   string `yaml:"picker"`
	MaxSteps int    `yaml:"max_steps"`
	Material uint8  `yaml:"material"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type DebugConfig struct {
	Logging      bool `yaml:"logging"`
	VerifyMirror bool `yaml:"verify_mirror"`
}

type Config struct {
	World  WorldConfig  `yaml:"world"`
	Player PlayerConfig `yaml:"player"`
	Mirror MirrorConfig `yaml:"mirror"`
	Edit   EditConfig   `yaml:"edit"`
	Window WindowConfig `yaml:"window"`
	Debug  DebugConfig  `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			Size:    volume.DefaultWorldSize,
			Padding: volume.DefaultPadding,
			Rule:    "random",
		},
		Player: PlayerConfig{
			Spawn:        [3]float32{199, 228, 68},
			Height:       PlayerHeight,
			Radius:       PlayerRadius,
			JumpVelocity: JumpVelocity,
			Gravity:      GravityConstant,
			UseGravity:   true,
			UseCollision: true,
			CameraSpeed:  0.025,
			Fovy:         90,
			Near:         0.1,
			Far:          1000,
		},
		Mirror: MirrorConfig{
			Backend:          "gl",
			MaxEditsPerFrame: 4096,
		},
		Edit: EditConfig{
			Picker:   "ray",
			MaxSteps: 512,
			Material: volume.SolidValue,
		},
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "voxfield",
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.World.Size <= 0 {
		bad("world.size must be positive, got %d", c.World.Size)
	}
	if c.World.Padding < 0 {
		bad("world.padding must not be negative, got %d", c.World.Padding)
	}
	if _, err := volume.RuleByName(c.World.Rule, c.World.Seed, max(c.World.Size, 1)); err != nil {
		bad("world.rule: %v", err)
	}
	for i, st := range c.World.Structures {
		switch st.Kind {
		case "sphere":
			if st.Radius <= 0 {
				bad("world.structures[%d]: sphere radius must be positive", i)
			}
		case "cube":
		default:
			bad("world.structures[%d]: kind %q is not one of sphere, cube", i, st.Kind)
		}
	}
	if c.Player.Height <= 0 || c.Player.Radius <= 0 {
		bad("player height and radius must be positive")
	}
	if c.Player.Near <= 0 || c.Player.Far <= c.Player.Near {
		bad("player near/far planes out of order: %v/%v", c.Player.Near, c.Player.Far)
	}
	switch c.Mirror.Backend {
	case "gl", "wgpu", "memory":
	default:
		bad("mirror.backend %q is not one of gl, wgpu, memory", c.Mirror.Backend)
	}
	if c.Mirror.MaxEditsPerFrame <= 0 {
		bad("mirror.max_edits_per_frame must be positive")
	}
	switch c.Edit.Picker {
	case "ray", "render":
	default:
		bad("edit.picker %q is not one of ray, render", c.Edit.Picker)
	}
	if c.Edit.MaxSteps <= 0 {
		bad("edit.max_steps must be positive")
	}
	return errors.Join(errs...)
}
