package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/voxfield"
	"github.com/gekko3d/voxfield/voxelrt/rt/gpu"
	"github.com/gekko3d/voxfield/voxelrt/rt/gpu/gldevice"
	"github.com/gekko3d/voxfield/voxelrt/rt/gpu/wgpudevice"
	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "Enable debug logging and mirror verification")
	backend := flag.String("backend", "", "Device backend override: gl, wgpu or memory")
	seed := flag.Int64("seed", 0, "World seed override")
	flag.Parse()

	cfg := voxfield.DefaultConfig()
	if *configPath != "" {
		loaded, err := voxfield.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *backend != "" {
		cfg.Mirror.Backend = *backend
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *debug {
		cfg.Debug.Logging = true
		cfg.Debug.VerifyMirror = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg voxfield.Config) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	ws, err := createWindow(cfg.Window, cfg.Mirror.Backend)
	if err != nil {
		return err
	}
	defer ws.Destroy()

	width, height := ws.window.GetFramebufferSize()

	var (
		device  gpu.Device
		source  pick.PixelSource
		present func() error
		resize  func(width, height int) error
	)
	switch cfg.Mirror.Backend {
	case "gl":
		device = gldevice.New()
		target, err := gldevice.NewPickTarget(width, height)
		if err != nil {
			return err
		}
		defer target.Release()
		source = target
		present = func() error {
			// The pick pass draws into target after this clear.
			if err := target.Clear(); err != nil {
				return err
			}
			gl.ClearColor(0.1, 0.2, 0.3, 1.0)
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
			ws.window.SwapBuffers()
			return nil
		}
		resize = func(width, height int) error {
			gl.Viewport(0, 0, int32(width), int32(height))
			return target.Resize(width, height)
		}
	case "wgpu":
		g, err := createGpuState(ws)
		if err != nil {
			return err
		}
		defer g.release()
		device = wgpudevice.New(g.device)
		target, err := wgpudevice.NewPickTarget(g.device, width, height)
		if err != nil {
			return err
		}
		defer target.Release()
		source = target
		present = func() error {
			if err := target.Clear(); err != nil {
				return err
			}
			return g.present()
		}
		resize = func(width, height int) error {
			g.resize(width, height)
			return target.Resize(width, height)
		}
	default:
		device = gpu.NewMemoryDevice()
		present = func() error { return nil }
		resize = func(int, int) error { return nil }
	}

	app := voxfield.NewAppBuilder().
		UseModule(voxfield.LoggingModule{Prefix: "voxfield", Debug: cfg.Debug.Logging}).
		UseModule(voxfield.TimeModule{}).
		UseModule(voxfield.InputModule{Source: newGlfwInput(ws.window)}).
		UseModule(voxfield.WorldModule{Config: cfg.World}).
		UseModule(voxfield.MirrorModule{
			Device:           device,
			MaxEditsPerFrame: cfg.Mirror.MaxEditsPerFrame,
			Verify:           cfg.Debug.VerifyMirror,
		}).
		UseModule(voxfield.PlayerModule{Config: cfg.Player}).
		UseModule(voxfield.EditModule{Config: cfg.Edit, Source: source}).
		UseModule(voxfield.ProfilerModule{}).
		Build()

	lastWidth, lastHeight := 0, 0
	app.UseSystem(
		voxfield.System(func(input *voxfield.Input, player *voxfield.Player, cmd *voxfield.Commands) {
			if input.WindowWidth != lastWidth || input.WindowHeight != lastHeight {
				lastWidth, lastHeight = input.WindowWidth, input.WindowHeight
				player.Camera.SetAspect(lastWidth, lastHeight)
				if err := resize(lastWidth, lastHeight); err != nil {
					cmd.Logger().Warnf("resize: %v", err)
				}
			}
			if err := present(); err != nil {
				cmd.Logger().Warnf("present: %v", err)
			}
			if ws.window.ShouldClose() {
				cmd.Quit("window closed")
			}
		}).InStage(voxfield.Render),
	)
	if player, ok := voxfield.Resource[voxfield.Player](app); ok {
		player.Camera.SetAspect(width, height)
	}

	app.Run()

	if mirror, ok := voxfield.Resource[gpu.Mirror](app); ok {
		mirror.Release()
	}
	if logger, ok := app.Logger().(*voxfield.DefaultLogger); ok {
		_ = logger.Sync()
	}
	return nil
}
