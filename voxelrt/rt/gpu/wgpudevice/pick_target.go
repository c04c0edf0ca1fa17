package wgpudevice

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
)

// PickFormat is the color format of the pick pass.
const PickFormat = wgpu.TextureFormatRGBA32Float

// PickTarget is the RGBA32Float texture the pick pass renders into. Clear
// fills it with pick.Background so uncovered pixels decode as a miss.
type PickTarget struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	Texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
}

func NewPickTarget(device *wgpu.Device, width, height int) (*PickTarget, error) {
	t := &PickTarget{device: device, queue: device.GetQueue()}
	if err := t.Resize(width, height); err != nil {
		return nil, err
	}
	return t, nil
}

// View is the color attachment for the pick pass.
func (t *PickTarget) View() *wgpu.TextureView { return t.view }

// Resize recreates the texture at the new size and clears it.
func (t *PickTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	t.releaseTexture()

	tex, err := t.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "PickTarget",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        PickFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpudevice: create pick target: %w", err)
	}
	t.Texture = tex
	t.width, t.height = uint32(width), uint32(height)

	t.view, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("wgpudevice: create pick view: %w", err)
	}
	return t.Clear()
}

// Clear runs an empty pass that loads pick.Background into the target.
func (t *PickTarget) Clear() error {
	if t.view == nil {
		return fmt.Errorf("wgpudevice: pick target not created")
	}
	encoder, err := t.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("wgpudevice: create encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       t.view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: ClearColor(),
			},
		},
	})
	defer pass.Release()
	if err := pass.End(); err != nil {
		return fmt.Errorf("wgpudevice: clear pick target: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("wgpudevice: finish encoder: %w", err)
	}
	defer cmd.Release()
	t.queue.Submit(cmd)
	return nil
}

// Reader reads the center texel of this target at its current size.
func (t *PickTarget) Reader() PixelReader {
	return PixelReader{Device: t.device, Target: t.Texture, Width: t.width, Height: t.height}
}

func (t *PickTarget) ReadCenterPixel() (pick.Encoded, error) {
	if t.Texture == nil {
		return pick.Encoded{}, fmt.Errorf("wgpudevice: pick target not created")
	}
	return t.Reader().ReadCenterPixel()
}

func (t *PickTarget) releaseTexture() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}

func (t *PickTarget) Release() {
	t.releaseTexture()
}

// ClearColor is the clear value of a pick target.
func ClearColor() wgpu.Color {
	b := pick.Background
	return wgpu.Color{R: float64(b[0]), G: float64(b[1]), B: float64(b[2]), A: float64(b[3])}
}
