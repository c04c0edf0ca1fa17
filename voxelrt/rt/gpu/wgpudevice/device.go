// Package wgpudevice mirrors a voxel field into a WebGPU 3D texture.
package wgpudevice

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
)

const copyRowAlignment = 256

func alignRow(n uint32) uint32 {
	return (n + copyRowAlignment - 1) &^ (copyRowAlignment - 1)
}

// Device holds an R8Unorm 3D texture with a nearest, clamp-to-edge sampler.
type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	Texture *wgpu.Texture
	view    *wgpu.TextureView
	Sampler *wgpu.Sampler
	size    uint32
}

func New(device *wgpu.Device) *Device {
	return &Device{device: device, queue: device.GetQueue()}
}

// View is bound by the render pass.
func (d *Device) View() *wgpu.TextureView { return d.view }

func (d *Device) UploadFull(cells []uint8, size int) error {
	if len(cells) != size*size*size {
		return fmt.Errorf("wgpudevice: got %d cells for size %d", len(cells), size)
	}
	d.releaseTexture()

	s := uint32(size)
	extent := wgpu.Extent3D{Width: s, Height: s, DepthOrArrayLayers: s}
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "VoxelField",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension3D,
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("wgpudevice: create texture: %w", err)
	}
	d.Texture = tex
	d.size = s

	d.view, err = tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("wgpudevice: create view: %w", err)
	}
	if d.Sampler == nil {
		d.Sampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeNearest,
			MinFilter:     wgpu.FilterModeNearest,
			MaxAnisotropy: 1,
		})
		if err != nil {
			return fmt.Errorf("wgpudevice: create sampler: %w", err)
		}
	}

	err = d.queue.WriteTexture(
		tex.AsImageCopy(),
		cells,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  s,
			RowsPerImage: s,
		},
		&extent,
	)
	if err != nil {
		return fmt.Errorf("wgpudevice: write texture: %w", err)
	}
	return nil
}

func (d *Device) UploadCell(x, y, z int, v uint8) error {
	if d.Texture == nil {
		return fmt.Errorf("wgpudevice: texture not created")
	}
	err := d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  d.Texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{X: uint32(x), Y: uint32(y), Z: uint32(z)},
		},
		[]byte{v},
		&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: 1, RowsPerImage: 1},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpudevice: write cell (%d,%d,%d): %w", x, y, z, err)
	}
	return nil
}

// ReadAll copies the texture into a mappable buffer and waits for it.
func (d *Device) ReadAll() ([]uint8, error) {
	if d.Texture == nil {
		return nil, fmt.Errorf("wgpudevice: texture not created")
	}
	s := d.size
	rowPitch := alignRow(s)
	raw, err := readback(d.device, d.queue,
		&wgpu.ImageCopyTexture{Texture: d.Texture, MipLevel: 0},
		wgpu.Extent3D{Width: s, Height: s, DepthOrArrayLayers: s}, rowPitch)
	if err != nil {
		return nil, err
	}

	out := make([]uint8, s*s*s)
	for z := uint32(0); z < s; z++ {
		for y := uint32(0); y < s; y++ {
			src := (z*s + y) * rowPitch
			copy(out[(z*s+y)*s:(z*s+y+1)*s], raw[src:src+s])
		}
	}
	return out, nil
}

func (d *Device) ReadCell(x, y, z int) (uint8, error) {
	s := int(d.size)
	if x < 0 || y < 0 || z < 0 || x >= s || y >= s || z >= s {
		return 0, fmt.Errorf("wgpudevice: cell (%d,%d,%d) outside %d^3", x, y, z, s)
	}
	raw, err := readback(d.device, d.queue,
		&wgpu.ImageCopyTexture{
			Texture: d.Texture,
			Origin:  wgpu.Origin3D{X: uint32(x), Y: uint32(y), Z: uint32(z)},
		},
		wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1}, copyRowAlignment)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

func (d *Device) releaseTexture() {
	if d.view != nil {
		d.view.Release()
		d.view = nil
	}
	if d.Texture != nil {
		d.Texture.Release()
		d.Texture = nil
	}
}

func (d *Device) Release() {
	d.releaseTexture()
	if d.Sampler != nil {
		d.Sampler.Release()
		d.Sampler = nil
	}
}

// readback copies a texture region into a buffer and blocks until mapped.
func readback(device *wgpu.Device, queue *wgpu.Queue, src *wgpu.ImageCopyTexture, extent wgpu.Extent3D, rowPitch uint32) ([]byte, error) {
	size := uint64(rowPitch) * uint64(extent.Height) * uint64(extent.DepthOrArrayLayers)
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "VoxelReadback",
		Size:  size,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudevice: create readback buffer: %w", err)
	}
	defer buf.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpudevice: create encoder: %w", err)
	}
	encoder.CopyTextureToBuffer(
		src,
		&wgpu.ImageCopyBuffer{
			Buffer: buf,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  rowPitch,
				RowsPerImage: extent.Height,
			},
		},
		&extent,
	)
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpudevice: finish encoder: %w", err)
	}
	queue.Submit(cmd)

	var status wgpu.BufferMapAsyncStatus
	mapped := false
	buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		mapped = true
	})
	device.Poll(true, nil)
	if !mapped || status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("wgpudevice: map readback buffer: status %v", status)
	}
	data := buf.GetMappedRange(0, uint(size))
	out := make([]byte, len(data))
	copy(out, data)
	buf.Unmap()
	return out, nil
}

// PixelReader reads the center texel of an RGBA32Float pick target.
type PixelReader struct {
	Device *wgpu.Device
	Target *wgpu.Texture
	Width  uint32
	Height uint32
}

func (r PixelReader) ReadCenterPixel() (pick.Encoded, error) {
	raw, err := readback(r.Device, r.Device.GetQueue(),
		&wgpu.ImageCopyTexture{
			Texture: r.Target,
			Origin:  wgpu.Origin3D{X: r.Width / 2, Y: r.Height / 2},
		},
		wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1}, copyRowAlignment)
	if err != nil {
		return pick.Encoded{}, err
	}
	var px pick.Encoded
	for i := range px {
		px[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return px, nil
}
