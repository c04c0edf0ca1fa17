// Package gldevice mirrors a voxel field into an OpenGL 3D texture. All
// calls must happen on the thread that owns the GL context.
package gldevice

import (
	"fmt"

	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Device is a GL_TEXTURE_3D of GL_R8 texels sampled with nearest filtering.
type Device struct {
	tex  uint32
	size int
}

func New() *Device {
	return &Device{}
}

// Texture returns the GL texture name for binding in the render pass.
func (d *Device) Texture() uint32 { return d.tex }

func (d *Device) UploadFull(cells []uint8, size int) error {
	if len(cells) != size*size*size {
		return fmt.Errorf("gldevice: got %d cells for size %d", len(cells), size)
	}
	if d.tex == 0 {
		gl.GenTextures(1, &d.tex)
	}
	gl.BindTexture(gl.TEXTURE_3D, d.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage3D(gl.TEXTURE_3D, 0, gl.R8, int32(size), int32(size), int32(size), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(cells))

	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_3D, 0)

	if err := glError("upload texture"); err != nil {
		return err
	}
	d.size = size
	return nil
}

func (d *Device) UploadCell(x, y, z int, v uint8) error {
	if d.tex == 0 {
		return fmt.Errorf("gldevice: texture not created")
	}
	texel := [1]uint8{v}
	gl.BindTexture(gl.TEXTURE_3D, d.tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage3D(gl.TEXTURE_3D, 0, int32(x), int32(y), int32(z), 1, 1, 1,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(&texel[0]))
	gl.BindTexture(gl.TEXTURE_3D, 0)
	return glError("upload cell")
}

// ReadAll copies the whole texture back with glGetTexImage. Debug only.
func (d *Device) ReadAll() ([]uint8, error) {
	if d.tex == 0 {
		return nil, fmt.Errorf("gldevice: texture not created")
	}
	out := make([]uint8, d.size*d.size*d.size)
	gl.BindTexture(gl.TEXTURE_3D, d.tex)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_3D, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(out))
	gl.BindTexture(gl.TEXTURE_3D, 0)
	if err := glError("read texture"); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Device) ReadCell(x, y, z int) (uint8, error) {
	s := d.size
	if x < 0 || y < 0 || z < 0 || x >= s || y >= s || z >= s {
		return 0, fmt.Errorf("gldevice: cell (%d,%d,%d) outside %d^3", x, y, z, s)
	}
	all, err := d.ReadAll()
	if err != nil {
		return 0, err
	}
	return all[x+y*s+z*s*s], nil
}

func (d *Device) Release() {
	if d.tex != 0 {
		gl.DeleteTextures(1, &d.tex)
		d.tex = 0
	}
}

// PixelReader reads the pick pass result at the center of a framebuffer.
type PixelReader struct {
	// Framebuffer holding the RGBA32F pick target. Zero reads the default
	// framebuffer, which is never cleared to pick.Background.
	Framebuffer uint32
	// Width and Height of the target. Zero uses the current viewport.
	Width, Height int32
}

func (r PixelReader) ReadCenterPixel() (pick.Encoded, error) {
	x, y := r.Width/2, r.Height/2
	if r.Width == 0 || r.Height == 0 {
		var vp [4]int32
		gl.GetIntegerv(gl.VIEWPORT, &vp[0])
		x, y = vp[0]+vp[2]/2, vp[1]+vp[3]/2
	}

	var px pick.Encoded
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.Framebuffer)
	gl.ReadPixels(x, y, 1, 1, gl.RGBA, gl.FLOAT, gl.Ptr(&px[0]))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if err := glError("read pick pixel"); err != nil {
		return pick.Encoded{}, err
	}
	return px, nil
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gldevice: %s: GL error 0x%x", op, code)
	}
	return nil
}
