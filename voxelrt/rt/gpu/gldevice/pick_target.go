package gldevice

import (
	"fmt"

	"github.com/gekko3d/voxfield/voxelrt/rt/pick"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// PickTarget is the offscreen RGBA32F framebuffer the pick pass draws into.
// It is kept apart from the default framebuffer so the window clear color is
// never read back as a hit.
type PickTarget struct {
	fbo    uint32
	tex    uint32
	width  int32
	height int32
}

func NewPickTarget(width, height int) (*PickTarget, error) {
	t := &PickTarget{}
	gl.GenFramebuffers(1, &t.fbo)
	gl.GenTextures(1, &t.tex)
	if err := t.Resize(width, height); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Framebuffer returns the GL framebuffer name for the pick pass.
func (t *PickTarget) Framebuffer() uint32 { return t.fbo }

// Resize reallocates the color attachment and clears it.
func (t *PickTarget) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	t.width, t.height = int32(width), int32(height)

	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, t.width, t.height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("gldevice: pick framebuffer incomplete: 0x%x", status)
	}
	if err := glError("resize pick target"); err != nil {
		return err
	}
	return t.Clear()
}

// Clear fills the target with pick.Background. Call it at the start of every
// pick pass.
func (t *PickTarget) Clear() error {
	c := ClearColor()
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return glError("clear pick target")
}

// Reader reads the center texel of this target.
func (t *PickTarget) Reader() PixelReader {
	return PixelReader{Framebuffer: t.fbo, Width: t.width, Height: t.height}
}

func (t *PickTarget) ReadCenterPixel() (pick.Encoded, error) {
	return t.Reader().ReadCenterPixel()
}

func (t *PickTarget) Release() {
	if t.tex != 0 {
		gl.DeleteTextures(1, &t.tex)
		t.tex = 0
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
}

// ClearColor is the RGBA a pick target is cleared to.
func ClearColor() [4]float32 {
	return [4]float32(pick.Background)
}
