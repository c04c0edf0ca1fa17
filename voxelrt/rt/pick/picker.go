package pick

import "fmt"

// Picker resolves the voxel the player is aiming at.
type Picker interface {
	Pick(placing bool) (Target, error)
}

// RenderPicker decodes the center pixel of the pick pass.
type RenderPicker struct {
	Source PixelSource
	Size   int
}

func (p RenderPicker) Pick(placing bool) (Target, error) {
	enc, err := p.Source.ReadCenterPixel()
	if err != nil {
		return Target{}, fmt.Errorf("read pick pixel: %w", err)
	}
	return Decode(enc, p.Size, placing)
}

type RaySource interface {
	CenterRay() Ray
}

// RayPicker traverses the field on the CPU along the camera's center ray.
type RayPicker struct {
	Field    Occupancy
	Size     int
	Camera   RaySource
	MaxSteps int
}

func (p RayPicker) Pick(placing bool) (Target, error) {
	hit := Raycast(p.Field, p.Size, p.Camera.CenterRay(), p.MaxSteps)
	return hit.Target(placing, p.Size)
}
