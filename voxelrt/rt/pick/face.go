package pick

import (
	"github.com/chewxy/math32"
)

// Face identifies the side of a voxel a ray entered through. The order is
// part of the render encoding and must not change.
type Face uint8

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

const faceCount = 6

var faceNormals = [faceCount][3]int{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}

var faceNames = [faceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

func (f Face) Valid() bool { return f < faceCount }

// Normal is the outward unit normal of the face. Invalid faces return zero.
func (f Face) Normal() [3]int {
	if !f.Valid() {
		return [3]int{}
	}
	return faceNormals[f]
}

// Encode maps the face to the alpha channel value written by the pick pass.
func (f Face) Encode() float32 {
	return float32(f) / 5
}

func (f Face) String() string {
	if !f.Valid() {
		return "invalid"
	}
	return faceNames[f]
}

// DecodeFace rounds a*5 to the nearest face index.
func DecodeFace(a float32) (Face, error) {
	if math32.IsNaN(a) {
		return 0, ErrBadFace
	}
	i := math32.Round(a * 5)
	if i < 0 || i >= faceCount {
		return 0, ErrBadFace
	}
	return Face(i), nil
}

// faceFromStep is the face a ray crosses when it steps along axis in the
// given direction: moving +X enters the next cell through its -X side.
func faceFromStep(axis, step int) Face {
	if step > 0 {
		return Face(axis*2 + 1)
	}
	return Face(axis * 2)
}
