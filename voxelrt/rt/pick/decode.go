package pick

import (
	"errors"

	"github.com/chewxy/math32"
)

var (
	ErrNoHit      = errors.New("pick: no voxel under the cursor")
	ErrOutOfRange = errors.New("pick: target cell outside the world")
	ErrBadFace    = errors.New("pick: face index out of range")
)

// DecodeBias is added to the floored coordinate read back from the pick
// pass. The asymmetry between X/Y and Z is part of the encoding contract.
var DecodeBias = [3]int{1, 1, 0}

// Encoded is one RGBA float pixel of the pick pass: voxel/size in RGB and
// face/5 in A. The clear color is all -1.
type Encoded [4]float32

// Background is the value of pixels where no voxel was hit.
var Background = Encoded{-1, -1, -1, -1}

// PixelSource reads the pick pass pixel at the viewport center.
type PixelSource interface {
	ReadCenterPixel() (Encoded, error)
}

// Target is a resolved edit location. Cell is the cell to write: the hit
// itself when removing, the neighbour across Face when placing.
type Target struct {
	Hit  [3]int
	Face Face
	Cell [3]int
}

func inGrid(c [3]int, size int) bool {
	return c[0] >= 0 && c[1] >= 0 && c[2] >= 0 && c[0] < size && c[1] < size && c[2] < size
}

func newTarget(hit [3]int, face Face, placing bool) Target {
	t := Target{Hit: hit, Face: face, Cell: hit}
	if placing {
		n := face.Normal()
		t.Cell = [3]int{hit[0] + n[0], hit[1] + n[1], hit[2] + n[2]}
	}
	return t
}

// Decode turns a pick pixel into an edit target. Both the hit and the cell
// to write must lie inside the grid. The returned Target is filled in even
// when err is ErrOutOfRange so callers can log it.
func Decode(enc Encoded, size int, placing bool) (Target, error) {
	if enc[0] < 0 && enc[1] < 0 && enc[2] < 0 && enc[3] < 0 {
		return Target{}, ErrNoHit
	}
	face, err := DecodeFace(enc[3])
	if err != nil {
		return Target{}, err
	}

	var hit [3]int
	for i := 0; i < 3; i++ {
		c := enc[i]
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return Target{}, ErrOutOfRange
		}
		hit[i] = int(math32.Floor(c*float32(size))) + DecodeBias[i]
	}

	t := newTarget(hit, face, placing)
	if !inGrid(hit, size) || !inGrid(t.Cell, size) {
		return t, ErrOutOfRange
	}
	return t, nil
}

// EncodeHit produces the pixel the pick pass writes for a voxel, sampling
// the cell center so the floor in Decode is exact.
func EncodeHit(voxel [3]int, face Face, size int) Encoded {
	s := float32(size)
	return Encoded{
		(float32(voxel[0]) + 0.5) / s,
		(float32(voxel[1]) + 0.5) / s,
		(float32(voxel[2]) + 0.5) / s,
		face.Encode(),
	}
}

// StaticSource returns a fixed pixel. Used in tests and headless runs.
type StaticSource struct {
	Pixel Encoded
	Err   error
	Reads int
}

func (s *StaticSource) ReadCenterPixel() (Encoded, error) {
	s.Reads++
	if s.Err != nil {
		return Encoded{}, s.Err
	}
	return s.Pixel, nil
}
