package volume

import (
	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	DefaultWorldSize = 256
	DefaultPadding   = 32

	// Material code written by the default fill rules. Any nonzero code is solid.
	SolidValue uint8 = 255
)

// Field is a dense cube of 1-byte material codes addressed as
// x + y*Size + z*Size*Size. Zero is air.
type Field struct {
	ID    uuid.UUID
	Size  int
	Cells []uint8
}

func NewField(size int) *Field {
	if size <= 0 {
		panic("volume: field size must be positive")
	}
	return &Field{
		ID:    uuid.New(),
		Size:  size,
		Cells: make([]uint8, size*size*size),
	}
}

// Extent returns the edge length of the cube.
func (f *Field) Extent() int {
	return f.Size
}

func (f *Field) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < f.Size && y < f.Size && z < f.Size
}

// Index assumes the coordinate is in bounds.
func (f *Field) Index(x, y, z int) int {
	return x + y*f.Size + z*f.Size*f.Size
}

// IsVoxel reports whether the cell containing p is solid. Coordinates are
// truncated toward zero, so -0.5 lands in cell 0. Points outside the cube are
// never solid.
func (f *Field) IsVoxel(p mgl32.Vec3) bool {
	x, y, z := int(p.X()), int(p.Y()), int(p.Z())
	if x < 0 || y < 0 || z < 0 || x >= f.Size || y >= f.Size || z >= f.Size {
		return false
	}
	return f.Cells[x+y*f.Size+z*f.Size*f.Size] != 0
}

// GetVoxel returns the material code at (x,y,z), or 0 out of range.
func (f *Field) GetVoxel(x, y, z int) uint8 {
	if !f.InBounds(x, y, z) {
		return 0
	}
	return f.Cells[f.Index(x, y, z)]
}

// SetVoxel overwrites one cell. Out-of-range writes are dropped silently.
// The device mirror is not touched; callers sync it explicitly.
func (f *Field) SetVoxel(x, y, z int, val uint8) {
	if !f.InBounds(x, y, z) {
		return
	}
	f.Cells[f.Index(x, y, z)] = val
}

// Snapshot returns a copy of the cells that is safe to hand to an
// asynchronous upload while the field keeps changing.
func (f *Field) Snapshot() []uint8 {
	out := make([]uint8, len(f.Cells))
	copy(out, f.Cells)
	return out
}

func (f *Field) SolidCount() int {
	count := 0
	for _, c := range f.Cells {
		if c != 0 {
			count++
		}
	}
	return count
}

func (f *Field) Checksum() uint64 {
	return xxhash.Sum64(f.Cells)
}

// Coord converts a flat index back to (x,y,z).
func (f *Field) Coord(idx int) (int, int, int) {
	s := f.Size
	return idx % s, (idx / s) % s, idx / (s * s)
}
