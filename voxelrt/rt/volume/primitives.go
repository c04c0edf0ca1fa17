package volume

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sphere sets every cell whose center lies within radius of center and
// returns the number of cells written. Cells outside the field are skipped.
func Sphere(f *Field, center mgl32.Vec3, radius float32, value uint8) int {
	r2 := radius * radius
	lo, hi := f.clampBox(center.Sub(mgl32.Vec3{radius, radius, radius}), center.Add(mgl32.Vec3{radius, radius, radius}))

	n := 0
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				d := mgl32.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5}.Sub(center)
				if d.Dot(d) <= r2 {
					f.Cells[f.Index(x, y, z)] = value
					n++
				}
			}
		}
	}
	return n
}

// Cube sets every cell between the floors of minB and maxB inclusive.
func Cube(f *Field, minB, maxB mgl32.Vec3, value uint8) int {
	lo, hi := f.clampBox(minB, maxB)

	n := 0
	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				f.Cells[f.Index(x, y, z)] = value
				n++
			}
		}
	}
	return n
}

// clampBox converts a world box to inclusive cell bounds inside the field.
// An empty box yields lo > hi on some axis.
func (f *Field) clampBox(minB, maxB mgl32.Vec3) (lo, hi [3]int) {
	for i := 0; i < 3; i++ {
		lo[i] = max(int(math32.Floor(minB[i])), 0)
		hi[i] = min(int(math32.Floor(maxB[i])), f.Size-1)
	}
	return lo, hi
}
