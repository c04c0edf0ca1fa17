package pick

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Occupancy is the point query shared with collision.
type Occupancy interface {
	IsVoxel(p mgl32.Vec3) bool
}

type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is the result of an analytic traversal. Only Valid hits carry data.
type Hit struct {
	Valid    bool
	Voxel    [3]int
	Position mgl32.Vec3
	Face     Face
	T        float32
	Steps    int
}

// Target converts the hit to an edit target. No decode bias applies here.
func (h Hit) Target(placing bool, size int) (Target, error) {
	if !h.Valid {
		return Target{}, ErrNoHit
	}
	t := newTarget(h.Voxel, h.Face, placing)
	if !inGrid(t.Cell, size) {
		return t, ErrOutOfRange
	}
	return t, nil
}

// intersectGrid clips the ray against the [0,size]^3 box. axis is the slab
// the ray entered through, or -1 when the origin is already inside.
func intersectGrid(origin, dir mgl32.Vec3, size float32) (tEnter, tExit float32, axis int, ok bool) {
	tEnter = math32.Inf(-1)
	tExit = math32.Inf(1)
	axis = -1
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < 0 || origin[i] > size {
				return 0, 0, -1, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (0 - origin[i]) * inv
		t2 := (size - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEnter {
			tEnter = t1
			axis = i
		}
		tExit = math32.Min(tExit, t2)
	}
	if tExit < math32.Max(tEnter, 0) {
		return 0, 0, -1, false
	}
	if tEnter < 0 {
		tEnter = 0
		axis = -1
	}
	return tEnter, tExit, axis, true
}

// Raycast walks the grid cell by cell (Amanatides & Woo) and returns the
// first solid cell with the face the ray entered through. Each cell is
// tested at its center so truncation in IsVoxel selects exactly that cell.
func Raycast(q Occupancy, size int, ray Ray, maxSteps int) Hit {
	if maxSteps <= 0 || size <= 0 {
		return Hit{}
	}
	l := ray.Direction.Len()
	if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return Hit{}
	}
	dir := ray.Direction.Mul(1 / l)

	tEnter, _, entryAxis, ok := intersectGrid(ray.Origin, dir, float32(size))
	if !ok {
		return Hit{}
	}

	p := ray.Origin.Add(dir.Mul(tEnter))
	var (
		cell   [3]int
		step   [3]int
		tMax   [3]float32
		tDelta [3]float32
	)
	for i := 0; i < 3; i++ {
		c := int(math32.Floor(p[i]))
		if c < 0 {
			c = 0
		}
		if c >= size {
			c = size - 1
		}
		cell[i] = c
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = tEnter + (float32(c+1)-p[i])/dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = tEnter + (p[i]-float32(c))/-dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = math32.Inf(1)
			tDelta[i] = math32.Inf(1)
		}
	}

	face := dominantFace(dir)
	if entryAxis >= 0 {
		face = faceFromStep(entryAxis, step[entryAxis])
	}

	t := tEnter
	for n := 1; n <= maxSteps; n++ {
		center := mgl32.Vec3{float32(cell[0]) + 0.5, float32(cell[1]) + 0.5, float32(cell[2]) + 0.5}
		if q.IsVoxel(center) {
			return Hit{
				Valid:    true,
				Voxel:    cell,
				Position: ray.Origin.Add(dir.Mul(t)),
				Face:     face,
				T:        t,
				Steps:    n,
			}
		}

		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		face = faceFromStep(axis, step[axis])
		if cell[axis] < 0 || cell[axis] >= size {
			return Hit{}
		}
	}
	return Hit{}
}

// dominantFace is the entry face used when the ray starts inside a cell.
func dominantFace(dir mgl32.Vec3) Face {
	axis := 0
	for i := 1; i < 3; i++ {
		if math32.Abs(dir[i]) > math32.Abs(dir[axis]) {
			axis = i
		}
	}
	s := 1
	if dir[axis] < 0 {
		s = -1
	}
	return faceFromStep(axis, s)
}
