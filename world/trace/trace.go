// Package trace implements ray traversal through the cube grid and ray/box intersection.
package trace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterhenryd/herbolution-sub001/world/cube"
	"github.com/peterhenryd/herbolution-sub001/world/physics"
)

// Result is the point at which a ray intersects a box.
type Result struct {
	// Position is the exact point of intersection.
	Position mgl64.Vec3
	// Face is the face of the box the ray entered through.
	Face cube.Face
	// T is the fraction of the segment travelled at the point of intersection, between 0 and 1.
	T float64
}

// Step is a single cube visited by TraverseCubes.
type Step struct {
	Pos cube.Pos
	// Face is the face of Pos the segment entered through. It is meaningless if First is true.
	Face cube.Face
	// T is the fraction of the segment travelled when entering Pos.
	T float64
	// First is true for the cube holding the start of the segment.
	First bool
}

// axes maps vector indices to cube axes.
var axes = [3]cube.Axis{cube.X, cube.Y, cube.Z}

// TraverseCubes calls f for every cube the segment from start to end passes through, in the order the segment
// passes them, until f returns false. It uses the traversal of Amanatides and Woo, so no cube is skipped and no
// cube is visited twice.
func TraverseCubes(start, end mgl64.Vec3, f func(s Step) bool) {
	dir := end.Sub(start)
	pos, last := cube.PosFromVec3(start), cube.PosFromVec3(end)

	var step [3]int
	var tMax, tDelta [3]float64
	for i := 0; i < 3; i++ {
		switch {
		case dir[i] > 0:
			step[i] = 1
			tMax[i] = (math.Floor(start[i]) + 1 - start[i]) / dir[i]
			tDelta[i] = 1 / dir[i]
		case dir[i] < 0:
			step[i] = -1
			tMax[i] = (start[i] - math.Floor(start[i])) / -dir[i]
			tDelta[i] = -1 / dir[i]
		default:
			tMax[i] = math.Inf(1)
			tDelta[i] = math.Inf(1)
		}
	}
	if !f(Step{Pos: pos, First: true}) {
		return
	}

	remaining := abs(last[0]-pos[0]) + abs(last[1]-pos[1]) + abs(last[2]-pos[2])
	for ; remaining > 0; remaining-- {
		i := 0
		if tMax[1] < tMax[i] {
			i = 1
		}
		if tMax[2] < tMax[i] {
			i = 2
		}
		if tMax[i] > 1 {
			return
		}
		pos[i] += step[i]
		t := tMax[i]
		tMax[i] += tDelta[i]
		if !f(Step{Pos: pos, Face: cube.FaceOf(axes[i], step[i] < 0), T: t}) {
			return
		}
	}
}

// BBoxIntercept returns the point at which the segment from start to end first touches the box passed, and false
// if it never does. If start lies within the box, the result is start, with the face of the box facing back along
// the segment on its dominant axis.
func BBoxIntercept(bb physics.AABB, start, end mgl64.Vec3) (Result, bool) {
	dir := end.Sub(start)
	min, max := bb.Min(), bb.Max()

	tMin, tMax := 0.0, 1.0
	entered := false
	var face cube.Face
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if start[i] < min[i] || start[i] > max[i] {
				return Result{}, false
			}
			continue
		}
		t1, t2 := (min[i]-start[i])/dir[i], (max[i]-start[i])/dir[i]
		f := cube.FaceOf(axes[i], false)
		if t1 > t2 {
			t1, t2 = t2, t1
			f = cube.FaceOf(axes[i], true)
		}
		if t1 > tMin {
			tMin, face, entered = t1, f, true
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return Result{}, false
		}
	}
	if !entered {
		return Result{Position: start, Face: dominantFace(dir)}, true
	}
	return Result{Position: start.Add(dir.Mul(tMin)), Face: face, T: tMin}, true
}

// dominantFace returns the face pointing back along the longest component of dir.
func dominantFace(dir mgl64.Vec3) cube.Face {
	i := 0
	for j := 1; j < 3; j++ {
		if math.Abs(dir[j]) > math.Abs(dir[i]) {
			i = j
		}
	}
	return cube.FaceOf(axes[i], dir[i] < 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
