/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package dq implements the FOV DQ Engine: an initial output DQ plane derived from
// per-slice footprint overlap with the output grid, refined by a hole-detection and
// edge-cleanup pass.
package dq

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/geometry"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/resample"
)

/*****************************************************************************************************************/

const (
	fullCoverageThreshold    = 0.95
	partialCoverageThreshold = 0.05
)

/*****************************************************************************************************************/

// Plane is a 2-D (NAXIS2 x NAXIS1) DQ plane for one wavelength slot of the cube's DQ
// buffer; the FOV flagging pass operates per wavelength plane, so this package flags one
// Plane at a time and the caller assembles the planes into the full 3-D DQ buffer.
type Plane struct {
	NAXIS1, NAXIS2 int
	Flags          []dqflags.Flag
}

/*****************************************************************************************************************/

// NewPlane allocates a zero-valued (unflagged) DQ plane.
func NewPlane(naxis1, naxis2 int) *Plane {
	return &Plane{NAXIS1: naxis1, NAXIS2: naxis2, Flags: make([]dqflags.Flag, naxis1*naxis2)}
}

/*****************************************************************************************************************/

func (p *Plane) index(i, j int) int {
	return j*p.NAXIS1 + i
}

/*****************************************************************************************************************/

func (p *Plane) at(i, j int) dqflags.Flag {
	if i < 0 || i >= p.NAXIS1 || j < 0 || j >= p.NAXIS2 {
		return 0
	}
	return p.Flags[p.index(i, j)]
}

/*****************************************************************************************************************/

// FlagPolygon implements the MIRI path: for every spaxel, compute the
// fractional area of (spaxel rectangle) ∩ (FOV polygon) and mark overlap_full/partial by
// threshold.
func FlagPolygon(plane *Plane, geom cubegeometry.Geometry, fov geometry.Footprint) {
	polygon := []geometry.Point{
		{X: fov.Xi1, Y: fov.Eta1},
		{X: fov.Xi2, Y: fov.Eta2},
		{X: fov.Xi3, Y: fov.Eta3},
		{X: fov.Xi4, Y: fov.Eta4},
	}

	spaxelArea := geom.X.CDELT * geom.Y.CDELT

	for j := 0; j < plane.NAXIS2; j++ {
		for i := 0; i < plane.NAXIS1; i++ {
			overlap := geometry.PolygonAreaOverlapWithRectangle(polygon, geom.X.Coord[i], geom.Y.Coord[j], geom.X.CDELT, geom.Y.CDELT)

			if spaxelArea == 0 {
				continue
			}

			fraction := overlap / spaxelArea

			idx := plane.index(i, j)
			switch {
			case fraction > fullCoverageThreshold:
				plane.Flags[idx] |= dqflags.OverlapFull
			case fraction > partialCoverageThreshold:
				plane.Flags[idx] |= dqflags.OverlapPartial
			}
		}
	}
}

/*****************************************************************************************************************/

// FlagLine implements the NIRSPEC path: rasterize the slice's (xi0,eta0) to
// (xi1,eta1) line with Bresenham in spaxel-index space, marking every touched spaxel
// overlap_partial.
func FlagLine(plane *Plane, geom cubegeometry.Geometry, xi0, eta0, xi1, eta1 float64) {
	i0 := nearestIndex(xi0, geom.X.Coord[0], geom.X.CDELT)
	j0 := nearestIndex(eta0, geom.Y.Coord[0], geom.Y.CDELT)
	i1 := nearestIndex(xi1, geom.X.Coord[0], geom.X.CDELT)
	j1 := nearestIndex(eta1, geom.Y.Coord[0], geom.Y.CDELT)

	for _, pt := range geometry.BresenhamLine(i0, j0, i1, j1) {
		if pt.X < 0 || pt.X >= plane.NAXIS1 || pt.Y < 0 || pt.Y >= plane.NAXIS2 {
			continue
		}
		plane.Flags[plane.index(pt.X, pt.Y)] |= dqflags.OverlapPartial
	}
}

/*****************************************************************************************************************/

func nearestIndex(v, coord0, cdelt float64) int {
	if cdelt == 0 {
		return 0
	}
	return int((v-coord0)/cdelt + 0.5)
}

/*****************************************************************************************************************/

// Refine implements the post-accumulation refinement pass, one
// wavelength plane at a time against the corresponding slab of the kernel's weight buffer.
// It reports the number of genuine holes left on the plane, which the orchestrator
// aggregates into an average-holes-per-plane diagnostic.
func Refine(plane *Plane, grid *resample.SpaxelGrid, k int) (holes int) {
	naxis1, naxis2 := plane.NAXIS1, plane.NAXIS2

	// Step 1/2/3: promote any spaxel with sum_weight>0 to overlap_partial; any spaxel
	// still flagged 0 becomes NON_SCIENCE|DO_NOT_USE; any spaxel flagged overlap_full or
	// overlap_partial is cleared to 0 (good data).
	for j := 0; j < naxis2; j++ {
		for i := 0; i < naxis1; i++ {
			idx := plane.index(i, j)
			weight := grid.SumWeight[grid.NAXIS1*grid.NAXIS2*k+j*grid.NAXIS1+i]

			if weight > 0 {
				plane.Flags[idx] |= dqflags.OverlapPartial
			}

			if plane.Flags[idx] == 0 {
				plane.Flags[idx] = dqflags.NonScience | dqflags.DoNotUse
				continue
			}

			if plane.Flags[idx].HasAny(dqflags.OverlapFull | dqflags.OverlapPartial) {
				plane.Flags[idx] = 0
			}
		}
	}

	// Step 4: remaining spaxels with flag 0 and sum_weight==0 become overlap_hole.
	for j := 0; j < naxis2; j++ {
		for i := 0; i < naxis1; i++ {
			idx := plane.index(i, j)
			weight := grid.SumWeight[grid.NAXIS1*grid.NAXIS2*k+j*grid.NAXIS1+i]

			if plane.Flags[idx] == 0 && weight == 0 {
				plane.Flags[idx] = dqflags.OverlapHole
			}
		}
	}

	// Step 5: edge holes and holes 4-adjacent to a NON_SCIENCE spaxel become
	// NON_SCIENCE|DO_NOT_USE. The adjacency check's strict inequality excludes index 0
	// from the neighbor scan: the top row and left column are never checked as neighbors.
	holeIndices := make([]int, 0)
	for j := 0; j < naxis2; j++ {
		for i := 0; i < naxis1; i++ {
			idx := plane.index(i, j)
			if plane.Flags[idx] != dqflags.OverlapHole {
				continue
			}

			if i == 0 || i == naxis1-1 || j == 0 || j == naxis2-1 {
				holeIndices = append(holeIndices, idx)
				continue
			}

			if isAdjacentToNonScience(plane, i, j, naxis1, naxis2) {
				holeIndices = append(holeIndices, idx)
			}
		}
	}

	for _, idx := range holeIndices {
		plane.Flags[idx] = dqflags.NonScience | dqflags.DoNotUse
	}

	for _, f := range plane.Flags {
		if f == dqflags.OverlapHole {
			holes++
		}
	}

	return holes
}

/*****************************************************************************************************************/

// isAdjacentToNonScience scans the four neighbors with strict xcheck > 0 &&
// xcheck < NAXIS1 and ycheck > 0 && ycheck < NAXIS2 windows, so a hole whose only
// NON_SCIENCE neighbor sits at column 0 or row 0 is never detected as adjacent.
func isAdjacentToNonScience(plane *Plane, i, j, naxis1, naxis2 int) bool {
	neighbors := [][2]int{{i - 1, j}, {i + 1, j}, {i, j - 1}, {i, j + 1}}

	for _, n := range neighbors {
		xcheck, ycheck := n[0], n[1]
		if !(xcheck > 0 && xcheck < naxis1) {
			continue
		}
		if !(ycheck > 0 && ycheck < naxis2) {
			continue
		}

		if plane.at(n[0], n[1]).HasAny(dqflags.NonScience) {
			return true
		}
	}

	return false
}

/*****************************************************************************************************************/
