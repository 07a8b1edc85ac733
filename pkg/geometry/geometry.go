/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package geometry

/*****************************************************************************************************************/

import "math"

/*****************************************************************************************************************/

// DistanceBetweenTwoCartesianPoints returns the Euclidean distance between two points in a
// Cartesian plane. Used both for generic geometry and as the degeneracy test in FourCorners.
func DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

/*****************************************************************************************************************/

// degenerateLineTolerance is the distance, in the same units as the supplied coordinates
// (arcsec on the cube plane), below which a four-corner footprint is treated as a line
// rather than a polygon.
const degenerateLineTolerance = 1e-4

/*****************************************************************************************************************/

// Footprint holds the four corners of a field-of-view footprint on the cube's tangent
// plane, ordered corner1 (min coord2), corner2 (max coord1), corner3 (max coord2),
// corner4 (min coord1).
type Footprint struct {
	Xi1, Eta1 float64
	Xi2, Eta2 float64
	Xi3, Eta3 float64
	Xi4, Eta4 float64
}

/*****************************************************************************************************************/

// FourCorners computes the four corners enclosing a cloud of (coord1, coord2) samples:
// corner 1 at the point of minimum coord2, corner 2 at maximum coord1, corner 3 at
// maximum coord2, corner 4 at minimum coord1. It also reports whether the footprint has
// degenerated to a line, which happens when corner1 coincides with corner4 and corner2
// with corner3, both within degenerateLineTolerance: the case for a NIRSpec slice, which
// projects to a line rather than a quadrilateral.
func FourCorners(coord1, coord2 []float64) (fp Footprint, isLine bool) {
	if len(coord1) == 0 || len(coord1) != len(coord2) {
		return Footprint{}, true
	}

	iMinC2, iMaxC1, iMaxC2, iMinC1 := 0, 0, 0, 0

	for i := 1; i < len(coord1); i++ {
		if coord2[i] < coord2[iMinC2] {
			iMinC2 = i
		}
		if coord1[i] > coord1[iMaxC1] {
			iMaxC1 = i
		}
		if coord2[i] > coord2[iMaxC2] {
			iMaxC2 = i
		}
		if coord1[i] < coord1[iMinC1] {
			iMinC1 = i
		}
	}

	fp = Footprint{
		Xi1: coord1[iMinC2], Eta1: coord2[iMinC2],
		Xi2: coord1[iMaxC1], Eta2: coord2[iMaxC1],
		Xi3: coord1[iMaxC2], Eta3: coord2[iMaxC2],
		Xi4: coord1[iMinC1], Eta4: coord2[iMinC1],
	}

	distanceMinPoints := DistanceBetweenTwoCartesianPoints(fp.Xi1, fp.Eta1, fp.Xi4, fp.Eta4)
	distanceMaxPoints := DistanceBetweenTwoCartesianPoints(fp.Xi2, fp.Eta2, fp.Xi3, fp.Eta3)

	isLine = distanceMinPoints < degenerateLineTolerance && distanceMaxPoints < degenerateLineTolerance

	return fp, isLine
}

/*****************************************************************************************************************/

// Point is a 2-D cartesian point used by the Sutherland-Hodgman polygon clip below.
type Point struct {
	X, Y float64
}

/*****************************************************************************************************************/

// PolygonAreaOverlapWithRectangle computes the area of intersection between an arbitrary
// (possibly non-convex but here always a simple quadrilateral) polygon and an
// axis-aligned rectangle centered at (cx, cy) with full width dx and full height dy, using
// the Sutherland-Hodgman polygon clipping algorithm followed by the shoelace formula.
func PolygonAreaOverlapWithRectangle(polygon []Point, cx, cy, dx, dy float64) float64 {
	xmin, xmax := cx-dx/2, cx+dx/2
	ymin, ymax := cy-dy/2, cy+dy/2

	clipped := clipPolygon(polygon, func(p Point) bool { return p.X >= xmin }, func(a, b Point) Point {
		return lerpAtX(a, b, xmin)
	})
	clipped = clipPolygon(clipped, func(p Point) bool { return p.X <= xmax }, func(a, b Point) Point {
		return lerpAtX(a, b, xmax)
	})
	clipped = clipPolygon(clipped, func(p Point) bool { return p.Y >= ymin }, func(a, b Point) Point {
		return lerpAtY(a, b, ymin)
	})
	clipped = clipPolygon(clipped, func(p Point) bool { return p.Y <= ymax }, func(a, b Point) Point {
		return lerpAtY(a, b, ymax)
	})

	return shoelaceArea(clipped)
}

/*****************************************************************************************************************/

// clipPolygon clips a polygon against a single half-plane defined by inside/intersect.
func clipPolygon(polygon []Point, inside func(Point) bool, intersect func(a, b Point) Point) []Point {
	if len(polygon) == 0 {
		return nil
	}

	output := make([]Point, 0, len(polygon)+1)

	prev := polygon[len(polygon)-1]
	prevInside := inside(prev)

	for _, curr := range polygon {
		currInside := inside(curr)

		if currInside {
			if !prevInside {
				output = append(output, intersect(prev, curr))
			}
			output = append(output, curr)
		} else if prevInside {
			output = append(output, intersect(prev, curr))
		}

		prev, prevInside = curr, currInside
	}

	return output
}

/*****************************************************************************************************************/

func lerpAtX(a, b Point, x float64) Point {
	if b.X == a.X {
		return Point{X: x, Y: a.Y}
	}
	t := (x - a.X) / (b.X - a.X)
	return Point{X: x, Y: a.Y + t*(b.Y-a.Y)}
}

/*****************************************************************************************************************/

func lerpAtY(a, b Point, y float64) Point {
	if b.Y == a.Y {
		return Point{X: a.X, Y: y}
	}
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + t*(b.X-a.X), Y: y}
}

/*****************************************************************************************************************/

func shoelaceArea(polygon []Point) float64 {
	if len(polygon) < 3 {
		return 0
	}

	sum := 0.0
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}

	return math.Abs(sum) / 2
}

/*****************************************************************************************************************/

// GridPoint is an integer spaxel index pair (x, y) in spatial spaxel space.
type GridPoint struct {
	X, Y int
}

/*****************************************************************************************************************/

// BresenhamLine rasterizes the line from (x1, y1) to (x2, y2) in integer grid space,
// returning every spaxel index it touches. Used to flag the NIRSpec slice footprint,
// which projects to a line on the cube's spatial plane rather than a polygon.
//
// The set of points returned is identical (as a set) regardless of which endpoint is
// supplied first.
func BresenhamLine(x1, y1, x2, y2 int) []GridPoint {
	dx := x2 - x1
	dy := y2 - y1

	steep := abs(dy) > abs(dx)

	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}

	swapped := false
	if x1 > x2 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
		swapped = true
	}

	dx = x2 - x1
	dy = y2 - y1

	ystep := -1
	if y1 < y2 {
		ystep = 1
	}

	errAcc := dx / 2
	y := y1

	points := make([]GridPoint, 0, x2-x1+1)

	for x := x1; x <= x2; x++ {
		if steep {
			points = append(points, GridPoint{X: y, Y: x})
		} else {
			points = append(points, GridPoint{X: x, Y: y})
		}

		errAcc -= abs(dy)
		if errAcc < 0 {
			y += ystep
			errAcc += dx
		}
	}

	if swapped {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}

	return points
}

/*****************************************************************************************************************/

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

/*****************************************************************************************************************/
