/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package geometry

/*****************************************************************************************************************/

import (
	"math"
	"sort"
	"testing"
)

/*****************************************************************************************************************/

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

/*****************************************************************************************************************/

func TestDistanceBetweenTwoCartesianPoints(t *testing.T) {
	result := DistanceBetweenTwoCartesianPoints(0, 0, 3, 4)

	if result != 5.0 {
		t.Errorf("DistanceBetweenTwoCartesianPoints() = %f; want %f", result, 5.0)
	}
}

/*****************************************************************************************************************/

func TestFourCornersPolygon(t *testing.T) {
	coord1 := []float64{-1, 0, 1, 0}
	coord2 := []float64{0, -1, 0, 1}

	fp, isLine := FourCorners(coord1, coord2)

	if isLine {
		t.Fatalf("expected a polygon footprint, got a line")
	}

	if !almostEqual(fp.Xi1, 0, 1e-9) || !almostEqual(fp.Eta1, -1, 1e-9) {
		t.Errorf("corner1 = (%f, %f); want (0, -1)", fp.Xi1, fp.Eta1)
	}

	if !almostEqual(fp.Xi3, 0, 1e-9) || !almostEqual(fp.Eta3, 1, 1e-9) {
		t.Errorf("corner3 = (%f, %f); want (0, 1)", fp.Xi3, fp.Eta3)
	}
}

/*****************************************************************************************************************/

func TestFourCornersDegenerateLine(t *testing.T) {
	coord1 := []float64{0, 0.00000001, 1, 1.00000001}
	coord2 := []float64{0, 0.00000001, 1, 1.00000001}

	_, isLine := FourCorners(coord1, coord2)

	if !isLine {
		t.Errorf("expected a degenerate line footprint")
	}
}

/*****************************************************************************************************************/

func TestPolygonAreaOverlapWithRectangleFullyInside(t *testing.T) {
	square := []Point{{X: -0.4, Y: -0.4}, {X: 0.4, Y: -0.4}, {X: 0.4, Y: 0.4}, {X: -0.4, Y: 0.4}}

	area := PolygonAreaOverlapWithRectangle(square, 0, 0, 1, 1)

	if !almostEqual(area, 0.64, 1e-9) {
		t.Errorf("area = %f; want 0.64", area)
	}
}

/*****************************************************************************************************************/

func TestPolygonAreaOverlapWithRectangleNoOverlap(t *testing.T) {
	square := []Point{{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 11, Y: 11}, {X: 10, Y: 11}}

	area := PolygonAreaOverlapWithRectangle(square, 0, 0, 1, 1)

	if area != 0 {
		t.Errorf("area = %f; want 0", area)
	}
}

/*****************************************************************************************************************/

func TestPolygonAreaOverlapWithRectanglePartial(t *testing.T) {
	// A unit square offset by half a unit in x should overlap the unit rectangle
	// centered at the origin by exactly one half.
	square := []Point{{X: 0, Y: -0.5}, {X: 1, Y: -0.5}, {X: 1, Y: 0.5}, {X: 0, Y: 0.5}}

	area := PolygonAreaOverlapWithRectangle(square, 0, 0, 1, 1)

	if !almostEqual(area, 0.5, 1e-9) {
		t.Errorf("area = %f; want 0.5", area)
	}
}

/*****************************************************************************************************************/

func sortPoints(points []GridPoint) {
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})
}

/*****************************************************************************************************************/

func TestBresenhamLineMonotonicity(t *testing.T) {
	forward := BresenhamLine(0, 0, 6, 3)
	backward := BresenhamLine(6, 3, 0, 0)

	sortPoints(forward)
	sortPoints(backward)

	if len(forward) != len(backward) {
		t.Fatalf("forward has %d points, backward has %d", len(forward), len(backward))
	}

	for i := range forward {
		if forward[i] != backward[i] {
			t.Errorf("point %d differs: forward=%v backward=%v", i, forward[i], backward[i])
		}
	}
}

/*****************************************************************************************************************/

func TestBresenhamLineEndpointsIncluded(t *testing.T) {
	points := BresenhamLine(1, 1, 4, 1)

	first := points[0]
	last := points[len(points)-1]

	if first != (GridPoint{X: 1, Y: 1}) {
		t.Errorf("first point = %v; want {1 1}", first)
	}

	if last != (GridPoint{X: 4, Y: 1}) {
		t.Errorf("last point = %v; want {4 1}", last)
	}
}

/*****************************************************************************************************************/
