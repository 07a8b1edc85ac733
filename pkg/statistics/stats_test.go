/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package stats

/*****************************************************************************************************************/

import (
	"math"
	"testing"
)

/*****************************************************************************************************************/

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

/*****************************************************************************************************************/

func TestCircularMeanRADegreesNoWraparound(t *testing.T) {
	got := CircularMeanRADegrees([]float64{10, 20, 30}, nil)

	if !almostEqual(got, 20, 1e-6) {
		t.Errorf("CircularMeanRADegrees() = %v; want 20", got)
	}
}

/*****************************************************************************************************************/

func TestCircularMeanRADegreesAcrossZeroBoundary(t *testing.T) {
	got := CircularMeanRADegrees([]float64{359.9, 0.1}, nil)

	if !almostEqual(got, 0.0, 1e-6) {
		t.Errorf("CircularMeanRADegrees() = %v; want ~0 (not 180)", got)
	}
}

/*****************************************************************************************************************/

func TestCircularMeanRADegreesEmpty(t *testing.T) {
	got := CircularMeanRADegrees(nil, nil)

	if got != 0 {
		t.Errorf("CircularMeanRADegrees(nil) = %v; want 0", got)
	}
}

/*****************************************************************************************************************/

func TestCircularMeanRADegreesWeighted(t *testing.T) {
	got := CircularMeanRADegrees([]float64{0, 90}, []float64{3, 1})

	// Heavily weighted toward 0 degrees, so the mean should sit closer to 0 than 45.
	if got > 45 {
		t.Errorf("CircularMeanRADegrees() = %v; want < 45 given a 3:1 weighting toward 0", got)
	}
}

/*****************************************************************************************************************/

func TestNormalDistributedRandomNumberIsFinite(t *testing.T) {
	v := NormalDistributedRandomNumber(0, 1)

	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Errorf("NormalDistributedRandomNumber() = %v; want a finite value", v)
	}
}

/*****************************************************************************************************************/
