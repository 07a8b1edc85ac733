/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package stats

/*****************************************************************************************************************/

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
)

/*****************************************************************************************************************/

// NormalDistributedRandomNumber generates a normally distributed random number, used to
// synthesize noisy exposure fixtures in tests.
// mean: the mean of the distribution.
// stdDev: the standard deviation of the distribution.
func NormalDistributedRandomNumber(mean, stdDev float64) float64 {
	return rand.NormFloat64()*stdDev + mean
}

/*****************************************************************************************************************/

// CircularMeanRADegrees computes the circular mean of a set of right-ascension samples
// (in degrees), correctly handling wraparound at the 0/360 boundary. A simple arithmetic
// mean of RA values straddling that boundary (e.g. 359.9 and 0.1) would incorrectly
// average to 180 instead of 0; the circular mean treats each RA as a point on the unit
// circle and averages their vector sum instead.
//
// Weights, when non-nil, must be the same length as ra and are passed through unchanged;
// pass nil for an unweighted mean. The result is normalized to the [0, 360) range.
func CircularMeanRADegrees(ra []float64, weights []float64) float64 {
	if len(ra) == 0 {
		return 0
	}

	radians := make([]float64, len(ra))
	for i, r := range ra {
		radians[i] = r * math.Pi / 180
	}

	mean := stat.CircularMean(radians, weights)

	degrees := mean * 180 / math.Pi

	return math.Mod(degrees+360, 360)
}

/*****************************************************************************************************************/
