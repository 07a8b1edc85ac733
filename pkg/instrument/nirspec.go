/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package instrument

/*****************************************************************************************************************/

import (
	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/exposure"
)

/*****************************************************************************************************************/

// NIRSpecOps implements Ops for NIRSpec's 30-slice IFU. Each of the 30 slices occupies a
// fixed horizontal band of detector rows; the per-slice bounding-box sweep assigns every
// row to the slice whose [start, end) row range contains it.
type NIRSpecOps struct{}

/*****************************************************************************************************************/

const nirspecSliceCount = 30

/*****************************************************************************************************************/

func (NIRSpecOps) Kind() Kind {
	return NIRSPEC
}

/*****************************************************************************************************************/

func (NIRSpecOps) DQOverlapMode() OverlapMode {
	return OverlapModeLine
}

/*****************************************************************************************************************/

func (NIRSpecOps) SliceMapForExposure(e exposure.Exposure, band astrometry.BandKey, info Info) SliceMap {
	rows, columns := e.Shape()

	start := info.GetStartSlice(band)
	end := info.GetEndSlice(band)
	n := end - start + 1
	if n <= 0 {
		n = nirspecSliceCount
		start = 0
		end = nirspecSliceCount - 1
	}

	rowsPerSlice := rows / n
	if rowsPerSlice == 0 {
		rowsPerSlice = 1
	}

	sliceNo := make([]int, rows*columns)

	for y := 0; y < rows; y++ {
		slice := start + y/rowsPerSlice
		if slice > end {
			slice = end
		}

		for x := 0; x < columns; x++ {
			sliceNo[y*columns+x] = slice
		}
	}

	return SliceMap{Rows: rows, Columns: columns, SliceNo: sliceNo}
}

/*****************************************************************************************************************/

func (NIRSpecOps) ExposureFootprint(e exposure.Exposure, band astrometry.BandKey, info Info) astrometry.Footprint {
	return scanFootprint(e)
}

/*****************************************************************************************************************/
