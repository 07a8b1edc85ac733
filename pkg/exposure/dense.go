/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

package exposure

/*****************************************************************************************************************/

import (
	"fmt"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
)

/*****************************************************************************************************************/

// DenseExposure is a plain in-memory Exposure implementation, row-major over a detector
// frame of fixed (rows, columns) shape. It exists for synthetic test fixtures and as a
// reference implementation of the Exposure contract.
type DenseExposure struct {
	band    astrometry.BandKey
	rows    int
	columns int
	flux    []float64
	dq      []dqflags.Flag
	meta    Meta
}

/*****************************************************************************************************************/

// NewDenseExposure allocates a zero-valued DenseExposure of the given shape for the given
// band, with the supplied metadata.
func NewDenseExposure(band astrometry.BandKey, rows, columns int, meta Meta) *DenseExposure {
	return &DenseExposure{
		band:    band,
		rows:    rows,
		columns: columns,
		flux:    make([]float64, rows*columns),
		dq:      make([]dqflags.Flag, rows*columns),
		meta:    meta,
	}
}

/*****************************************************************************************************************/

func (e *DenseExposure) Band() astrometry.BandKey {
	return e.band
}

/*****************************************************************************************************************/

func (e *DenseExposure) Shape() (rows, columns int) {
	return e.rows, e.columns
}

/*****************************************************************************************************************/

func (e *DenseExposure) index(x, y int) int {
	return y*e.columns + x
}

/*****************************************************************************************************************/

func (e *DenseExposure) At(x, y int) (float64, dqflags.Flag) {
	i := e.index(x, y)
	return e.flux[i], e.dq[i]
}

/*****************************************************************************************************************/

func (e *DenseExposure) Set(x, y int, flux float64) {
	e.flux[e.index(x, y)] = flux
}

/*****************************************************************************************************************/

// SetDQ sets the DQ bitmask at detector pixel (x, y); used by test fixtures to seed
// DO_NOT_USE/NON_SCIENCE pixels ahead of the detector mapper's filtering pass.
func (e *DenseExposure) SetDQ(x, y int, flag dqflags.Flag) {
	e.dq[e.index(x, y)] = flag
}

/*****************************************************************************************************************/

func (e *DenseExposure) Meta() Meta {
	return e.meta
}

/*****************************************************************************************************************/

// String renders a compact description of the exposure, useful in diagnostic logging.
func (e *DenseExposure) String() string {
	return fmt.Sprintf("exposure(band=%s/%s, shape=%dx%d)", e.band.Par1, e.band.Par2, e.rows, e.columns)
}

/*****************************************************************************************************************/
