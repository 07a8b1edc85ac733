/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package assemble implements the Output Assembler: it normalizes accumulated flux
// by accumulated weight, sets the final DQ plane, populates output WCS metadata, and emits
// the cube record.
package assemble

/*****************************************************************************************************************/

import (
	"fmt"
	"strings"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/dq"
	"github.com/orbitalforge/ifucube/internal/params"
	"github.com/orbitalforge/ifucube/internal/resample"
)

/*****************************************************************************************************************/

const arcsecPerDegree = 3600.0

/*****************************************************************************************************************/

// AxisMetadata is one axis's output metadata (FITS-flavored naming, matching the
// CRPIX/CRVAL/CDELT convention the rest of the core already carries).
type AxisMetadata struct {
	NAXIS int
	CRPIX float64
	CRVAL float64
	CDELT float64 // 0 for a non-linear (WAVE-TAB) third axis
	Type  string  // "WAVE" or "WAVE-TAB" for the third axis; "" for spatial axes
}

/*****************************************************************************************************************/

// Cube is the assembled output: three reshaped 3-D arrays (flux, weight, count), a DQ
// array, an error array, axis metadata, and, for a non-linear wavelength axis, the
// wavelength lookup table.
type Cube struct {
	Name string

	NAXIS1, NAXIS2, NAXIS3 int

	// Flux, Weight, Count, DQ, Err are stored (z, y, x) row-major, matching the FITS
	// NAXIS3/NAXIS2/NAXIS1 reshape order.
	Flux   []float64
	Weight []float64
	Count  []int
	DQ     []dqflags.Flag
	Err    []float64

	X, Y, Z AxisMetadata

	WaveTable []instrument.WaveTablePoint // populated only when Z.Type == "WAVE-TAB"

	SkyRA, SkyDec float64
}

/*****************************************************************************************************************/

// MetadataBlender merges multiple input exposure headers into the output cube's metadata,
// an external collaborator this core delegates to rather than implements.
type MetadataBlender interface {
	Blend(cube *Cube, inputHeaders []map[string]string)
}

/*****************************************************************************************************************/

func reshapeIndex(naxis1, naxis2, i, j, k int) int {
	return (k*naxis2+j)*naxis1 + i
}

/*****************************************************************************************************************/

// Assemble implements the Output Assembler: normalizes flux by weight where count>0,
// reshapes the flat spaxel buffers, and populates the cube's axis metadata.
func Assemble(name string, geom cubegeometry.Geometry, grid *resample.SpaxelGrid, dqPlanes []*dq.Plane) *Cube {
	n := grid.NAXIS1 * grid.NAXIS2 * grid.NAXIS3

	cube := &Cube{
		Name:   name,
		NAXIS1: grid.NAXIS1, NAXIS2: grid.NAXIS2, NAXIS3: grid.NAXIS3,
		Flux: make([]float64, n), Weight: make([]float64, n),
		Count: make([]int, n), DQ: make([]dqflags.Flag, n), Err: make([]float64, n),
		SkyRA: geom.SkyRA, SkyDec: geom.SkyDec,
	}

	for k := 0; k < grid.NAXIS3; k++ {
		for j := 0; j < grid.NAXIS2; j++ {
			for i := 0; i < grid.NAXIS1; i++ {
				src := grid.Index(i, j, k)
				dst := reshapeIndex(grid.NAXIS1, grid.NAXIS2, i, j, k)

				count := grid.Count[src]
				cube.Count[dst] = count

				if count > 0 && grid.SumWeight[src] != 0 {
					cube.Flux[dst] = grid.SumFlux[src] / grid.SumWeight[src]
				}

				cube.Weight[dst] = grid.SumWeight[src]

				if k < len(dqPlanes) && dqPlanes[k] != nil {
					cube.DQ[dst] = dqPlanes[k].Flags[j*grid.NAXIS1+i]
				}
			}
		}
	}

	cube.X = AxisMetadata{NAXIS: geom.X.NAXIS, CRPIX: geom.X.CRPIX, CRVAL: crvalDegrees(geom, true), CDELT: geom.X.CDELT / arcsecPerDegree}
	cube.Y = AxisMetadata{NAXIS: geom.Y.NAXIS, CRPIX: geom.Y.CRPIX, CRVAL: crvalDegrees(geom, false), CDELT: geom.Y.CDELT / arcsecPerDegree}

	cube.Z = AxisMetadata{NAXIS: geom.Z.NAXIS, CRPIX: geom.Z.CRPIX, CRVAL: geom.Z.CRVAL}
	if geom.Z.CDELT != 0 {
		cube.Z.CDELT = geom.Z.CDELT
		cube.Z.Type = "WAVE"
	} else {
		cube.Z.Type = "WAVE-TAB"
	}

	return cube
}

/*****************************************************************************************************************/

// crvalDegrees reports the sky-reference CRVAL for the requested spatial axis. For a
// world-coordinate cube the two spatial axes both carry the same sky reference point
// (CRVAL1=SkyRA, CRVAL2=SkyDec); for an alpha-beta cube the axis's own CRVAL (set by the
// geometry builder to a_min/b_min) is used as-is, unconverted.
func crvalDegrees(geom cubegeometry.Geometry, isXAxis bool) float64 {
	if geom.CoordSystem == params.CoordSystemAlphaBeta {
		if isXAxis {
			return geom.X.CRVAL
		}
		return geom.Y.CRVAL
	}

	if isXAxis {
		return geom.SkyRA
	}
	return geom.SkyDec
}

/*****************************************************************************************************************/

// NameInputs is the deterministic cube-naming inputs: base name, the
// instrument, ordered band identifiers, coordinate system, and output type.
type NameInputs struct {
	Base        string
	Kind        instrument.Kind
	Bands       []astrometry.BandKey
	CoordSystem params.CoordSystem
	OutputType  params.OutputType
}

/*****************************************************************************************************************/

// Name derives the cube's deterministic file base name: <base>_ch<channels>-<subchannels>_s3d.fits
// for MIRI, <base>_<grating>-<filter>..._s3d.fits for NIRSPEC, with an _ab suffix for
// alpha-beta cubes and _single for per-exposure output.
func Name(in NameInputs) string {
	var sb strings.Builder
	sb.WriteString(in.Base)

	switch in.Kind {
	case instrument.MIRI:
		channels := uniqueOrdered(bandPar(in.Bands, func(b astrometry.BandKey) string { return strings.ToLower(b.Par1) }))
		subchannels := uniqueOrdered(bandPar(in.Bands, func(b astrometry.BandKey) string { return strings.ToLower(b.Par2) }))
		sb.WriteString(fmt.Sprintf("_ch%s-%s", strings.Join(channels, ""), strings.Join(subchannels, "-")))
	case instrument.NIRSPEC:
		for _, b := range in.Bands {
			sb.WriteString(fmt.Sprintf("_%s-%s", strings.ToLower(b.Par1), strings.ToLower(b.Par2)))
		}
	}

	if in.CoordSystem == params.CoordSystemAlphaBeta {
		sb.WriteString("_ab")
	}

	if in.OutputType == params.OutputSingle {
		sb.WriteString("_single")
	}

	sb.WriteString("_s3d.fits")

	return sb.String()
}

/*****************************************************************************************************************/

func bandPar(bands []astrometry.BandKey, pick func(astrometry.BandKey) string) []string {
	out := make([]string, len(bands))
	for i, b := range bands {
		out[i] = pick(b)
	}
	return out
}

/*****************************************************************************************************************/

func uniqueOrdered(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

/*****************************************************************************************************************/
