/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package diagnostic renders optional PNG visualizations of a cube's DQ plane and FOV
// footprint, for interactive inspection outside the core's own scope (the core itself
// never displays anything).
package diagnostic

/*****************************************************************************************************************/

import (
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"

	"github.com/orbitalforge/ifucube/pkg/dqflags"
	"github.com/orbitalforge/ifucube/pkg/geometry"
)

/*****************************************************************************************************************/

var (
	colorGood       = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	colorFull       = color.RGBA{R: 34, G: 197, B: 94, A: 255}
	colorPartial    = color.RGBA{R: 250, G: 204, B: 21, A: 255}
	colorHole       = color.RGBA{R: 244, G: 63, B: 94, A: 255}
	colorNonScience = color.RGBA{R: 71, G: 85, B: 105, A: 255}
	colorFootprint  = color.RGBA{R: 129, G: 140, B: 248, A: 255}
)

/*****************************************************************************************************************/

// cellSize is the pixel footprint one spaxel occupies in the rendered image.
const cellSize = 8

/*****************************************************************************************************************/

// RenderDQPlane draws one wavelength plane of a DQ buffer as a color-coded grid: good data
// dark gray, overlap_full green, overlap_partial yellow, overlap_hole red, NON_SCIENCE
// slate. naxis1/naxis2 give the plane's shape; flags is row-major (naxis1*naxis2).
func RenderDQPlane(path string, naxis1, naxis2 int, flags []dqflags.Flag) error {
	dc := gg.NewContext(naxis1*cellSize, naxis2*cellSize)
	dc.SetColor(colorGood)
	dc.Clear()

	for j := 0; j < naxis2; j++ {
		for i := 0; i < naxis1; i++ {
			flag := flags[j*naxis1+i]
			dc.SetColor(colorForFlag(flag))
			dc.DrawRectangle(float64(i*cellSize), float64(j*cellSize), cellSize, cellSize)
			dc.Fill()
		}
	}

	return writePNG(dc, path)
}

/*****************************************************************************************************************/

func colorForFlag(flag dqflags.Flag) color.RGBA {
	switch {
	case flag.HasAny(dqflags.NonScience):
		return colorNonScience
	case flag.Has(dqflags.OverlapHole):
		return colorHole
	case flag.Has(dqflags.OverlapFull):
		return colorFull
	case flag.Has(dqflags.OverlapPartial):
		return colorPartial
	default:
		return colorGood
	}
}

/*****************************************************************************************************************/

// RenderFootprint overlays a MIRI four-corner FOV footprint polygon on a blank spaxel grid
// of the given shape, scaled so (xi, eta) in [xMin, xMax] x [yMin, yMax] fills the canvas.
func RenderFootprint(path string, naxis1, naxis2 int, fov geometry.Footprint, xMin, xMax, yMin, yMax float64) error {
	dc := gg.NewContext(naxis1*cellSize, naxis2*cellSize)
	dc.SetColor(colorGood)
	dc.Clear()

	project := func(xi, eta float64) (float64, float64) {
		fx := (xi - xMin) / (xMax - xMin) * float64(naxis1*cellSize)
		fy := (eta - yMin) / (yMax - yMin) * float64(naxis2*cellSize)
		return fx, fy
	}

	x1, y1 := project(fov.Xi1, fov.Eta1)
	x2, y2 := project(fov.Xi2, fov.Eta2)
	x3, y3 := project(fov.Xi3, fov.Eta3)
	x4, y4 := project(fov.Xi4, fov.Eta4)

	dc.SetColor(colorFootprint)
	dc.MoveTo(x1, y1)
	dc.LineTo(x2, y2)
	dc.LineTo(x3, y3)
	dc.LineTo(x4, y4)
	dc.ClosePath()
	dc.SetLineWidth(2)
	dc.Stroke()

	return writePNG(dc, path)
}

/*****************************************************************************************************************/

func writePNG(dc *gg.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, dc.Image())
}

/*****************************************************************************************************************/
