/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package manifest reads the CLI's on-disk build description: a JSON document naming the
// output cube, the instrument parameter table, the per-band override flags, and the
// exposures to combine. There is no reference-file format this core reads natively (it
// only ever consumes an already-parsed instrument.Info), so the manifest stands in for
// that already-parsed table plus its exposure data.
package manifest

/*****************************************************************************************************************/

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/geometry"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/pkg/transform"
	"github.com/orbitalforge/ifucube/pkg/wcs"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/params"
)

/*****************************************************************************************************************/

// bandKeyDoc is the wire form of an astrometry.BandKey; BandKey itself cannot key a JSON
// object, so the manifest carries bands as an explicit (par1, par2) pair wherever one is
// needed instead of relying on map[BandKey]... decoding.
type bandKeyDoc struct {
	Par1 string `json:"par1"`
	Par2 string `json:"par2"`
}

/*****************************************************************************************************************/

func (b bandKeyDoc) key() astrometry.BandKey {
	return astrometry.BandKey{Par1: b.Par1, Par2: b.Par2}
}

/*****************************************************************************************************************/

type pointDoc struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

/*****************************************************************************************************************/

// bandParametersDoc is the wire form of one instrument.BandParameters row.
type bandParametersDoc struct {
	Band bandKeyDoc `json:"band"`

	ScaleX                 float64 `json:"scaleX"`
	ScaleY                 float64 `json:"scaleY"`
	ScaleW                 float64 `json:"scaleW"`
	SpatialROI             float64 `json:"spatialROI"`
	SpectralROI            float64 `json:"spectralROI"`
	MSMWeightPower         float64 `json:"msmWeightPower"`
	SoftRad                float64 `json:"softRad"`
	ScaleRad               float64 `json:"scaleRad"`
	WaveMin                float64 `json:"waveMin"`
	WaveMax                float64 `json:"waveMax"`

	StartSlice      int         `json:"startSlice"`
	EndSlice        int         `json:"endSlice"`
	NSlice          int         `json:"nSlice"`
	MIRISliceEndPts []pointDoc  `json:"miriSliceEndPts"`
}

/*****************************************************************************************************************/

func (d bandParametersDoc) resolve() instrument.BandParameters {
	endPts := make([]geometry.Point, len(d.MIRISliceEndPts))
	for i, p := range d.MIRISliceEndPts {
		endPts[i] = geometry.Point{X: p.X, Y: p.Y}
	}

	return instrument.BandParameters{
		Band:            d.Band.key(),
		ScaleX:          d.ScaleX,
		ScaleY:          d.ScaleY,
		ScaleW:          d.ScaleW,
		SpatialROI:      d.SpatialROI,
		SpectralROI:     d.SpectralROI,
		MSMWeightPower:  d.MSMWeightPower,
		SoftRad:         d.SoftRad,
		ScaleRad:        d.ScaleRad,
		WaveMin:         d.WaveMin,
		WaveMax:         d.WaveMax,
		StartSlice:      d.StartSlice,
		EndSlice:        d.EndSlice,
		NSlice:          d.NSlice,
		MIRISliceEndPts: endPts,
	}
}

/*****************************************************************************************************************/

// wcsDoc is the wire form of a pkg/wcs.AffineWCS, the linearized stand-in this workspace
// uses wherever a real reference-file-derived WCS would otherwise be handed in.
type wcsDoc struct {
	CRPIX1         float64 `json:"crpix1"`
	CRPIX2         float64 `json:"crpix2"`
	CRVAL1         float64 `json:"crval1"`
	CRVAL2         float64 `json:"crval2"`
	CD             struct {
		A, B, D, E float64
	} `json:"cd"`
	WaveZeroPoint float64 `json:"waveZeroPoint"`
	WaveSlope     float64 `json:"waveSlope"`
	V2V3Origin    struct {
		RA, Dec float64
	} `json:"v2v3Origin"`
	AlphaBetaFrame struct {
		A, B, D, E float64
	} `json:"alphaBetaFrame"`
}

/*****************************************************************************************************************/

func (d wcsDoc) resolve() wcs.AffineWCS {
	w := wcs.NewAffineWCS(
		d.CRPIX1, d.CRPIX2,
		d.CRVAL1, d.CRVAL2,
		transform.Affine2DParameters{A: d.CD.A, B: d.CD.B, D: d.CD.D, E: d.CD.E},
	)
	w.WaveZeroPoint = d.WaveZeroPoint
	w.WaveSlope = d.WaveSlope
	w.V2V3Origin = astrometry.ICRSEquatorialCoordinate{RA: d.V2V3Origin.RA, Dec: d.V2V3Origin.Dec}
	w.AlphaBetaFrame = transform.Affine2DParameters{
		A: d.AlphaBetaFrame.A, B: d.AlphaBetaFrame.B, D: d.AlphaBetaFrame.D, E: d.AlphaBetaFrame.E,
	}
	return w
}

/*****************************************************************************************************************/

// exposureDoc is one input exposure: its band, detector shape, inline flux samples
// (row-major, rows*columns long), and WCS.
type exposureDoc struct {
	Band    bandKeyDoc `json:"band"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Flux    []float64  `json:"flux"`
	WCS     wcsDoc     `json:"wcs"`
}

/*****************************************************************************************************************/

func (d exposureDoc) resolve() (*exposure.DenseExposure, error) {
	if len(d.Flux) != d.Rows*d.Columns {
		return nil, fmt.Errorf("ifucube: exposure band %s/%s: flux has %d samples, want %d (%d rows * %d columns)",
			d.Band.Par1, d.Band.Par2, len(d.Flux), d.Rows*d.Columns, d.Rows, d.Columns)
	}

	e := exposure.NewDenseExposure(d.Band.key(), d.Rows, d.Columns, exposure.Meta{WCS: d.WCS.resolve()})
	for y := 0; y < d.Rows; y++ {
		for x := 0; x < d.Columns; x++ {
			e.Set(x, y, d.Flux[y*d.Columns+x])
		}
	}
	return e, nil
}

/*****************************************************************************************************************/

// overridesDoc is the wire form of params.Overrides, with string tags standing in for the
// resolver's int-backed enums.
type overridesDoc struct {
	Scale1                 float64 `json:"scale1"`
	Scale2                 float64 `json:"scale2"`
	ScaleW                 float64 `json:"scaleW"`
	ROIs                   float64 `json:"rois"`
	ROIW                   float64 `json:"roiw"`
	WeightPower            float64 `json:"weightPower"`
	WaveMin                float64 `json:"waveMin"`
	WaveMax                float64 `json:"waveMax"`
	Interpolation          string  `json:"interpolation"` // "pointcloud" | "area"
	CoordSystem            string  `json:"coordSystem"`   // "world" | "alpha-beta"
	Weighting              string  `json:"weighting"`     // "msm" | "emsm" | "miripsf"
	OutputType             string  `json:"outputType"`    // "multi" | "single" | "band"
}

/*****************************************************************************************************************/

func (d overridesDoc) resolve() (params.Overrides, error) {
	over := params.Overrides{
		Scale1: d.Scale1, Scale2: d.Scale2, ScaleW: d.ScaleW,
		ROIs: d.ROIs, ROIW: d.ROIW,
		WeightPower: d.WeightPower,
		WaveMin:     d.WaveMin, WaveMax: d.WaveMax,
	}

	switch d.Interpolation {
	case "", "pointcloud":
		over.Interpolation = params.InterpolationPointcloud
	case "area":
		over.Interpolation = params.InterpolationArea
	default:
		return over, fmt.Errorf("ifucube: unknown interpolation %q", d.Interpolation)
	}

	switch d.CoordSystem {
	case "", "world":
		over.CoordSystem = params.CoordSystemWorld
	case "alpha-beta":
		over.CoordSystem = params.CoordSystemAlphaBeta
	default:
		return over, fmt.Errorf("ifucube: unknown coordSystem %q", d.CoordSystem)
	}

	switch d.OutputType {
	case "", "multi":
		over.OutputType = params.OutputMulti
	case "single":
		over.OutputType = params.OutputSingle
	case "band":
		over.OutputType = params.OutputBand
	default:
		return over, fmt.Errorf("ifucube: unknown outputType %q", d.OutputType)
	}

	switch d.Weighting {
	case "", "msm":
		over.Weighting = params.Weighting{Kind: params.WeightingMSM}
	case "emsm":
		over.Weighting = params.Weighting{Kind: params.WeightingEMSM}
	case "miripsf":
		over.Weighting = params.Weighting{Kind: params.WeightingMIRIPSF}
	default:
		return over, fmt.Errorf("ifucube: unknown weighting %q", d.Weighting)
	}

	return over, nil
}

/*****************************************************************************************************************/

// Document is the manifest's top-level shape.
type Document struct {
	Base      string              `json:"base"`
	Kind      string              `json:"kind"` // "MIRI" | "NIRSPEC"
	Table     []bandParametersDoc `json:"table"`
	Exposures []exposureDoc       `json:"exposures"`
	Overrides overridesDoc        `json:"overrides"`
}

/*****************************************************************************************************************/

// Build is the manifest resolved into the concrete pieces the orchestrator's Request
// expects: the instrument kind, ops, parameter table, per-exposure inputs, distinct bands,
// and resolved overrides.
type Build struct {
	Base   string
	Kind   instrument.Kind
	Ops    instrument.Ops
	Info   instrument.Info
	Inputs []cubegeometry.Input
	Bands  []astrometry.BandKey
	Over   params.Overrides
}

/*****************************************************************************************************************/

// Load reads and resolves a manifest file from path.
func Load(path string) (*Build, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ifucube: failed to open manifest: %w", err)
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("ifucube: failed to parse manifest: %w", err)
	}

	return doc.resolve()
}

/*****************************************************************************************************************/

func (doc Document) resolve() (*Build, error) {
	var kind instrument.Kind
	var ops instrument.Ops
	switch doc.Kind {
	case "MIRI":
		kind, ops = instrument.MIRI, instrument.MIRIOps{}
	case "NIRSPEC":
		kind, ops = instrument.NIRSPEC, instrument.NIRSpecOps{}
	default:
		return nil, fmt.Errorf("ifucube: unknown instrument kind %q", doc.Kind)
	}

	table := instrument.StaticTable{Bands: make(map[astrometry.BandKey]instrument.BandParameters, len(doc.Table))}
	for _, row := range doc.Table {
		table.Bands[row.Band.key()] = row.resolve()
	}

	seen := map[astrometry.BandKey]bool{}
	var bands []astrometry.BandKey
	var inputs []cubegeometry.Input

	for _, ed := range doc.Exposures {
		e, err := ed.resolve()
		if err != nil {
			return nil, err
		}
		band := ed.Band.key()
		inputs = append(inputs, cubegeometry.Input{Exposure: e, Band: band})
		if !seen[band] {
			seen[band] = true
			bands = append(bands, band)
		}
	}

	over, err := doc.Overrides.resolve()
	if err != nil {
		return nil, err
	}

	return &Build{
		Base:   doc.Base,
		Kind:   kind,
		Ops:    ops,
		Info:   table,
		Inputs: inputs,
		Bands:  bands,
		Over:   over,
	}, nil
}

/*****************************************************************************************************************/
