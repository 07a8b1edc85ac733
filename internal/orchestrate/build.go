/*****************************************************************************************************************/

//	@package	ifucube
//	@license	Copyright © 2021-2026 orbitalforge

/*****************************************************************************************************************/

// Package orchestrate wires the Parameter Resolver, Geometry Builder, Detector
// Mapper, Resampling Kernel, FOV DQ Engine, and Output Assembler
// together into a single cube build, strictly single-threaded and synchronous per cube.
package orchestrate

/*****************************************************************************************************************/

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/oklog/ulid"

	"github.com/orbitalforge/ifucube/pkg/astrometry"
	"github.com/orbitalforge/ifucube/pkg/diagnostic"
	"github.com/orbitalforge/ifucube/pkg/exposure"
	"github.com/orbitalforge/ifucube/pkg/geometry"
	"github.com/orbitalforge/ifucube/pkg/instrument"
	"github.com/orbitalforge/ifucube/pkg/projection"
	"github.com/orbitalforge/ifucube/internal/assemble"
	"github.com/orbitalforge/ifucube/internal/cubegeometry"
	"github.com/orbitalforge/ifucube/internal/detector"
	"github.com/orbitalforge/ifucube/internal/dq"
	"github.com/orbitalforge/ifucube/internal/params"
	"github.com/orbitalforge/ifucube/internal/resample"
	"github.com/orbitalforge/ifucube/internal/store"
)

/*****************************************************************************************************************/

// Request is everything one cube build needs: its inputs, the instrument capability, the
// parameter table, and the user-facing overrides.
type Request struct {
	Base   string
	Kind   instrument.Kind
	Ops    instrument.Ops
	Info   instrument.Info
	Inputs []cubegeometry.Input // one per (exposure, band)
	Bands  []astrometry.BandKey
	Over   params.Overrides

	Diagnose      bool // when true, render a DQ-plane PNG alongside the cube
	DiagnosticDir string
}

/*****************************************************************************************************************/

// Orchestrator runs cube builds, optionally recording each one to a build-history ledger
// and logging progress through an optional *log.Logger.
type Orchestrator struct {
	Store  *store.Store // optional; nil disables history recording
	Logger *log.Logger  // optional; nil disables logging
}

/*****************************************************************************************************************/

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

/*****************************************************************************************************************/

// newBuildID mints a fresh ULID from the current time with crypto/rand entropy, matching
// the library's own documented construction pattern for callers who don't supply their own
// entropy source.
func newBuildID() ulid.ULID {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
}

/*****************************************************************************************************************/

// Build runs one complete cube reconstruction end to end and records the outcome in the
// build-history ledger when one is configured.
func (o *Orchestrator) Build(ctx context.Context, req Request) (*assemble.Cube, error) {
	buildID := newBuildID().String()
	o.logf("build %s: starting cube %s (%d inputs, %d bands)", buildID, req.Base, len(req.Inputs), len(req.Bands))

	cube, err := o.build(ctx, req)

	record := store.BuildRecord{
		BuildID:     buildID,
		Instrument:  req.Kind.String(),
		CoordSystem: coordSystemName(req.Over.CoordSystem),
		OutputType:  outputTypeName(req.Over.OutputType),
		InputCount:  len(req.Inputs),
		Succeeded:   err == nil,
	}
	if err != nil {
		record.ErrorMessage = err.Error()
	} else {
		record.CubeName = cube.Name
	}

	if o.Store != nil {
		if storeErr := o.Store.Record(record); storeErr != nil {
			o.logf("build %s: failed to record build history: %v", buildID, storeErr)
		}
	}

	if err != nil {
		o.logf("build %s: failed: %v", buildID, err)
		return nil, err
	}

	o.logf("build %s: produced %s", buildID, cube.Name)
	return cube, nil
}

/*****************************************************************************************************************/

// BuildAll expands one request per its output type and builds each resulting cube in
// sequence: multi combines every input into one cube, single emits one cube per exposure
// (for outlier detection downstream), and band emits one cube per distinct band. A cube
// that fails aborts only itself; the remaining cubes still build, and every failure is
// folded into the returned error.
func (o *Orchestrator) BuildAll(ctx context.Context, req Request) ([]*assemble.Cube, error) {
	var requests []Request

	switch req.Over.OutputType {
	case params.OutputSingle:
		for i, in := range req.Inputs {
			sub := req
			sub.Base = fmt.Sprintf("%s-%d", req.Base, i+1)
			sub.Inputs = []cubegeometry.Input{in}
			sub.Bands = []astrometry.BandKey{in.Band}
			requests = append(requests, sub)
		}
	case params.OutputBand:
		for _, band := range req.Bands {
			sub := req
			sub.Bands = []astrometry.BandKey{band}
			sub.Inputs = nil
			for _, in := range req.Inputs {
				if in.Band == band {
					sub.Inputs = append(sub.Inputs, in)
				}
			}
			if len(sub.Inputs) == 0 {
				continue
			}
			requests = append(requests, sub)
		}
	default:
		requests = append(requests, req)
	}

	var cubes []*assemble.Cube
	var errs []error

	for _, sub := range requests {
		cube, err := o.Build(ctx, sub)
		if err != nil {
			errs = append(errs, fmt.Errorf("cube %s: %w", sub.Base, err))
			continue
		}
		cubes = append(cubes, cube)
	}

	return cubes, errors.Join(errs...)
}

/*****************************************************************************************************************/

func (o *Orchestrator) build(ctx context.Context, req Request) (*assemble.Cube, error) {
	resolved, err := params.Resolve(req.Bands, req.Info, req.Over, len(req.Inputs))
	if err != nil {
		return nil, fmt.Errorf("resolving parameters: %w", err)
	}

	geom, err := buildGeometry(ctx, req, resolved)
	if err != nil {
		return nil, fmt.Errorf("building geometry: %w", err)
	}

	grid := resample.NewSpaxelGrid(geom.X.NAXIS, geom.Y.NAXIS, geom.Z.NAXIS)

	dqPlanes := make([]*dq.Plane, geom.Z.NAXIS)
	for k := range dqPlanes {
		dqPlanes[k] = dq.NewPlane(geom.X.NAXIS, geom.Y.NAXIS)
	}

	for _, in := range req.Inputs {
		o.accumulateInput(geom, grid, dqPlanes, in, req.Ops, req.Info, resolved, req.Over)
	}

	totalHoles := 0
	for k, plane := range dqPlanes {
		totalHoles += dq.Refine(plane, grid, k)
	}
	if len(dqPlanes) > 0 {
		o.logf("cube %s: average holes per wavelength plane: %.2f", req.Base, float64(totalHoles)/float64(len(dqPlanes)))
	}

	name := assemble.Name(assemble.NameInputs{
		Base: req.Base, Kind: req.Kind, Bands: req.Bands,
		CoordSystem: req.Over.CoordSystem, OutputType: req.Over.OutputType,
	})

	cube := assemble.Assemble(name, geom, grid, dqPlanes)

	if req.Diagnose {
		o.renderDiagnostics(req, geom, dqPlanes, cube)
	}

	return cube, nil
}

/*****************************************************************************************************************/

func buildGeometry(ctx context.Context, req Request, resolved params.Resolved) (cubegeometry.Geometry, error) {
	if req.Over.CoordSystem == params.CoordSystemAlphaBeta {
		if len(req.Inputs) != 1 {
			return cubegeometry.Geometry{}, fmt.Errorf("alpha-beta geometry requires exactly one input, got %d", len(req.Inputs))
		}

		in := req.Inputs[0]
		fov := req.Ops.ExposureFootprint(in.Exposure, in.Band, req.Info)
		nSlice := req.Info.GetNSlice(in.Band)

		// The alpha-beta footprint's native alpha/beta extent comes from the exposure's own
		// WCS at the first and last detector corner pixels; its wavelength extent comes
		// from the exposure's sky footprint.
		x0, y0, _ := in.Exposure.Meta().WCS.DetectorToAlphaBeta(0, 0)
		rows, columns := in.Exposure.Shape()
		x1, y1, _ := in.Exposure.Meta().WCS.DetectorToAlphaBeta(float64(columns-1), float64(rows-1))

		abFootprint := cubegeometry.AlphaBetaFootprint{
			AlphaMin: minFloat(x0, x1), AlphaMax: maxFloat(x0, x1),
			BetaMin: minFloat(y0, y1), BetaMax: maxFloat(y0, y1),
			WaveMin: fov.WaveMin, WaveMax: fov.WaveMax,
		}

		return cubegeometry.BuildAlphaBeta(abFootprint, resolved.SpatialScale, resolved.Spectral.Step, nSlice), nil
	}

	return cubegeometry.BuildWorld(ctx, req.Inputs, req.Ops, req.Info, resolved, resolved.SpatialScale, resolved.SpatialScale)
}

/*****************************************************************************************************************/

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

/*****************************************************************************************************************/

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

/*****************************************************************************************************************/

// accumulateInput runs the Detector Mapper and Resampling Kernel for one exposure, then
// folds its per-slice FOV footprint into every wavelength plane's DQ buffer.
func (o *Orchestrator) accumulateInput(
	geom cubegeometry.Geometry,
	grid *resample.SpaxelGrid,
	dqPlanes []*dq.Plane,
	in cubegeometry.Input,
	ops instrument.Ops,
	info instrument.Info,
	resolved params.Resolved,
	over params.Overrides,
) {
	opts := detector.Options{
		Band:               in.Band,
		SubtractBackground: true,
		CoordSystem:        over.CoordSystem,
		NeedsAlphaBeta:     resolved.Weighting.Kind == params.WeightingMIRIPSF,
	}

	samples := detector.Map(in.Exposure, ops, info, resolved, geom, opts)

	if len(samples) == 0 {
		o.logf("exposure band %s/%s contributed zero samples; continuing", in.Band.Par1, in.Band.Par2)
		return
	}
	o.logf("exposure band %s/%s: %d samples mapped", in.Band.Par1, in.Band.Par2, len(samples))

	if over.Interpolation == params.InterpolationArea {
		areaSamples := toAreaSamples(in.Exposure, ops, info, in.Band, samples)
		resample.AccumulateArea(grid, geom, areaSamples)
	} else {
		reproject := newSpaxelReprojector(geom, in.Exposure)
		resample.AccumulatePointcloud(grid, geom, samples, resolved.Weighting, info, in.Band, reproject)
	}

	flagFootprint(geom, dqPlanes, ops, info, in, samples)
}

/*****************************************************************************************************************/

// newSpaxelReprojector builds the miripsf weighting law's per-spaxel (alpha, beta)
// reprojection once per exposure: spaxel center -> sky -> this exposure's V2/V3 ->
// alpha/beta, reusing the exposure's own WCS focal-plane transform.
func newSpaxelReprojector(geom cubegeometry.Geometry, e exposure.Exposure) resample.SpaxelReprojector {
	w := e.Meta().WCS
	return func(i, j, k int) (alpha, beta float64) {
		ra, dec := projection.ConvertTangentPlaneToEquatorial(geom.X.Coord[i], geom.Y.Coord[j], geom.SkyRA, geom.SkyDec)
		v2, v3 := w.WorldToV2V3(ra, dec)
		return w.V2V3ToAlphaBeta(v2, v3)
	}
}

/*****************************************************************************************************************/

// toAreaSamples builds each sample's polygon in the (alpha, wavelength) plane for the area
// resampling law (single-exposure, alpha-beta only). The polygon is an axis-aligned
// rectangle centered on the sample's (alpha, wave), with half-widths SpatialROI and
// SpectralROI (0.5 where either is zero); the detector pixel's own corners are not
// transformed. Beta is exactly the slice number, already carried on each detector sample.
func toAreaSamples(e exposure.Exposure, ops instrument.Ops, info instrument.Info, band astrometry.BandKey, samples []detector.Sample) []resample.AreaSample {
	out := make([]resample.AreaSample, 0, len(samples))
	for _, s := range samples {
		halfA := s.SpatialROI
		if halfA == 0 {
			halfA = 0.5
		}
		halfW := s.SpectralROI
		if halfW == 0 {
			halfW = 0.5
		}

		out = append(out, resample.AreaSample{
			SliceNo: s.SliceNo,
			Flux:    s.Flux,
			Polygon: pixelPolygon(s.Coord1, s.Wave, halfA, halfW),
		})
	}
	return out
}

/*****************************************************************************************************************/

// pixelPolygon builds one detector pixel's axis-aligned rectangle in the (alpha,
// wavelength) plane, centered on (alpha, wave) with the given half-widths.
func pixelPolygon(alpha, wave, halfAlpha, halfWave float64) []geometry.Point {
	return []geometry.Point{
		{X: alpha - halfAlpha, Y: wave - halfWave},
		{X: alpha + halfAlpha, Y: wave - halfWave},
		{X: alpha + halfAlpha, Y: wave + halfWave},
		{X: alpha - halfAlpha, Y: wave + halfWave},
	}
}

/*****************************************************************************************************************/

func flagFootprint(geom cubegeometry.Geometry, dqPlanes []*dq.Plane, ops instrument.Ops, info instrument.Info, in cubegeometry.Input, samples []detector.Sample) {
	if ops.DQOverlapMode() == instrument.OverlapModePolygon {
		flagMIRIFootprint(geom, dqPlanes, samples)
		return
	}

	// NIRSPEC: one line per slice, swept across every wavelength plane (the slice's sky
	// footprint is treated as wavelength-independent at this resolution).
	sliceMap := ops.SliceMapForExposure(in.Exposure, in.Band, info)
	nSlice := info.GetNSlice(in.Band)

	for slice := 0; slice < nSlice; slice++ {
		xi0, eta0, xi1, eta1, ok := sliceLineFootprint(geom, in.Exposure, sliceMap, slice)
		if !ok {
			continue
		}
		for _, plane := range dqPlanes {
			dq.FlagLine(plane, geom, xi0, eta0, xi1, eta1)
		}
	}
}

/*****************************************************************************************************************/

// flagMIRIFootprint flags each wavelength plane from the exposure's own mapped samples:
// per plane, the samples whose wavelength falls within that plane's spectral ROI are
// reduced to the two extreme slices, whose (xi, eta) cloud gives the 4-corner footprint.
// A footprint degenerated to a line falls back to the Bresenham path rather than the
// polygon-overlap path.
func flagMIRIFootprint(geom cubegeometry.Geometry, dqPlanes []*dq.Plane, samples []detector.Sample) {
	for k, plane := range dqPlanes {
		zc := geom.Z.Coord[k]

		minSlice, maxSlice := -1, -1
		for _, s := range samples {
			if math.Abs(s.Wave-zc) > s.SpectralROI {
				continue
			}
			if minSlice == -1 || s.SliceNo < minSlice {
				minSlice = s.SliceNo
			}
			if maxSlice == -1 || s.SliceNo > maxSlice {
				maxSlice = s.SliceNo
			}
		}
		if minSlice == -1 {
			continue
		}

		var coord1, coord2 []float64
		for _, s := range samples {
			if math.Abs(s.Wave-zc) > s.SpectralROI {
				continue
			}
			if s.SliceNo != minSlice && s.SliceNo != maxSlice {
				continue
			}
			coord1 = append(coord1, s.Coord1)
			coord2 = append(coord2, s.Coord2)
		}

		fp, isLine := geometry.FourCorners(coord1, coord2)
		if isLine {
			dq.FlagLine(plane, geom, fp.Xi1, fp.Eta1, fp.Xi3, fp.Eta3)
		} else {
			dq.FlagPolygon(plane, geom, fp)
		}
	}
}

/*****************************************************************************************************************/

// sliceLineFootprint derives a NIRSpec slice's tangent-plane line endpoints from the two
// detector pixels furthest apart within that slice's SliceMap assignment, projected
// through the exposure's own WCS and the cube's tangent plane.
func sliceLineFootprint(geom cubegeometry.Geometry, e exposure.Exposure, sliceMap instrument.SliceMap, slice int) (xi0, eta0, xi1, eta1 float64, ok bool) {
	rows, columns := e.Shape()

	foundFirst := false
	var firstX, firstY, lastX, lastY int

	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			if sliceMap.At(x, y) != slice {
				continue
			}
			if !foundFirst {
				firstX, firstY = x, y
				foundFirst = true
			}
			lastX, lastY = x, y
		}
	}

	if !foundFirst {
		return 0, 0, 0, 0, false
	}

	w := e.Meta().WCS

	ra0, dec0, _ := w.DetectorToSky(float64(firstX), float64(firstY))
	ra1, dec1, _ := w.DetectorToSky(float64(lastX), float64(lastY))

	xi0, eta0 = geom.TangentPlane(ra0, dec0)
	xi1, eta1 = geom.TangentPlane(ra1, dec1)

	return xi0, eta0, xi1, eta1, true
}

/*****************************************************************************************************************/

func coordSystemName(c params.CoordSystem) string {
	if c == params.CoordSystemAlphaBeta {
		return "alpha-beta"
	}
	return "world"
}

/*****************************************************************************************************************/

func outputTypeName(o params.OutputType) string {
	switch o {
	case params.OutputSingle:
		return "single"
	case params.OutputBand:
		return "band"
	default:
		return "multi"
	}
}

/*****************************************************************************************************************/

func (o *Orchestrator) renderDiagnostics(req Request, geom cubegeometry.Geometry, dqPlanes []*dq.Plane, cube *assemble.Cube) {
	if len(dqPlanes) == 0 || req.DiagnosticDir == "" {
		return
	}

	mid := dqPlanes[len(dqPlanes)/2]
	path := req.DiagnosticDir + "/" + cube.Name + ".dq.png"

	if err := diagnostic.RenderDQPlane(path, mid.NAXIS1, mid.NAXIS2, mid.Flags); err != nil {
		o.logf("diagnostic render failed for %s: %v", cube.Name, err)
	}
}

/*****************************************************************************************************************/
