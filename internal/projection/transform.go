// Package projection converts parcel geometry from the Romanian
// national grid, Stereo70 (EPSG:3844), to WGS84 (EPSG:4326).
package projection

import (
	"math"

	"github.com/rotisserie/eris"
	proj "github.com/twpayne/go-proj/v11"

	"github.com/Egidiu/cadastral-cli/internal/model"
)

// ErrBadCoordinate marks a ring entry that is not a finite (x, y) pair.
// Upstream responses should never contain one, but a malformed pair must
// degrade the record, not crash the batch.
var ErrBadCoordinate = eris.New("projection: malformed coordinate pair")

// Transformer converts raw EPSG:3844 polygon rings into an ordered flat
// vertex sequence in WGS84 plus a centroid.
//
// Absent or empty input yields (nil, nil, nil): "no data", deliberately
// distinct from a legitimate (0, 0) coordinate.
type Transformer interface {
	Transform(rings [][][]float64) ([]model.Vertex, *model.Vertex, error)
}

// Stereo70 is the PROJ-backed Transformer for the fixed
// EPSG:3844 -> EPSG:4326 conversion.
type Stereo70 struct {
	pj *proj.PJ
}

// NewStereo70 creates the transform. The PJ is built once and reused
// for the whole run.
func NewStereo70() (*Stereo70, error) {
	pj, err := proj.NewCRSToCRS("EPSG:3844", "EPSG:4326", nil)
	if err != nil {
		return nil, eris.Wrap(err, "projection: create EPSG:3844->EPSG:4326 transform")
	}
	return &Stereo70{pj: pj}, nil
}

// Transform projects every ring point and concatenates the rings into
// one flat ordered sequence. Ring boundaries are not retained, so a
// polygon with holes is not reconstructable from the output; known
// limitation of the tabular format.
//
// Axis order: ring points arrive as (easting, northing); PROJ is fed
// EPSG:3844 authority order (northing, easting) and returns EPSG:4326
// authority order (latitude, longitude).
//
// The centroid is the per-axis arithmetic mean of the projected
// vertices. It is defined iff the vertex sequence is non-empty.
func (t *Stereo70) Transform(rings [][][]float64) ([]model.Vertex, *model.Vertex, error) {
	points, err := flatten(rings)
	if err != nil {
		return nil, nil, err
	}
	if len(points) == 0 {
		return nil, nil, nil
	}

	vertices := make([]model.Vertex, 0, len(points))
	for _, p := range points {
		coord, err := t.pj.Forward(proj.NewCoord(p[1], p[0], 0, 0))
		if err != nil {
			return nil, nil, eris.Wrap(err, "projection: forward transform")
		}
		vertices = append(vertices, model.Vertex{Lat: coord.X(), Lon: coord.Y()})
	}

	central := centroid(vertices)
	return vertices, &central, nil
}

// flatten concatenates all rings into one ordered (x, y) sequence,
// validating every entry.
func flatten(rings [][][]float64) ([][2]float64, error) {
	var points [][2]float64
	for _, ring := range rings {
		for _, p := range ring {
			if len(p) < 2 || !isFinite(p[0]) || !isFinite(p[1]) {
				return nil, eris.Wrapf(ErrBadCoordinate, "point %v", p)
			}
			points = append(points, [2]float64{p[0], p[1]})
		}
	}
	return points, nil
}

// centroid returns the per-axis arithmetic mean. Callers guarantee a
// non-empty slice.
func centroid(vertices []model.Vertex) model.Vertex {
	var sumLat, sumLon float64
	for _, v := range vertices {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(vertices))
	return model.Vertex{Lat: sumLat / n, Lon: sumLon / n}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
