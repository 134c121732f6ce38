// Package mask dissolves a selected feature collection into clip
// polygons.
package mask

import (
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/jmcrawford/areamap/internal/model"
)

// ErrEmptyInput indicates a mask was requested from zero features.
var ErrEmptyInput = errors.New("no features selected, nothing to dissolve")

// Build unions all geometries in fs into one combined geometry, then
// splits multi-part results into flat single-part polygons. The parts
// together cover exactly the union area; their order is not meaningful.
func Build(fs model.FeatureSet) (model.ClipMask, error) {
	if fs.Empty() {
		return model.ClipMask{}, ErrEmptyInput
	}

	union := fs.Features[0].Geom
	for _, f := range fs.Features[1:] {
		u, err := geom.Union(union, f.Geom)
		if err != nil {
			return model.ClipMask{}, fmt.Errorf("dissolve: %w", err)
		}
		union = u
	}

	return model.ClipMask{SRID: fs.SRID, Parts: explode(union)}, nil
}

// explode flattens MultiPolygons and GeometryCollections into their
// single-part members.
func explode(g geom.Geometry) []geom.Geometry {
	switch g.Type() {
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		out := make([]geom.Geometry, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			out = append(out, mp.PolygonN(i).AsGeometry())
		}
		return out
	case geom.TypeGeometryCollection:
		gc := g.MustAsGeometryCollection()
		var out []geom.Geometry
		for i := 0; i < gc.NumGeometries(); i++ {
			out = append(out, explode(gc.GeometryN(i))...)
		}
		return out
	default:
		if g.IsEmpty() {
			return nil
		}
		return []geom.Geometry{g}
	}
}
