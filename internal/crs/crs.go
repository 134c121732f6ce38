// Package crs reconciles coordinate reference systems by EPSG code.
package crs

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// Resolve maps an EPSG code to a coordinate reference system. Beyond the
// codes wgs84 ships with, NAD83 UTM zones (269xx) are handled as WGS84
// UTM: the two datums differ by around a meter, well under parcel
// boundary accuracy.
func Resolve(code int) (wgs84.CoordinateReferenceSystem, error) {
	if crs := wgs84.EPSG().Code(code); crs != nil {
		return crs, nil
	}
	switch {
	case code == 4326:
		return wgs84.LonLat(), nil
	case code == 3857:
		return wgs84.WebMercator(), nil
	case code >= 26901 && code <= 26923:
		return wgs84.UTM(float64(code-26900), true), nil
	case code >= 32601 && code <= 32660:
		return wgs84.UTM(float64(code-32600), true), nil
	case code >= 32701 && code <= 32760:
		return wgs84.UTM(float64(code-32700), false), nil
	}
	return nil, fmt.Errorf("unsupported EPSG code %d", code)
}

// Transform rewrites g's coordinates from one EPSG system to another.
// Equal codes return g unchanged.
func Transform(g geom.Geometry, from, to int) (geom.Geometry, error) {
	if from == to {
		return g, nil
	}
	src, err := Resolve(from)
	if err != nil {
		return geom.Geometry{}, err
	}
	dst, err := Resolve(to)
	if err != nil {
		return geom.Geometry{}, err
	}
	tr := wgs84.Transform(src, dst)
	return g.TransformXY(func(xy geom.XY) geom.XY {
		x, y, _ := tr(xy.X, xy.Y, 0)
		return geom.XY{X: x, Y: y}
	}), nil
}
