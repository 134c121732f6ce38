// Package clip intersects a feature collection against a clip mask.
package clip

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/rs/zerolog"

	"github.com/jmcrawford/areamap/internal/crs"
	"github.com/jmcrawford/areamap/internal/model"
)

// Engine clips target layers against masks. The target layer's CRS is
// authoritative: a mask in a different system is reprojected before
// intersecting, the target is never altered.
type Engine struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) Engine {
	return Engine{log: log}
}

type maskPart struct {
	g    geom.Geometry
	rect rtreego.Rect
}

func (p *maskPart) Bounds() rtreego.Rect { return p.rect }

// Clip returns the portions of target features that fall within the
// mask, dropping features with no remaining area. An empty target is
// returned unchanged with a warning; zero matches is never fatal.
func (e Engine) Clip(target model.FeatureSet, m model.ClipMask, label string) (model.FeatureSet, error) {
	if target.Empty() {
		e.log.Warn().Str("layer", label).Msg("target layer is empty, nothing to clip")
		return target, nil
	}

	parts := m.Parts
	if m.SRID != target.SRID {
		e.log.Info().
			Int("mask_epsg", m.SRID).
			Int("target_epsg", target.SRID).
			Msg("reprojecting clip mask to target CRS")
		reproj := make([]geom.Geometry, len(parts))
		for i, p := range parts {
			g, err := crs.Transform(p, m.SRID, target.SRID)
			if err != nil {
				return model.FeatureSet{}, fmt.Errorf("reproject mask: %w", err)
			}
			reproj[i] = g
		}
		parts = reproj
	}

	// bbox index over the mask parts so most features skip the exact
	// intersection entirely
	tree := rtreego.NewTree(2, 2, 8)
	for i := range parts {
		rect, err := boundsRect(parts[i])
		if err != nil {
			continue
		}
		tree.Insert(&maskPart{g: parts[i], rect: rect})
	}

	out := model.FeatureSet{
		Name:   target.Name,
		SRID:   target.SRID,
		Fields: target.Fields,
	}
	for _, f := range target.Features {
		rect, err := boundsRect(f.Geom)
		if err != nil {
			continue
		}
		candidates := tree.SearchIntersect(rect)
		if len(candidates) == 0 {
			continue
		}

		var clipped geom.Geometry
		found := false
		for _, c := range candidates {
			part := c.(*maskPart)
			inter, err := geom.Intersection(f.Geom, part.g)
			if err != nil {
				return model.FeatureSet{}, fmt.Errorf("clip %s: %w", label, err)
			}
			if inter.IsEmpty() {
				continue
			}
			if !found {
				clipped = inter
				found = true
				continue
			}
			u, err := geom.Union(clipped, inter)
			if err != nil {
				return model.FeatureSet{}, fmt.Errorf("clip %s: %w", label, err)
			}
			clipped = u
		}
		if !found {
			continue
		}
		out.Features = append(out.Features, model.Feature{Geom: clipped, Attrs: f.Attrs})
	}

	e.log.Info().Str("layer", label).Int("count", out.Count()).Msg("clip complete")
	return out, nil
}

// boundsRect computes the bounding rectangle of a geometry. rtreego
// rejects zero-size extents, so degenerate boxes get a tiny padding.
func boundsRect(g geom.Geometry) (rtreego.Rect, error) {
	seq := g.DumpCoordinates()
	if seq.Length() == 0 {
		return rtreego.Rect{}, fmt.Errorf("empty geometry")
	}
	first := seq.GetXY(0)
	minX, minY, maxX, maxY := first.X, first.Y, first.X, first.Y
	for i := 1; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		if xy.X < minX {
			minX = xy.X
		}
		if xy.X > maxX {
			maxX = xy.X
		}
		if xy.Y < minY {
			minY = xy.Y
		}
		if xy.Y > maxY {
			maxY = xy.Y
		}
	}
	const eps = 1e-9
	dx := maxX - minX
	dy := maxY - minY
	if dx < eps {
		dx = eps
	}
	if dy < eps {
		dy = eps
	}
	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{dx, dy})
}
