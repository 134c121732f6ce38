package model

import (
	"fmt"
	"sort"

	"github.com/peterstace/simplefeatures/geom"
)

// TRKey identifies one survey township: township number and direction,
// range number and direction. Two keys denote the same township iff all
// four fields are equal.
type TRKey struct {
	Township    int
	TownshipDir string // "N" or "S"
	Range       int
	RangeDir    string // "E" or "W"
}

func (k TRKey) String() string {
	return fmt.Sprintf("T%d%s-R%d%s", k.Township, k.TownshipDir, k.Range, k.RangeDir)
}

// Less orders keys by (township, township dir, range, range dir).
func (k TRKey) Less(o TRKey) bool {
	if k.Township != o.Township {
		return k.Township < o.Township
	}
	if k.TownshipDir != o.TownshipDir {
		return k.TownshipDir < o.TownshipDir
	}
	if k.Range != o.Range {
		return k.Range < o.Range
	}
	return k.RangeDir < o.RangeDir
}

// SelectionRequest is the parsed content of a selection file. Sections
// maps each requested township/range to the section numbers listed for
// it; an empty list means the whole township was requested with no
// section-level narrowing.
type SelectionRequest struct {
	AreaLabel string
	Sections  map[TRKey][]int
}

// Keys returns the requested keys in tuple order for deterministic
// reporting. Ordering has no effect on matching.
func (r *SelectionRequest) Keys() []TRKey {
	keys := make([]TRKey, 0, len(r.Sections))
	for k := range r.Sections {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// Field describes one attribute column of a layer, with its declared
// SQL type (TEXT, INTEGER, REAL, BLOB).
type Field struct {
	Name string
	Type string
}

// Feature pairs a geometry with its attribute record.
type Feature struct {
	Geom  geom.Geometry
	Attrs map[string]any
}

// FeatureSet is an ordered feature collection sharing one coordinate
// reference system, identified by its EPSG code.
type FeatureSet struct {
	Name     string
	SRID     int
	Fields   []Field
	Features []Feature
}

func (fs FeatureSet) Count() int { return len(fs.Features) }

func (fs FeatureSet) Empty() bool { return len(fs.Features) == 0 }

func (fs FeatureSet) HasField(name string) bool {
	for _, f := range fs.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (fs FeatureSet) FieldNames() []string {
	names := make([]string, len(fs.Fields))
	for i, f := range fs.Fields {
		names[i] = f.Name
	}
	return names
}

// Subset returns a new FeatureSet holding the features at the given
// indices, in the given order. The receiver is not modified.
func (fs FeatureSet) Subset(indices []int) FeatureSet {
	out := FeatureSet{
		Name:     fs.Name,
		SRID:     fs.SRID,
		Fields:   fs.Fields,
		Features: make([]Feature, 0, len(indices)),
	}
	for _, i := range indices {
		out.Features = append(out.Features, fs.Features[i])
	}
	return out
}

// ClipMask is a dissolved selection: flat single-part polygons covering
// the union of the selected features, in the CRS they were read in.
type ClipMask struct {
	SRID  int
	Parts []geom.Geometry
}
