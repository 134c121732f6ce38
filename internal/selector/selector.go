// Package selector filters feature collections against a selection
// request, at whole-township and specific-section granularity.
package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jmcrawford/areamap/internal/model"
	"github.com/jmcrawford/areamap/internal/plss"
)

// ErrMissingField indicates a required identifier column is absent from
// a layer's attribute schema.
var ErrMissingField = errors.New("identifier field missing from layer schema")

const sampleLimit = 10

// Matcher selects features by decoded PLSS identifiers.
type Matcher struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) Matcher {
	return Matcher{log: log}
}

// ByKeys returns the features whose identifier decodes to any of the
// requested keys. The result is an index-subset of fs, input order
// preserved, each feature at most once. fs itself is untouched.
func (m Matcher) ByKeys(fs model.FeatureSet, field string, keys []model.TRKey) (model.FeatureSet, error) {
	if !fs.HasField(field) {
		return model.FeatureSet{}, fmt.Errorf("%w: %q (available: %s)",
			ErrMissingField, field, strings.Join(fs.FieldNames(), ", "))
	}

	decoded := m.decodeAll(fs, field)

	requested := make(map[model.TRKey]bool, len(keys))
	for _, k := range keys {
		requested[k] = true
	}

	// per-key counts, logged so an unmatched key is easy to spot
	for _, k := range keys {
		n := 0
		for _, d := range decoded {
			if d == k {
				n++
			}
		}
		m.log.Info().Stringer("key", k).Int("matched", n).Msg("township/range match")
	}

	var indices []int
	for i, d := range decoded {
		if requested[d] {
			indices = append(indices, i)
		}
	}

	out := fs.Subset(indices)
	m.log.Info().Str("layer", fs.Name).Int("selected", out.Count()).Msg("selection complete")
	return out, nil
}

// ByKeysAndSections additionally requires the feature's section number
// to be listed for the matching key. Keys with an empty section list
// contribute nothing: no sections listed means no section-level
// narrowing was requested, not "all sections".
func (m Matcher) ByKeysAndSections(fs model.FeatureSet, trField, secField string, sections map[model.TRKey][]int) (model.FeatureSet, error) {
	for _, field := range []string{trField, secField} {
		if !fs.HasField(field) {
			return model.FeatureSet{}, fmt.Errorf("%w: %q (available: %s)",
				ErrMissingField, field, strings.Join(fs.FieldNames(), ", "))
		}
	}

	decoded := m.decodeAll(fs, trField)

	wanted := make(map[model.TRKey]map[int]bool, len(sections))
	for k, secs := range sections {
		if len(secs) == 0 {
			continue
		}
		set := make(map[int]bool, len(secs))
		for _, s := range secs {
			set[s] = true
		}
		wanted[k] = set
	}

	var indices []int
	counts := make(map[model.TRKey]int, len(wanted))
	for i, d := range decoded {
		set, ok := wanted[d]
		if !ok {
			continue
		}
		sec := plss.Section(attrString(fs.Features[i].Attrs[secField]))
		if set[sec] {
			indices = append(indices, i)
			counts[d]++
		}
	}

	for k, secs := range sections {
		if len(secs) == 0 {
			continue
		}
		m.log.Info().Stringer("key", k).Ints("sections", secs).Int("matched", counts[k]).Msg("section match")
	}

	out := fs.Subset(indices)
	m.log.Info().Str("layer", fs.Name).Int("selected", out.Count()).Msg("section selection complete")
	return out, nil
}

func (m Matcher) decodeAll(fs model.FeatureSet, field string) []model.TRKey {
	decoded := make([]model.TRKey, len(fs.Features))
	for i, f := range fs.Features {
		raw := attrString(f.Attrs[field])
		decoded[i] = plss.Decode(raw)
		if i < sampleLimit {
			m.log.Debug().Str("layer", fs.Name).Str("id", raw).Stringer("decoded", decoded[i]).Msg("sample identifier")
		}
	}
	return decoded
}

func attrString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
