package selector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jmcrawford/areamap/internal/model"
)

func trKey(t, r int, tdir, rdir string) model.TRKey {
	return model.TRKey{Township: t, TownshipDir: tdir, Range: r, RangeDir: rdir}
}

func plssid(k model.TRKey) string {
	return fmt.Sprintf("CO06%03d0%s%03d0%s0", k.Township, k.TownshipDir, k.Range, k.RangeDir)
}

func townshipSet(keys ...model.TRKey) model.FeatureSet {
	fs := model.FeatureSet{
		Name:   "townships",
		SRID:   26913,
		Fields: []model.Field{{Name: "PLSSID", Type: "TEXT"}},
	}
	for _, k := range keys {
		fs.Features = append(fs.Features, model.Feature{
			Attrs: map[string]any{"PLSSID": plssid(k)},
		})
	}
	return fs
}

type secEntry struct {
	key model.TRKey
	sec int
}

func sectionSet(entries ...secEntry) model.FeatureSet {
	fs := model.FeatureSet{
		Name: "sections",
		SRID: 26913,
		Fields: []model.Field{
			{Name: "PLSSID", Type: "TEXT"},
			{Name: "FRSTDIVID", Type: "TEXT"},
		},
	}
	for _, e := range entries {
		fs.Features = append(fs.Features, model.Feature{
			Attrs: map[string]any{
				"PLSSID":    plssid(e.key),
				"FRSTDIVID": fmt.Sprintf("%sSN%02d0", plssid(e.key), e.sec),
			},
		})
	}
	return fs
}

func TestByKeys_SelectsMatchingFeatures(t *testing.T) {
	m := New(zerolog.Nop())
	k1 := trKey(33, 19, "N", "W")
	k2 := trKey(34, 19, "N", "W")
	k3 := trKey(7, 60, "S", "E")
	fs := townshipSet(k1, k2, k3, k1)

	got, err := m.ByKeys(fs, "PLSSID", []model.TRKey{k1, k3})
	if err != nil {
		t.Fatalf("ByKeys: %v", err)
	}
	if got.Count() != 3 {
		t.Fatalf("selected %d, want 3", got.Count())
	}
	// input order preserved
	wantIDs := []string{plssid(k1), plssid(k3), plssid(k1)}
	for i, want := range wantIDs {
		if got.Features[i].Attrs["PLSSID"] != want {
			t.Fatalf("feature %d = %v, want %s", i, got.Features[i].Attrs["PLSSID"], want)
		}
	}
	if fs.Count() != 4 {
		t.Fatalf("input mutated: %d features", fs.Count())
	}
}

func TestByKeys_EmptyKeySetSelectsNothing(t *testing.T) {
	m := New(zerolog.Nop())
	fs := townshipSet(trKey(33, 19, "N", "W"))
	got, err := m.ByKeys(fs, "PLSSID", nil)
	if err != nil {
		t.Fatalf("ByKeys: %v", err)
	}
	if !got.Empty() {
		t.Fatalf("selected %d, want 0", got.Count())
	}
}

func TestByKeys_UnmatchedKeyDoesNotAffectOthers(t *testing.T) {
	m := New(zerolog.Nop())
	k1 := trKey(33, 19, "N", "W")
	absent := trKey(99, 99, "S", "E")
	fs := townshipSet(k1)

	got, err := m.ByKeys(fs, "PLSSID", []model.TRKey{absent, k1})
	if err != nil {
		t.Fatalf("ByKeys: %v", err)
	}
	if got.Count() != 1 {
		t.Fatalf("selected %d, want 1", got.Count())
	}
}

func TestByKeys_MissingFieldFails(t *testing.T) {
	m := New(zerolog.Nop())
	fs := model.FeatureSet{Fields: []model.Field{{Name: "OTHER", Type: "TEXT"}}}
	_, err := m.ByKeys(fs, "PLSSID", []model.TRKey{trKey(1, 1, "N", "E")})
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
}

func TestByKeysAndSections_SubsetOfByKeys(t *testing.T) {
	m := New(zerolog.Nop())
	k := trKey(33, 19, "N", "W")
	fs := sectionSet(secEntry{k, 10}, secEntry{k, 12}, secEntry{k, 14})

	byKeys, err := m.ByKeys(fs, "PLSSID", []model.TRKey{k})
	if err != nil {
		t.Fatalf("ByKeys: %v", err)
	}
	bySections, err := m.ByKeysAndSections(fs, "PLSSID", "FRSTDIVID", map[model.TRKey][]int{k: {10, 12}})
	if err != nil {
		t.Fatalf("ByKeysAndSections: %v", err)
	}
	if bySections.Count() != 2 {
		t.Fatalf("selected %d sections, want 2", bySections.Count())
	}
	if bySections.Count() > byKeys.Count() {
		t.Fatalf("section selection (%d) larger than key selection (%d)", bySections.Count(), byKeys.Count())
	}
}

func TestByKeysAndSections_EmptyListContributesNothing(t *testing.T) {
	m := New(zerolog.Nop())
	k := trKey(33, 19, "N", "W")
	fs := sectionSet(secEntry{k, 10})

	// no sections listed means no narrowing requested, not "all sections"
	got, err := m.ByKeysAndSections(fs, "PLSSID", "FRSTDIVID", map[model.TRKey][]int{k: {}})
	if err != nil {
		t.Fatalf("ByKeysAndSections: %v", err)
	}
	if !got.Empty() {
		t.Fatalf("selected %d, want 0", got.Count())
	}
}

func TestByKeysAndSections_MissingSectionFieldFails(t *testing.T) {
	m := New(zerolog.Nop())
	fs := townshipSet(trKey(33, 19, "N", "W"))
	_, err := m.ByKeysAndSections(fs, "PLSSID", "FRSTDIVID", map[model.TRKey][]int{})
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
}
