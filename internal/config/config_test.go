package config

import "testing"

func TestParseParcels(t *testing.T) {
	got := parseParcels("Larimer=/data/larimer.gpkg, Weld=/data/weld.gpkg")
	if len(got) != 2 {
		t.Fatalf("sources = %d, want 2", len(got))
	}
	if got[0].Label != "Larimer" || got[0].Path != "/data/larimer.gpkg" {
		t.Fatalf("first source = %+v", got[0])
	}
	if got[1].Label != "Weld" || got[1].Path != "/data/weld.gpkg" {
		t.Fatalf("second source = %+v", got[1])
	}
}

func TestParseParcels_SkipsMalformedEntries(t *testing.T) {
	got := parseParcels("bad-entry,=nolabel,NoPath=,Ok=/x.gpkg,")
	if len(got) != 1 || got[0].Label != "Ok" {
		t.Fatalf("sources = %+v, want only Ok", got)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.ConfigPath != "config.map" {
		t.Fatalf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.PLSSIDField != "PLSSID" || cfg.SectionIDField != "FRSTDIVID" {
		t.Fatalf("fields = %q/%q", cfg.PLSSIDField, cfg.SectionIDField)
	}
	if len(cfg.Parcels) != 2 {
		t.Fatalf("default parcels = %d, want 2", len(cfg.Parcels))
	}
	if !cfg.Launch {
		t.Fatal("Launch should default to true")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("AREAMAP_CONFIG", "other.map")
	t.Setenv("AREAMAP_LAUNCH", "false")
	t.Setenv("AREAMAP_PARCELS", "One=/a.gpkg")
	cfg := FromEnv()
	if cfg.ConfigPath != "other.map" {
		t.Fatalf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.Launch {
		t.Fatal("Launch should be off")
	}
	if len(cfg.Parcels) != 1 || cfg.Parcels[0].Label != "One" {
		t.Fatalf("parcels = %+v", cfg.Parcels)
	}
}
