package plss

import (
	"fmt"
	"testing"

	"github.com/jmcrawford/areamap/internal/model"
)

func TestDecode_KnownIdentifier(t *testing.T) {
	// state and meridian prefix and the trailing filler are ignored
	got := Decode("CO060550N0660W0")
	want := model.TRKey{Township: 55, TownshipDir: "N", Range: 66, RangeDir: "W"}
	if got != want {
		t.Fatalf("Decode = %v, want %v", got, want)
	}
}

func TestDecode_LowercaseDirections(t *testing.T) {
	got := Decode("CO230330n0190w0")
	want := model.TRKey{Township: 33, TownshipDir: "N", Range: 19, RangeDir: "W"}
	if got != want {
		t.Fatalf("Decode = %v, want %v", got, want)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	keys := []model.TRKey{
		{Township: 1, TownshipDir: "N", Range: 1, RangeDir: "E"},
		{Township: 33, TownshipDir: "N", Range: 19, RangeDir: "W"},
		{Township: 120, TownshipDir: "S", Range: 999, RangeDir: "E"},
	}
	for _, want := range keys {
		raw := fmt.Sprintf("CO06%03d0%s%03d0%s0",
			want.Township, want.TownshipDir, want.Range, want.RangeDir)
		if got := Decode(raw); got != want {
			t.Fatalf("Decode(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestDecode_LeadingZerosMatchNumerically(t *testing.T) {
	// "019" and "19" are the same range numerically
	got := Decode("CO060330N0190W0")
	if got.Range != 19 {
		t.Fatalf("Range = %d, want 19", got.Range)
	}
}

func TestDecode_ShortInputYieldsZeroKey(t *testing.T) {
	for _, raw := range []string{"", "CO", "CO06033"} {
		got := Decode(raw)
		if got.Township != 0 && got.RangeDir != "" {
			t.Fatalf("Decode(%q) = %v, want truncated key", raw, got)
		}
	}
}

func TestDecode_NonNumericYieldsZero(t *testing.T) {
	got := Decode("COXXYYYZZNAAAQWE")
	if got.Township != 0 || got.Range != 0 {
		t.Fatalf("Decode on garbage = %v, want zero numbers", got)
	}
}

func TestSection_TrailingSlice(t *testing.T) {
	cases := map[string]int{
		"CO060330N0190W0SN100": 10,
		"CO060330N0190W0SN120": 12,
		"CO060330N0190W0SN010": 1,
		"SN360":                36,
		"xx":                   0,
		"":                     0,
	}
	for raw, want := range cases {
		if got := Section(raw); got != want {
			t.Fatalf("Section(%q) = %d, want %d", raw, got, want)
		}
	}
}
