// Package plss decodes fixed-layout PLSS identifier strings.
//
// A first-division identifier (CadNSDI style) looks like
// "CO060330N0190W0": two state letters, two meridian digits, a 4-digit
// township code, the township direction, a 4-digit range code, the range
// direction and a filler character. Only the first three digits of the
// township and range codes carry the number; the fourth is always zero.
package plss

import (
	"strconv"
	"strings"

	"github.com/jmcrawford/areamap/internal/model"
)

// Byte offsets into the identifier. Kept in one place so a layout change
// is a single edit.
const (
	townshipStart = 4
	townshipEnd   = 7
	townshipDir   = 8
	rangeStart    = 9
	rangeEnd      = 12
	rangeDir      = 13
)

// Decode extracts the township/range key from a raw identifier. It is
// pure and never fails: input shorter than the layout, or with
// non-numeric digits where numbers are expected, decodes to a truncated
// or zero-valued key that simply matches nothing.
func Decode(raw string) model.TRKey {
	return model.TRKey{
		Township:    number(raw, townshipStart, townshipEnd),
		TownshipDir: letter(raw, townshipDir),
		Range:       number(raw, rangeStart, rangeEnd),
		RangeDir:    letter(raw, rangeDir),
	}
}

// Section extracts the section number from a second-division identifier
// such as "CO060330N0190W0SN100": the two digits immediately before the
// final character. Returns 0 when the input is too short or not numeric.
func Section(raw string) int {
	if len(raw) < 3 {
		return 0
	}
	n, err := strconv.Atoi(raw[len(raw)-3 : len(raw)-1])
	if err != nil {
		return 0
	}
	return n
}

func number(raw string, start, end int) int {
	if start >= len(raw) {
		return 0
	}
	if end > len(raw) {
		end = len(raw)
	}
	n, err := strconv.Atoi(raw[start:end])
	if err != nil {
		return 0
	}
	return n
}

func letter(raw string, pos int) string {
	if pos >= len(raw) {
		return ""
	}
	return strings.ToUpper(raw[pos : pos+1])
}
