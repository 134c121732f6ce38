// Package request parses selection files into a SelectionRequest.
//
// The format is free-form text. "County <name>" sets the area label, a
// token like "T33N-R19W" requests a township, and "Section <n>" pairs
// directly after a township token narrow it to specific sections:
//
//	County Larimer
//	T33N-R19W Section 10 Section 12
//	T34N-R19W
package request

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmcrawford/areamap/internal/model"
)

var (
	// ErrNotFound indicates the selection file does not exist.
	ErrNotFound = errors.New("selection file not found")

	// ErrNoSelections indicates the file parsed to an empty key set.
	ErrNoSelections = errors.New("no township/range selections found")
)

var trPattern = regexp.MustCompile(`^(?i)T(\d+)([NS])-R(\d+)([EW])$`)

// Load reads and parses the selection file at path.
func Load(path string) (*model.SelectionRequest, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read selection file: %w", err)
	}
	return Parse(string(b))
}

// Parse scans the text left to right with a single cursor and no
// backtracking. Punctuation (: , ; .) is treated as whitespace. A
// township key appearing more than once merges into one entry, its
// section lists appended in encounter order. Unrecognized tokens are
// skipped.
func Parse(text string) (*model.SelectionRequest, error) {
	for _, ch := range []string{":", ",", ";", "."} {
		text = strings.ReplaceAll(text, ch, " ")
	}
	tokens := strings.Fields(text)

	req := &model.SelectionRequest{Sections: make(map[model.TRKey][]int)}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]

		if strings.EqualFold(tok, "county") && i+1 < len(tokens) {
			req.AreaLabel = tokens[i+1]
			i += 2
			continue
		}

		if m := trPattern.FindStringSubmatch(tok); m != nil {
			tNum, _ := strconv.Atoi(m[1])
			rNum, _ := strconv.Atoi(m[3])
			key := model.TRKey{
				Township:    tNum,
				TownshipDir: strings.ToUpper(m[2]),
				Range:       rNum,
				RangeDir:    strings.ToUpper(m[4]),
			}
			if _, ok := req.Sections[key]; !ok {
				req.Sections[key] = nil
			}
			i++
			// zero or more "Section <n>" pairs, consumed greedily
			for i < len(tokens) && strings.EqualFold(tokens[i], "section") {
				i++
				if i < len(tokens) && isDigits(tokens[i]) {
					n, _ := strconv.Atoi(tokens[i])
					req.Sections[key] = append(req.Sections[key], n)
					i++
				} else {
					break
				}
			}
			continue
		}

		i++
	}

	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("%w; expected tokens like \"T33N-R19W Section 10 Section 12\"", ErrNoSelections)
	}
	return req, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
