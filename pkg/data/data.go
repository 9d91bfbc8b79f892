// Package data loads the historical by-team file, the season datasheet and
// the schedule used to build blank datasheets.
package data

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrEmptyInput    = errors.New("data: input file is missing or empty")
	ErrMissingColumn = errors.New("data: required column not found")
	ErrBadCell       = errors.New("data: malformed cell")
)

// naValues are the cell spellings read as missing.
var naValues = []string{"", "NA", "NaN", "nan", "N/A", "<nil>"}

// checkFile fails with ErrEmptyInput when path does not exist or holds no
// bytes.
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEmptyInput, path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyInput, path)
	}
	return nil
}

func isNA(s string) bool {
	s = strings.TrimSpace(s)
	for _, na := range naValues {
		if s == na {
			return true
		}
	}
	return false
}

// parseFloat reads a numeric cell; missing or malformed cells are NaN.
func parseFloat(s string) float64 {
	if isNA(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseInt reads a structural integer cell such as Week or Season, which
// may be written as a float ("2008.0").
func parseInt(s, column string, row int) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: row %d column %s: %q", ErrBadCell, row, column, s)
	}
	return int(v), nil
}

// columnIndex maps header names to positions and checks that every
// required column is present.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return idx, nil
}
