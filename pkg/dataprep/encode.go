package dataprep

import (
	"fmt"
	"sort"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

// Row is a record whose features can be looked up by name. Label returns
// ok for categorical features; every other feature is numeric.
type Row interface {
	Value(name string) float64
	Label(name string) (string, bool)
}

// EncodeCategorical one-hot encodes a slice of string categories. Columns
// follow the sorted distinct non-empty values; an empty value encodes as
// all zeros.
func EncodeCategorical(data []string) ([][]float64, []string) {
	levels := uniqueSorted(data)
	pos := make(map[string]int, len(levels))
	for i, v := range levels {
		pos[v] = i
	}
	out := make([][]float64, len(data))
	for i, v := range data {
		vec := make([]float64, len(levels))
		if j, ok := pos[v]; ok {
			vec[j] = 1
		}
		out[i] = vec
	}
	return out, levels
}

func uniqueSorted(data []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range data {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Encoder turns rows into a design matrix: categorical features expand to
// one dummy column per level, named <feature>_<level>; numeric features
// pass through.
type Encoder struct {
	Features []string
	Columns  []string

	levels map[string][]string
}

// NewEncoder learns the categorical levels of features over rows.
func NewEncoder(rows []Row, features []string) (*Encoder, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("dataprep: no features")
	}
	e := &Encoder{Features: features, levels: map[string][]string{}}
	for _, f := range features {
		if len(rows) > 0 {
			if _, ok := rows[0].Label(f); ok {
				col := make([]string, len(rows))
				for i, r := range rows {
					col[i], _ = r.Label(f)
				}
				_, levels := EncodeCategorical(col)
				e.levels[f] = levels
				for _, l := range levels {
					e.Columns = append(e.Columns, f+"_"+l)
				}
				continue
			}
		}
		e.Columns = append(e.Columns, f)
	}
	return e, nil
}

// Transform builds the design matrix for rows. Levels not seen by
// NewEncoder encode as all zeros.
func (e *Encoder) Transform(rows []Row) [][]float64 {
	X := make([][]float64, len(rows))
	for i, r := range rows {
		x := make([]float64, 0, len(e.Columns))
		for _, f := range e.Features {
			if levels, ok := e.levels[f]; ok {
				v, _ := r.Label(f)
				for _, l := range levels {
					if v == l {
						x = append(x, 1)
					} else {
						x = append(x, 0)
					}
				}
				continue
			}
			x = append(x, r.Value(f))
		}
		X[i] = x
	}
	return X
}

// Viable marks the rows of X without missing values.
func Viable(X [][]float64) []bool {
	out := make([]bool, len(X))
	for i, x := range X {
		out[i] = !stats.AnyNaN(x)
	}
	return out
}
