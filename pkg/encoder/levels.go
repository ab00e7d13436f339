package encoder

import (
	"math"
	"slices"
	"sort"

	"github.com/ajitpratap0/tabprep/pkg/table"
)

// levels holds the sorted distinct values of one column and the code of
// every row.
type levels struct {
	values []any
	codes  []int64
}

// collectLevels sorts the distinct values of a column. Integer columns are
// ordered by their exact int64 values. Float columns are ordered numerically
// and compare int64 and float64 cells by value; string columns are ordered
// lexically. Missing cells, NaN and columns mixing
// strings with numbers cannot be ordered and are rejected.
func collectLevels(t *table.Table, name string) (*levels, error) {
	kind, _ := t.Kind(name)
	col, _ := t.Column(name)

	switch {
	case kind == table.KindMixed:
		return nil, encodingError(name, "mixes strings and numbers")
	case kind == table.KindEmpty:
		return nil, encodingError(name, "has no values to encode")
	}

	for i, v := range col {
		if v == nil {
			return nil, encodingError(name, "missing value at row %d", i)
		}
		if f, ok := v.(float64); ok && math.IsNaN(f) {
			return nil, encodingError(name, "NaN at row %d", i)
		}
	}

	switch kind {
	case table.KindString:
		return stringLevels(col), nil
	case table.KindInt:
		return intLevels(col), nil
	}
	return numericLevels(col), nil
}

func stringLevels(col []any) *levels {
	index := make(map[string]int64)
	for _, v := range col {
		index[v.(string)] = 0
	}
	distinct := make([]string, 0, len(index))
	for s := range index {
		distinct = append(distinct, s)
	}
	sort.Strings(distinct)

	lv := &levels{values: make([]any, len(distinct)), codes: make([]int64, len(col))}
	for code, s := range distinct {
		index[s] = int64(code)
		lv.values[code] = s
	}
	for i, v := range col {
		lv.codes[i] = index[v.(string)]
	}
	return lv
}

func intLevels(col []any) *levels {
	index := make(map[int64]int64)
	for _, v := range col {
		index[v.(int64)] = 0
	}
	distinct := make([]int64, 0, len(index))
	for n := range index {
		distinct = append(distinct, n)
	}
	slices.Sort(distinct)

	lv := &levels{values: make([]any, len(distinct)), codes: make([]int64, len(col))}
	for code, n := range distinct {
		index[n] = int64(code)
		lv.values[code] = n
	}
	for i, v := range col {
		lv.codes[i] = index[v.(int64)]
	}
	return lv
}

func numericLevels(col []any) *levels {
	first := make(map[float64]any)
	for _, v := range col {
		f, _ := table.AsFloat(v)
		if _, ok := first[f]; !ok {
			first[f] = v
		}
	}
	distinct := make([]float64, 0, len(first))
	for f := range first {
		distinct = append(distinct, f)
	}
	sort.Float64s(distinct)

	index := make(map[float64]int64, len(distinct))
	lv := &levels{values: make([]any, len(distinct)), codes: make([]int64, len(col))}
	for code, f := range distinct {
		index[f] = int64(code)
		lv.values[code] = first[f]
	}
	for i, v := range col {
		f, _ := table.AsFloat(v)
		lv.codes[i] = index[f]
	}
	return lv
}
