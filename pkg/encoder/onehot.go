package encoder

import (
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// IndicatorName returns the name of the one-hot column for value in column.
func IndicatorName(column string, value any) string {
	return Prefix + "_" + column + "_" + table.FormatValue(value)
}

type expansion struct {
	column string
	names  []string
	values [][]any
}

// EncodeOneHot replaces every named column with k-1 indicator columns, one
// for each distinct value except the smallest (the baseline). Indicators are
// inserted where the original column was, in ascending value order, and
// hold int64 0 or 1.
func EncodeOneHot(t *table.Table, columns []string) (*table.Table, error) {
	if err := t.RequireColumns(columns); err != nil {
		return nil, err
	}
	columns = unique(columns)

	replaced := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		replaced[name] = struct{}{}
	}
	taken := make(map[string]string, t.Width())
	for _, name := range t.Columns() {
		if _, ok := replaced[name]; !ok {
			taken[name] = name
		}
	}

	plans := make([]expansion, 0, len(columns))
	for _, name := range columns {
		lv, err := collectLevels(t, name)
		if err != nil {
			return nil, err
		}
		if len(lv.values) == 0 {
			return nil, encodingError(name, "has no distinct values")
		}

		exp := expansion{column: name}
		for code := 1; code < len(lv.values); code++ {
			indicator := IndicatorName(name, lv.values[code])
			if owner, clash := taken[indicator]; clash {
				return nil, encodingError(name, "indicator %q collides with column %q", indicator, owner).
					WithDetail("indicator", indicator)
			}
			taken[indicator] = name

			cells := make([]any, len(lv.codes))
			for i, c := range lv.codes {
				if c == int64(code) {
					cells[i] = int64(1)
				} else {
					cells[i] = int64(0)
				}
			}
			exp.names = append(exp.names, indicator)
			exp.values = append(exp.values, cells)
		}
		plans = append(plans, exp)
	}

	ed := t.Edit()
	for _, p := range plans {
		ed.Replace(p.column, p.names, p.values)
	}
	return ed.Build()
}
