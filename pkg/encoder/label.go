package encoder

import (
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// EncodeLabels replaces every named column with integer codes in [0, k),
// where k is the column's distinct value count and the code of a value is
// its rank in sorted order. Columns are encoded independently.
func EncodeLabels(t *table.Table, columns []string) (*table.Table, error) {
	if err := t.RequireColumns(columns); err != nil {
		return nil, err
	}
	columns = unique(columns)

	plans := make([]*levels, len(columns))
	for k, name := range columns {
		lv, err := collectLevels(t, name)
		if err != nil {
			return nil, err
		}
		plans[k] = lv
	}

	ed := t.Edit()
	for k, name := range columns {
		codes := make([]any, len(plans[k].codes))
		for i, c := range plans[k].codes {
			codes[i] = c
		}
		ed.Set(name, codes)
	}
	return ed.Build()
}

// LabelCodes returns the code assigned to each distinct value of a column,
// as EncodeLabels would assign them.
func LabelCodes(t *table.Table, column string) (map[string]int64, error) {
	if err := t.RequireColumns([]string{column}); err != nil {
		return nil, err
	}
	lv, err := collectLevels(t, column)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(lv.values))
	for code, v := range lv.values {
		out[table.FormatValue(v)] = int64(code)
	}
	return out, nil
}
