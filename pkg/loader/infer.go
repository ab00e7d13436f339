package loader

import (
	"strconv"
	"strings"

	"github.com/ajitpratap0/tabprep/pkg/table"
)

// buildTable converts raw records to typed columns. A column becomes int64
// when every non-missing cell parses as an integer, float64 when every one
// parses as a number, and string otherwise. Short rows are padded with
// missing cells.
func buildTable(header []string, rows [][]string, nullValues []string) (*table.Table, error) {
	nulls := make(map[string]struct{}, len(nullValues))
	for _, v := range nullValues {
		nulls[v] = struct{}{}
	}

	values := make([][]any, len(header))
	for j := range header {
		values[j] = inferColumn(rows, j, nulls)
	}
	return table.FromColumns(header, values)
}

func inferColumn(rows [][]string, j int, nulls map[string]struct{}) []any {
	cells := make([]any, len(rows))
	texts := make([]string, len(rows))
	present := make([]bool, len(rows))

	for i, rec := range rows {
		if j >= len(rec) {
			continue
		}
		s := rec[j]
		if _, isNull := nulls[s]; isNull {
			continue
		}
		texts[i] = s
		present[i] = true
	}

	if fillInts(cells, texts, present) || fillFloats(cells, texts, present) {
		return cells
	}
	for i, s := range texts {
		if present[i] {
			cells[i] = s
		} else {
			cells[i] = nil
		}
	}
	return cells
}

func fillInts(cells []any, texts []string, present []bool) bool {
	for i, s := range texts {
		if !present[i] {
			cells[i] = nil
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return false
		}
		cells[i] = n
	}
	return true
}

func fillFloats(cells []any, texts []string, present []bool) bool {
	for i, s := range texts {
		if !present[i] {
			cells[i] = nil
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return false
		}
		cells[i] = f
	}
	return true
}
