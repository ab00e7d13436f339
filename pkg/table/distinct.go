package table

import (
	"math"
	"strconv"

	"github.com/ajitpratap0/tabprep/pkg/pool"
)

// appendKey appends a type-tagged, length-prefixed encoding of v to dst so
// that distinct cells never produce the same bytes.
func appendKey(dst []byte, v any) []byte {
	switch t := v.(type) {
	case nil:
		return append(dst, 'n', ';')
	case string:
		dst = append(dst, 's')
		dst = strconv.AppendInt(dst, int64(len(t)), 10)
		dst = append(dst, ':')
		dst = append(dst, t...)
		return append(dst, ';')
	case int64:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, t, 10)
		return append(dst, ';')
	case float64:
		dst = append(dst, 'f')
		switch {
		case math.IsNaN(t):
			dst = append(dst, "NaN"...)
		case t == 0:
			// -0 and +0 are the same cell
			dst = append(dst, '0')
		default:
			dst = strconv.AppendFloat(dst, t, 'g', -1, 64)
		}
		return append(dst, ';')
	default:
		return append(dst, '?', ';')
	}
}

// RowKey returns a string that is equal for two rows exactly when every
// cell is equal (missing equals missing, NaN equals NaN).
func (t *Table) RowKey(i int) string {
	buf := pool.ByteBufferPool.Get()
	defer pool.ByteBufferPool.Put(buf)

	for j := range t.cols {
		*buf = appendKey(*buf, t.cols[j].values[i])
	}
	return string(*buf)
}

// Distinct returns a table keeping only the first occurrence of each
// distinct row, in original order, and the number of rows removed.
// When nothing is removed the receiver itself is returned.
func (t *Table) Distinct() (*Table, int) {
	seen := make(map[string]struct{}, t.nrows)
	keep := make([]int, 0, t.nrows)
	for i := 0; i < t.nrows; i++ {
		key := t.RowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}

	removed := t.nrows - len(keep)
	if removed == 0 {
		return t, 0
	}
	return t.selectRows(keep), removed
}

func (t *Table) selectRows(idx []int) *Table {
	cols := make([]column, len(t.cols))
	for j, c := range t.cols {
		vals := make([]any, len(idx))
		for k, i := range idx {
			vals[k] = c.values[i]
		}
		cols[j] = column{name: c.name, values: vals}
	}
	return build(cols, len(idx))
}
