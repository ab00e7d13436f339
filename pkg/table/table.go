// Package table provides the in-memory tabular structure passed between the
// loader, encoder and scaler.
//
// A Table has an ordered set of uniquely named columns and an ordered
// sequence of rows. Cells hold nil (missing), string, int64 or float64.
// Tables are immutable from the outside: every transformation derives a new
// Table through an Editor and leaves the receiver untouched.
package table

import (
	"fmt"
	"math"
	"strings"

	"github.com/ajitpratap0/tabprep/pkg/errors"
)

type column struct {
	name   string
	kind   Kind
	values []any
}

// Table is an ordered, column-named, row-ordered dataset.
//
// Column value slices are never modified in place once a Table is built, so
// derived tables may share them safely.
type Table struct {
	cols  []column
	index map[string]int
	nrows int
}

// New builds a table from column names and row-major values. Every row must
// have exactly one cell per column. Go integer and float types are
// normalized to int64 and float64.
func New(columns []string, rows [][]any) (*Table, error) {
	if err := validateNames(columns); err != nil {
		return nil, err
	}

	cols := make([]column, len(columns))
	for j, name := range columns {
		cols[j] = column{name: name, values: make([]any, len(rows))}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Newf(errors.ErrorTypeInternal,
				"row %d has %d cells, want %d", i, len(row), len(columns))
		}
		for j, v := range row {
			nv, err := normalize(v)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInternal,
					fmt.Sprintf("row %d column %q", i, columns[j]))
			}
			cols[j].values[i] = nv
		}
	}

	return build(cols, len(rows)), nil
}

// FromColumns builds a table from column names and column-major values.
// The value slices are owned by the returned table.
func FromColumns(columns []string, values [][]any) (*Table, error) {
	if err := validateNames(columns); err != nil {
		return nil, err
	}
	if len(values) != len(columns) {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"%d value columns for %d names", len(values), len(columns))
	}

	nrows := 0
	if len(values) > 0 {
		nrows = len(values[0])
	}
	cols := make([]column, len(columns))
	for j, name := range columns {
		if len(values[j]) != nrows {
			return nil, errors.Newf(errors.ErrorTypeInternal,
				"column %q has %d values, want %d", name, len(values[j]), nrows)
		}
		for i, v := range values[j] {
			nv, err := normalize(v)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInternal,
					fmt.Sprintf("row %d column %q", i, name))
			}
			values[j][i] = nv
		}
		cols[j] = column{name: name, values: values[j]}
	}
	return build(cols, nrows), nil
}

// MustNew is like New but panics on error. Intended for tests and fixtures.
func MustNew(columns []string, rows [][]any) *Table {
	t, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func build(cols []column, nrows int) *Table {
	t := &Table{cols: cols, index: make(map[string]int, len(cols)), nrows: nrows}
	for j := range t.cols {
		t.cols[j].kind = InferKind(t.cols[j].values)
		t.index[t.cols[j].name] = j
	}
	return t
}

func validateNames(columns []string) error {
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if name == "" {
			return errors.New(errors.ErrorTypeInternal, "column name must not be empty")
		}
		if _, dup := seen[name]; dup {
			return errors.Newf(errors.ErrorTypeInternal, "duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.nrows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for j, c := range t.cols {
		names[j] = c.name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	if j, ok := t.index[name]; ok {
		return j
	}
	return -1
}

// Kind returns the kind of the named column.
func (t *Table) Kind(name string) (Kind, bool) {
	j, ok := t.index[name]
	if !ok {
		return KindEmpty, false
	}
	return t.cols[j].kind, true
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]any, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]any(nil), t.cols[j].values...), true
}

// At returns the cell at row i, column position j.
func (t *Table) At(i, j int) any {
	return t.cols[j].values[i]
}

// Value returns the cell at row i of the named column.
func (t *Table) Value(i int, name string) (any, bool) {
	j, ok := t.index[name]
	if !ok || i < 0 || i >= t.nrows {
		return nil, false
	}
	return t.cols[j].values[i], true
}

// Row returns a copy of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.cols))
	for j := range t.cols {
		row[j] = t.cols[j].values[i]
	}
	return row
}

// Record returns row i as a column name to value mapping.
func (t *Table) Record(i int) map[string]any {
	rec := make(map[string]any, len(t.cols))
	for _, c := range t.cols {
		rec[c.name] = c.values[i]
	}
	return rec
}

// Rows returns a row-major copy of all cells.
func (t *Table) Rows() [][]any {
	rows := make([][]any, t.nrows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]column, len(t.cols))
	for j, c := range t.cols {
		cols[j] = column{name: c.name, kind: c.kind, values: append([]any(nil), c.values...)}
	}
	out := &Table{cols: cols, index: make(map[string]int, len(cols)), nrows: t.nrows}
	for k, v := range t.index {
		out.index[k] = v
	}
	return out
}

// MissingColumns returns, in request order and without repeats, every name
// in names that the table does not have.
func (t *Table) MissingColumns(names []string) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, name := range names {
		if _, ok := t.index[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		missing = append(missing, name)
	}
	return missing
}

// RequireColumns returns an unknown_column error listing every name in
// names that the table does not have, or nil.
func (t *Table) RequireColumns(names []string) error {
	if missing := t.MissingColumns(names); len(missing) > 0 {
		return errors.UnknownColumns(missing)
	}
	return nil
}

// Equal reports whether both tables have the same columns, in the same
// order, and identical cells. NaN cells compare equal to each other.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.nrows != o.nrows || len(t.cols) != len(o.cols) {
		return false
	}
	for j := range t.cols {
		if t.cols[j].name != o.cols[j].name {
			return false
		}
		for i := 0; i < t.nrows; i++ {
			if !cellEqual(t.cols[j].values[i], o.cols[j].values[i]) {
				return false
			}
		}
	}
	return true
}

func cellEqual(a, b any) bool {
	fa, aok := a.(float64)
	fb, bok := b.(float64)
	if aok && bok && math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return a == b
}

// String renders a short description, e.g. "table[3x2](a:int, b:string)".
func (t *Table) String() string {
	parts := make([]string, len(t.cols))
	for j, c := range t.cols {
		parts[j] = c.name + ":" + c.kind.String()
	}
	return fmt.Sprintf("table[%dx%d](%s)", t.nrows, len(t.cols), strings.Join(parts, ", "))
}
