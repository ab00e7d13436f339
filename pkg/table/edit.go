package table

import (
	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// Editor derives a new Table from an existing one. Untouched columns share
// their value slices with the source; replaced columns get the slices handed
// to Set or Replace, which the editor takes ownership of.
//
// The first failing call is remembered and returned by Build.
type Editor struct {
	cols  []column
	nrows int
	err   error
}

// Edit starts deriving a new table from t. t itself is never modified.
func (t *Table) Edit() *Editor {
	cols := make([]column, len(t.cols))
	copy(cols, t.cols)
	return &Editor{cols: cols, nrows: t.nrows}
}

func (e *Editor) position(name string) int {
	for j := range e.cols {
		if e.cols[j].name == name {
			return j
		}
	}
	return -1
}

func (e *Editor) checkValues(name string, values []any) ([]any, error) {
	if len(values) != e.nrows {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"column %q has %d values, want %d", name, len(values), e.nrows)
	}
	for i, v := range values {
		nv, err := normalize(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "column "+name)
		}
		values[i] = nv
	}
	return values, nil
}

// Set replaces the values of an existing column, keeping its position.
func (e *Editor) Set(name string, values []any) *Editor {
	if e.err != nil {
		return e
	}
	j := e.position(name)
	if j < 0 {
		e.err = errors.UnknownColumns([]string{name})
		return e
	}
	vals, err := e.checkValues(name, values)
	if err != nil {
		e.err = err
		return e
	}
	e.cols[j] = column{name: name, values: vals}
	return e
}

// Replace removes the named column and inserts the given columns at its
// position, in order. names and values must have equal length; an empty
// list simply drops the column.
func (e *Editor) Replace(name string, names []string, values [][]any) *Editor {
	if e.err != nil {
		return e
	}
	j := e.position(name)
	if j < 0 {
		e.err = errors.UnknownColumns([]string{name})
		return e
	}
	if len(names) != len(values) {
		e.err = errors.Newf(errors.ErrorTypeInternal,
			"replacing %q: %d names for %d value columns", name, len(names), len(values))
		return e
	}

	inserted := make([]column, len(names))
	for k, n := range names {
		vals, err := e.checkValues(n, values[k])
		if err != nil {
			e.err = err
			return e
		}
		inserted[k] = column{name: n, values: vals}
	}

	cols := make([]column, 0, len(e.cols)-1+len(inserted))
	cols = append(cols, e.cols[:j]...)
	cols = append(cols, inserted...)
	cols = append(cols, e.cols[j+1:]...)
	e.cols = cols
	return e
}

// Build returns the derived table, or the first error recorded by the editor.
func (e *Editor) Build() (*Table, error) {
	if e.err != nil {
		return nil, e.err
	}
	names := make([]string, len(e.cols))
	for j := range e.cols {
		names[j] = e.cols[j].name
	}
	if err := validateNames(names); err != nil {
		return nil, err
	}
	return build(e.cols, e.nrows), nil
}
