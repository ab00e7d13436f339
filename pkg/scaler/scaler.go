// Package scaler rescales numeric table columns.
//
// Statistics (mean and standard deviation, or minimum and maximum) are
// computed from the table passed to each call and applied to that same
// table; nothing is remembered between calls. Every targeted column is
// validated and planned before the output table is assembled.
//
// Missing cells are skipped: statistics cover the present values only and
// a missing cell stays missing in the output.
package scaler

import (
	stderrors "errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// column is the present values of one targeted column and the rows they
// came from.
type column struct {
	name   string
	size   int
	rows   []int
	values []float64
}

// transform maps the present values of one column to their scaled form.
type transform func(c *column) ([]float64, error)

// Scale applies the strategy to every named column of t and returns the
// derived table. Scaled cells are float64; missing cells stay missing.
func Scale(strategy Strategy, t *table.Table, columns []string) (*table.Table, error) {
	var fn transform
	switch strategy {
	case Standard:
		fn = standardize
	case MinMax:
		fn = minMax
	case Log:
		fn = logTransform
	default:
		return nil, errors.UnsupportedStrategy("scaler", strategy.String())
	}

	if err := t.RequireColumns(columns); err != nil {
		return nil, err
	}
	columns = unique(columns)

	inputs := make([]*column, len(columns))
	for k, name := range columns {
		c, err := numericColumn(t, name)
		if err != nil {
			return nil, err
		}
		inputs[k] = c
	}

	outputs := make([][]any, len(columns))
	for k, c := range inputs {
		out, err := fn(c)
		if err != nil {
			var typed *errors.Error
			if stderrors.As(err, &typed) {
				typed.WithDetail(errors.DetailStrategy, strategy.String())
			}
			return nil, err
		}
		cells := make([]any, c.size)
		for j, row := range c.rows {
			cells[row] = out[j]
		}
		outputs[k] = cells
	}

	ed := t.Edit()
	for k, name := range columns {
		ed.Set(name, outputs[k])
	}
	return ed.Build()
}

// ScaleByName is Scale with the strategy given by name.
func ScaleByName(name string, t *table.Table, columns []string) (*table.Table, error) {
	s, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	return Scale(s, t, columns)
}

func numericColumn(t *table.Table, name string) (*column, error) {
	kind, _ := t.Kind(name)
	if !kind.Numeric() && kind != table.KindEmpty {
		return nil, scalingError(name, "is not numeric (%s)", kind)
	}
	col, _ := t.Column(name)
	c := &column{name: name, size: len(col)}
	for i, v := range col {
		if v == nil {
			continue
		}
		f, _ := table.AsFloat(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, scalingError(name, "non-finite value at row %d", i)
		}
		c.rows = append(c.rows, i)
		c.values = append(c.values, f)
	}
	return c, nil
}

func standardize(c *column) ([]float64, error) {
	if len(c.values) < 2 {
		return nil, scalingError(c.name, "needs at least 2 present values for a sample standard deviation")
	}
	mean, std := stat.MeanStdDev(c.values, nil)
	if !finite(mean) || !finite(std) {
		return nil, scalingError(c.name, "range overflows float64")
	}
	if std == 0 {
		return nil, scalingError(c.name, "is constant (standard deviation 0)")
	}
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = (v - mean) / std
		if !finite(out[i]) {
			return nil, scalingError(c.name, "range overflows float64")
		}
	}
	return out, nil
}

func minMax(c *column) ([]float64, error) {
	if len(c.values) == 0 {
		return nil, scalingError(c.name, "has no values to scale")
	}
	lo, hi := floats.Min(c.values), floats.Max(c.values)
	if hi == lo {
		return nil, scalingError(c.name, "is constant (min = max = %g)", lo)
	}
	span := hi - lo
	if !finite(span) {
		return nil, scalingError(c.name, "range overflows float64")
	}
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = (v - lo) / span
	}
	return out, nil
}

func logTransform(c *column) ([]float64, error) {
	if len(c.values) == 0 {
		return nil, scalingError(c.name, "has no values to scale")
	}
	for j, v := range c.values {
		if v <= 0 {
			return nil, errors.Newf(errors.ErrorTypeDomain,
				"column %q: log requires positive values, got %g at row %d", c.name, v, c.rows[j]).
				WithDetail(errors.DetailColumn, c.name)
		}
	}
	out := make([]float64, len(c.values))
	for i, v := range c.values {
		out[i] = math.Log(v)
	}
	return out, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func scalingError(column, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ErrorTypeScaling, "column %q: "+format, append([]interface{}{column}, args...)...).
		WithDetail(errors.DetailColumn, column)
}

func unique(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
