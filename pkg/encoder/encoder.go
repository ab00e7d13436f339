// Package encoder converts categorical columns into numeric representations.
//
// Two strategies are available. Label encoding replaces every value of a
// column with its rank among the column's sorted distinct values. One-hot
// encoding replaces a column with one 0/1 indicator per distinct value,
// omitting the smallest value, which is represented by all indicators being
// zero.
//
// Encoding never modifies its input table. All validation happens before the
// output is assembled, so a failed call returns no partial result.
package encoder

import (
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// Prefix starts the name of every one-hot indicator column.
const Prefix = "ohe"

// Encode applies the strategy to t. Label encoding touches labelColumns and
// one-hot encoding touches oneHotColumns; the other list is ignored.
func Encode(strategy Strategy, t *table.Table, labelColumns, oneHotColumns []string) (*table.Table, error) {
	switch strategy {
	case Label:
		return EncodeLabels(t, labelColumns)
	case OneHot:
		return EncodeOneHot(t, oneHotColumns)
	default:
		return nil, errors.UnsupportedStrategy("encoder", strategy.String())
	}
}

// EncodeByName is Encode with the strategy given by name.
func EncodeByName(name string, t *table.Table, labelColumns, oneHotColumns []string) (*table.Table, error) {
	s, err := ParseStrategy(name)
	if err != nil {
		return nil, err
	}
	return Encode(s, t, labelColumns, oneHotColumns)
}

func encodingError(column, format string, args ...interface{}) *errors.Error {
	return errors.Newf(errors.ErrorTypeEncoding, "column %q: "+format, append([]interface{}{column}, args...)...).
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
