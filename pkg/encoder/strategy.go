package encoder

import (
	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// Strategy selects how categorical columns are encoded.
type Strategy int

const (
	// Label replaces each value with a dense integer code
	Label Strategy = iota + 1
	// OneHot expands each column into k-1 binary indicator columns
	OneHot
)

// Strategy names accepted by ParseStrategy.
const (
	LabelName  = "label"
	OneHotName = "one-hot"
)

// ParseStrategy resolves a strategy name. Only "label" and "one-hot" are
// accepted; anything else is an unsupported_strategy error.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case LabelName:
		return Label, nil
	case OneHotName:
		return OneHot, nil
	default:
		return 0, errors.UnsupportedStrategy("encoder", name)
	}
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Label:
		return LabelName
	case OneHot:
		return OneHotName
	default:
		return "unknown"
	}
}

// Strategies lists every supported strategy name.
func Strategies() []string {
	return []string{LabelName, OneHotName}
}
