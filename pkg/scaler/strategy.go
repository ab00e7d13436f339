package scaler

import (
	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// Strategy selects the numeric transform applied by Scale.
type Strategy int

const (
	// Standard rescales to zero mean and unit sample standard deviation
	Standard Strategy = iota + 1
	// MinMax maps the observed range onto [0, 1]
	MinMax
	// Log takes the natural logarithm of strictly positive values
	Log
)

// Strategy names accepted by ParseStrategy.
const (
	StandardName = "standard"
	MinMaxName   = "min-max"
	LogName      = "log"
)

// ParseStrategy resolves a strategy name. Unknown names are an
// unsupported_strategy error; there is no default.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case StandardName:
		return Standard, nil
	case MinMaxName:
		return MinMax, nil
	case LogName:
		return Log, nil
	default:
		return 0, errors.UnsupportedStrategy("scaler", name)
	}
}

func (s Strategy) String() string {
	switch s {
	case Standard:
		return StandardName
	case MinMax:
		return MinMaxName
	case Log:
		return LogName
	default:
		return "unknown"
	}
}

// Strategies lists every supported strategy name.
func Strategies() []string {
	return []string{StandardName, MinMaxName, LogName}
}
