package table

import (
	"fmt"
	"math"
	"strconv"
)

// Kind describes the dynamic type shared by the non-missing cells of a column.
type Kind int

const (
	// KindEmpty marks a column whose cells are all missing
	KindEmpty Kind = iota
	// KindInt marks a column of int64 values
	KindInt
	// KindFloat marks a column of float64 values (int64 cells may be mixed in)
	KindFloat
	// KindString marks a column of string values
	KindString
	// KindMixed marks a column holding strings together with numbers
	KindMixed
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindMixed:
		return "mixed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Numeric reports whether cells of this kind can be read as float64.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// InferKind computes the kind of a column from its values.
func InferKind(values []any) Kind {
	var ints, floats, strs int
	for _, v := range values {
		switch v.(type) {
		case nil:
		case int64:
			ints++
		case float64:
			floats++
		case string:
			strs++
		}
	}
	switch {
	case strs > 0 && ints+floats > 0:
		return KindMixed
	case strs > 0:
		return KindString
	case floats > 0:
		return KindFloat
	case ints > 0:
		return KindInt
	default:
		return KindEmpty
	}
}

// normalize converts supported Go scalar types to the canonical cell set
// (nil, string, int64, float64).
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, int64, float64:
		return t, nil
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint:
		if uint64(t) > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows int64", t)
		}
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, fmt.Errorf("value %d overflows int64", t)
		}
		return int64(t), nil
	case float32:
		return float64(t), nil
	default:
		return nil, fmt.Errorf("unsupported cell type %T", v)
	}
}

// AsFloat returns a numeric cell as float64.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// FormatValue renders a cell the way it would appear in delimited text.
// Missing cells render as the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
