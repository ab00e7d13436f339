package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// ToArrow builds an Arrow record holding every cell of t. The caller owns
// the record and must Release it. A nil allocator uses the Go allocator.
func ToArrow(t *table.Table, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := Schema(t)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for j := range schema.Fields() {
		fb := b.Field(j)
		fb.Reserve(t.Len())
		for i := 0; i < t.Len(); i++ {
			if err := appendArrowValue(fb, t.At(i, j)); err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to build arrow record").
					WithDetail(errors.DetailColumn, schema.Field(j).Name)
			}
		}
	}
	return b.NewRecord(), nil
}

// FromArrow rebuilds a table from an Arrow record. Integer columns of any
// width become int64 and floating point columns become float64.
func FromArrow(rec arrow.Record) (*table.Table, error) {
	schema := rec.Schema()
	names := make([]string, rec.NumCols())
	values := make([][]any, rec.NumCols())
	nrows := int(rec.NumRows())

	for j, col := range rec.Columns() {
		field := schema.Field(j)
		names[j] = field.Name
		values[j] = make([]any, nrows)
		for i := 0; i < nrows; i++ {
			v, ok := getArrowColumnValue(col, i)
			if !ok {
				return nil, errors.Wrap(unsupportedType(field), errors.ErrorTypeInternal, "failed to read arrow record").
					WithDetail(errors.DetailColumn, field.Name)
			}
			values[j][i] = v
		}
	}
	return table.FromColumns(names, values)
}

func appendArrowValue(builder array.Builder, value any) error {
	if value == nil {
		builder.AppendNull()
		return nil
	}

	switch b := builder.(type) {
	case *array.Int64Builder:
		if v, ok := value.(int64); ok {
			b.Append(v)
			return nil
		}
	case *array.Float64Builder:
		if v, ok := table.AsFloat(value); ok {
			b.Append(v)
			return nil
		}
	case *array.StringBuilder:
		b.Append(table.FormatValue(value))
		return nil
	case *array.NullBuilder:
		b.AppendNull()
		return nil
	}
	return errors.Newf(errors.ErrorTypeInternal, "cannot append %T to %s builder", value, builder.Type())
}

// getArrowColumnValue reads one cell as a table value. ok is false for
// Arrow types a table cannot hold.
func getArrowColumnValue(col arrow.Array, rowIdx int) (any, bool) {
	if col.IsNull(rowIdx) {
		return nil, true
	}

	switch c := col.(type) {
	case *array.Int64:
		return c.Value(rowIdx), true
	case *array.Int32:
		return int64(c.Value(rowIdx)), true
	case *array.Int16:
		return int64(c.Value(rowIdx)), true
	case *array.Int8:
		return int64(c.Value(rowIdx)), true
	case *array.Uint32:
		return int64(c.Value(rowIdx)), true
	case *array.Uint16:
		return int64(c.Value(rowIdx)), true
	case *array.Uint8:
		return int64(c.Value(rowIdx)), true
	case *array.Float64:
		return c.Value(rowIdx), true
	case *array.Float32:
		return float64(c.Value(rowIdx)), true
	case *array.String:
		return c.Value(rowIdx), true
	case *array.LargeString:
		return c.Value(rowIdx), true
	default:
		return nil, false
	}
}
