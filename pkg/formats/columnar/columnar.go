// Package columnar converts tables to and from Apache Arrow records.
//
// Conversion is in memory only. Column kinds map onto Arrow types as
// follows; every field is nullable and missing cells become nulls.
//
//	int     -> int64
//	float   -> float64 (int64 cells are widened)
//	string  -> utf8
//	mixed   -> utf8 (numbers rendered as text)
//	empty   -> null
package columnar

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/tabprep/pkg/table"
)

// ArrowType returns the Arrow type used for a column kind.
func ArrowType(k table.Kind) arrow.DataType {
	switch k {
	case table.KindInt:
		return arrow.PrimitiveTypes.Int64
	case table.KindFloat:
		return arrow.PrimitiveTypes.Float64
	case table.KindString, table.KindMixed:
		return arrow.BinaryTypes.String
	default:
		return arrow.Null
	}
}

// Schema returns the Arrow schema of t.
func Schema(t *table.Table) *arrow.Schema {
	names := t.Columns()
	fields := make([]arrow.Field, len(names))
	for j, name := range names {
		kind, _ := t.Kind(name)
		fields[j] = arrow.Field{
			Name:     name,
			Type:     ArrowType(kind),
			Nullable: true,
			Metadata: arrow.NewMetadata([]string{"tabprep.kind"}, []string{kind.String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

func unsupportedType(field arrow.Field) error {
	return fmt.Errorf("column %q: unsupported arrow type %s", field.Name, field.Type)
}
