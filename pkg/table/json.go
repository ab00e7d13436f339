package table

import (
	"bytes"
	"math"
	"strconv"

	"github.com/ajitpratap0/tabprep/pkg/json"
)

// MarshalJSON encodes the table as an array of row objects with keys in
// column order. Missing cells and non-finite floats encode as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	buf := json.GetBuffer()
	defer json.PutBuffer(buf)

	keys := make([][]byte, len(t.cols))
	for j, c := range t.cols {
		var kb bytes.Buffer
		if err := json.AppendString(&kb, c.name); err != nil {
			return nil, err
		}
		keys[j] = kb.Bytes()
	}

	buf.WriteByte('[')
	for i := 0; i < t.nrows; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j := range t.cols {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[j])
			buf.WriteByte(':')
			if err := appendJSONValue(buf, t.cols[j].values[i]); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	return append([]byte(nil), buf.Bytes()...), nil
}

func appendJSONValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		return json.AppendString(buf, t)
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		buf.WriteString("null")
	}
	return nil
}
