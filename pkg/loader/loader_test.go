package loader

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabprep/pkg/compression"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/table"
	"github.com/ajitpratap0/tabprep/pkg/testutil"
)

func TestLoadDropsDuplicateRows(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", "a,b\n1,x\n1,x\n2,y\n")

	res, err := Read(context.Background(), path)
	require.NoError(t, err)

	want := table.MustNew([]string{"a", "b"}, [][]any{{1, "x"}, {2, "y"}})
	assert.True(t, want.Equal(res.Table), "got %v", res.Table.Rows())
	assert.Equal(t, 3, res.RowsRead)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, compression.None, res.Compression)
}

func TestLoadInfersColumnKinds(t *testing.T) {
	path := testutil.WriteFile(t, "insurance.csv",
		"age,sex,bmi,children,charges\n"+
			"19,female,27.9,0,16884.924\n"+
			"18,male,33.77,1,1725.5523\n"+
			"28,male,33,3,NA\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	kinds := map[string]table.Kind{}
	for _, c := range tbl.Columns() {
		k, _ := tbl.Kind(c)
		kinds[c] = k
	}
	assert.Equal(t, map[string]table.Kind{
		"age":      table.KindInt,
		"sex":      table.KindString,
		"bmi":      table.KindFloat,
		"children": table.KindInt,
		"charges":  table.KindFloat,
	}, kinds)

	bmi, _ := tbl.Value(2, "bmi")
	assert.Equal(t, 33.0, bmi)
	charges, _ := tbl.Value(2, "charges")
	assert.Nil(t, charges)
}

func TestLoadPadsShortRows(t *testing.T) {
	path := testutil.WriteFile(t, "short.csv", "a,b,c\n1,2\n3,4,5\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	v, _ := tbl.Value(0, "c")
	assert.Nil(t, v)
	v, _ = tbl.Value(1, "c")
	assert.Equal(t, int64(5), v)
}

func TestLoadHeaderHandling(t *testing.T) {
	path := testutil.WriteFile(t, "bom.csv", "\ufeffid,,name\n1,a,b\n")

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "Unnamed: 1", "name"}, tbl.Columns())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		opts    []Option
		errType errors.ErrorType
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), nil, errors.ErrorTypeNotFound},
		{"directory", dir, nil, errors.ErrorTypeNotFound},
		{"zero bytes", testutil.WriteFile(t, "empty.csv", ""), nil, errors.ErrorTypeEmptyInput},
		{"blank line only", testutil.WriteFile(t, "blank.csv", "\n\n"), nil, errors.ErrorTypeEmptyInput},
		{"header only", testutil.WriteFile(t, "header.csv", "a,b,c\n"), nil, errors.ErrorTypeEmptyDataset},
		{"bare quote", testutil.WriteFile(t, "quote.csv", "a,b\n1,x\"y\n"), nil, errors.ErrorTypeParse},
		{"unterminated quote", testutil.WriteFile(t, "open.csv", "a,b\n1,\"xy\n"), nil, errors.ErrorTypeParse},
		{"too many fields", testutil.WriteFile(t, "wide.csv", "a,b\n1,2,3\n"), nil, errors.ErrorTypeParse},
		{"duplicate header", testutil.WriteFile(t, "dup.csv", "a,a\n1,2\n"), nil, errors.ErrorTypeParse},
		{"corrupt gzip", testutil.WriteFile(t, "bad.csv.gz", "not gzip at all"), []Option{WithCompression(compression.Gzip)}, errors.ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Load(tt.path, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, tbl)
			assert.Equal(t, tt.errType, errors.TypeOf(err), "error: %v", err)

			var typed *errors.Error
			require.True(t, stderrors.As(err, &typed))
			p, ok := typed.Detail(errors.DetailPath)
			assert.True(t, ok)
			assert.Equal(t, tt.path, p)
		})
	}
}

func TestLoadParseErrorWrapsCause(t *testing.T) {
	path := testutil.WriteFile(t, "quote.csv", "a,b\n1,2\n3,x\"y\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrParse))
	assert.NotNil(t, stderrors.Unwrap(err))

	var typed *errors.Error
	require.True(t, stderrors.As(err, &typed))
	line, ok := typed.Detail(errors.DetailLine)
	require.True(t, ok)
	assert.Equal(t, 3, line)
}

func TestLoadCompressedInput(t *testing.T) {
	var buf bytes.Buffer
	w, err := compression.NewWriter(&buf, compression.Gzip, compression.Default)
	require.NoError(t, err)
	_, err = w.Write([]byte("a,b\n1,x\n2,y\n2,y\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	res, err := Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, compression.Gzip, res.Compression)
	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, 1, res.Duplicates)
}

func TestLoadTSVAndOptions(t *testing.T) {
	path := testutil.WriteFile(t, "data.tsv", "a\tb\n1\t-\n2\ty\n")

	tbl, err := Load(path, WithNullValues("-"))
	require.NoError(t, err)
	v, _ := tbl.Value(0, "b")
	assert.Nil(t, v)

	path = testutil.WriteFile(t, "semi.txt", "# generated\na;b\n1;2\n")
	tbl, err = Load(path, WithDelimiter(';'), WithComment('#'))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	v, _ = tbl.Value(0, "b")
	assert.Equal(t, int64(2), v)
}

func TestLoadContextCancelled(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", "a\n1\n2\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadContext(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadGeneratedDataset(t *testing.T) {
	path := testutil.WriteFile(t, "generated.csv", testutil.GenerateCSV(500, 10))

	res, err := Read(context.Background(), path, WithLogger(testutil.TestLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, 500, res.RowsRead)
	assert.Equal(t, 49, res.Duplicates)
	assert.Equal(t, 451, res.Table.Len())

	k, _ := res.Table.Kind("bmi")
	assert.Equal(t, table.KindFloat, k)
}

func BenchmarkRead(b *testing.B) {
	path := testutil.WriteFile(b, "bench.csv", testutil.GenerateCSV(10000, 7))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Read(ctx, path); err != nil {
			b.Fatal(err)
		}
	}
}
