package encoder

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

func insurance() *table.Table {
	return table.MustNew([]string{"age", "sex", "region", "smoker", "charges"}, [][]any{
		{19, "female", "southwest", "yes", 16884.924},
		{18, "male", "southeast", "no", 1725.5523},
		{28, "male", "southeast", "no", 4449.462},
		{33, "male", "northwest", "no", 21984.47061},
		{32, "female", "northwest", "no", 3866.8552},
	})
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("label")
	require.NoError(t, err)
	assert.Equal(t, Label, s)

	s, err = ParseStrategy("one-hot")
	require.NoError(t, err)
	assert.Equal(t, OneHot, s)
	assert.Equal(t, "one-hot", s.String())

	for _, name := range []string{"", "Label", "onehot", "one_hot", "ordinal"} {
		_, err := ParseStrategy(name)
		assert.True(t, stderrors.Is(err, errors.ErrUnsupportedStrategy), name)
	}
}

func TestEncodeUnsupportedStrategy(t *testing.T) {
	tbl := insurance()

	_, err := EncodeByName("target", tbl, []string{"sex"}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeUnsupportedStrategy, errors.TypeOf(err))

	_, err = Encode(Strategy(42), tbl, []string{"sex"}, nil)
	assert.Equal(t, errors.ErrorTypeUnsupportedStrategy, errors.TypeOf(err))
}

func TestLabelEncodingExample(t *testing.T) {
	tbl := table.MustNew([]string{"a", "b"}, [][]any{{1, "x"}, {2, "y"}, {3, "x"}})

	out, err := EncodeByName("label", tbl, []string{"b"}, nil)
	require.NoError(t, err)

	col, _ := out.Column("b")
	assert.Equal(t, []any{int64(0), int64(1), int64(0)}, col)
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	k, _ := out.Kind("b")
	assert.Equal(t, table.KindInt, k)
}

func TestLabelEncodingIsBijection(t *testing.T) {
	tbl := insurance()

	out, err := Encode(Label, tbl, []string{"region", "sex", "charges"}, []string{"ignored"})
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), out.Columns())
	assert.Equal(t, tbl.Len(), out.Len())

	for name, k := range map[string]int{"region": 3, "sex": 2, "charges": 5} {
		col, _ := out.Column(name)
		used := map[int64]bool{}
		for _, v := range col {
			code, ok := v.(int64)
			require.True(t, ok, "column %s holds %T", name, v)
			used[code] = true
		}
		assert.Len(t, used, k, name)
		for c := 0; c < k; c++ {
			assert.True(t, used[int64(c)], "column %s misses code %d", name, c)
		}
	}

	// the same value always receives the same code
	region, _ := out.Column("region")
	assert.Equal(t, region[1], region[2])
	assert.Equal(t, region[3], region[4])
	assert.NotEqual(t, region[0], region[1])
}

func TestLabelCodesAreSortedRanks(t *testing.T) {
	tbl := insurance()

	codes, err := LabelCodes(tbl, "region")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"northwest": 0, "southeast": 1, "southwest": 2}, codes)

	codes, err = LabelCodes(tbl, "age")
	require.NoError(t, err)
	assert.Equal(t, int64(0), codes["18"])
	assert.Equal(t, int64(4), codes["33"])
}

func TestLabelEncodingDependsOnValueSetOnly(t *testing.T) {
	a := table.MustNew([]string{"c"}, [][]any{{"z"}, {"m"}, {"a"}})
	b := table.MustNew([]string{"c"}, [][]any{{"a"}, {"z"}, {"m"}})

	ca, err := LabelCodes(a, "c")
	require.NoError(t, err)
	cb, err := LabelCodes(b, "c")
	require.NoError(t, err)
	assert.Equal(t, ca, cb)
}

func TestOneHotEncoding(t *testing.T) {
	tbl := insurance()

	out, err := Encode(OneHot, tbl, nil, []string{"region", "sex"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"age",
		"ohe_sex_male",
		"ohe_region_southeast", "ohe_region_southwest",
		"smoker", "charges",
	}, out.Columns())
	assert.Equal(t, tbl.Len(), out.Len())

	for i := 0; i < out.Len(); i++ {
		active := int64(0)
		for _, name := range []string{"ohe_region_southeast", "ohe_region_southwest"} {
			v, _ := out.Value(i, name)
			active += v.(int64)
		}
		assert.LessOrEqual(t, active, int64(1), "row %d", i)

		region, _ := tbl.Value(i, "region")
		if region == "northwest" {
			assert.Zero(t, active, "baseline row %d", i)
		} else {
			v, _ := out.Value(i, "ohe_region_"+region.(string))
			assert.Equal(t, int64(1), v)
		}
	}
}

func TestOneHotNumericColumn(t *testing.T) {
	tbl := table.MustNew([]string{"children", "x"}, [][]any{{2, 1}, {0, 1}, {1, 1}, {2, 1}})

	out, err := EncodeOneHot(tbl, []string{"children", "children"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ohe_children_1", "ohe_children_2", "x"}, out.Columns())

	col, _ := out.Column("ohe_children_2")
	assert.Equal(t, []any{int64(1), int64(0), int64(0), int64(1)}, col)

	// a single distinct value leaves only the implicit baseline
	out, err = EncodeOneHot(tbl, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"children"}, out.Columns())
}

func TestEncodeKeepsLargeIntegersDistinct(t *testing.T) {
	const lo, hi = int64(9007199254740992), int64(9007199254740993)
	tbl := table.MustNew([]string{"id"}, [][]any{{hi}, {lo}, {hi}})

	out, err := EncodeLabels(tbl, []string{"id"})
	require.NoError(t, err)
	col, _ := out.Column("id")
	assert.Equal(t, []any{int64(1), int64(0), int64(1)}, col)

	codes, err := LabelCodes(tbl, "id")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"9007199254740992": 0, "9007199254740993": 1}, codes)

	out, err = EncodeOneHot(tbl, []string{"id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ohe_id_9007199254740993"}, out.Columns())
	col, _ = out.Column("ohe_id_9007199254740993")
	assert.Equal(t, []any{int64(1), int64(0), int64(1)}, col)
}

func TestOneHotNameCollision(t *testing.T) {
	tbl := table.MustNew([]string{"sex", "ohe_sex_male"}, [][]any{{"female", 0}, {"male", 1}})

	_, err := EncodeOneHot(tbl, []string{"sex"})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEncoding))
}

func TestEncodeUnknownColumnsListsAll(t *testing.T) {
	tbl := insurance()

	for _, s := range []Strategy{Label, OneHot} {
		cols := []string{"sex", "bmi", "children"}
		_, err := Encode(s, tbl, cols, cols)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownColumn))

		var typed *errors.Error
		require.True(t, stderrors.As(err, &typed))
		missing, _ := typed.Detail(errors.DetailColumns)
		assert.Equal(t, []string{"bmi", "children"}, missing)
	}
}

func TestEncodeRejectsUnorderableColumns(t *testing.T) {
	tests := []struct {
		name string
		tbl  *table.Table
	}{
		{"mixed", table.MustNew([]string{"c"}, [][]any{{"a"}, {1}})},
		{"missing", table.MustNew([]string{"c"}, [][]any{{"a"}, {nil}})},
		{"all missing", table.MustNew([]string{"c"}, [][]any{{nil}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range []Strategy{Label, OneHot} {
				_, err := Encode(s, tt.tbl, []string{"c"}, []string{"c"})
				require.Error(t, err)
				assert.Equal(t, errors.ErrorTypeEncoding, errors.TypeOf(err))

				var typed *errors.Error
				require.True(t, stderrors.As(err, &typed))
				col, _ := typed.Detail(errors.DetailColumn)
				assert.Equal(t, "c", col)
			}
		})
	}
}

func TestEncodeLeavesInputUnchanged(t *testing.T) {
	tbl := insurance()
	before := tbl.Clone()

	_, err := Encode(Label, tbl, []string{"sex", "region"}, nil)
	require.NoError(t, err)
	_, err = Encode(OneHot, tbl, nil, []string{"smoker"})
	require.NoError(t, err)

	assert.True(t, before.Equal(tbl))
}
