package pipeline

import (
	"context"
	stderrors "errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/tabprep/pkg/config"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/metrics"
	"github.com/ajitpratap0/tabprep/pkg/table"
	"github.com/ajitpratap0/tabprep/pkg/testutil"
)

func insuranceConfig(t *testing.T) *config.PipelineConfig {
	t.Helper()
	cfg := config.NewDefault("insurance")
	cfg.Input.Path = testutil.WriteFile(t, "insurance.csv", testutil.InsuranceCSV)
	cfg.Steps = []config.StepConfig{
		{Kind: config.StepEncode, Strategy: "label", LabelColumns: []string{"smoker"}},
		{Kind: config.StepEncode, Strategy: "one-hot", OneHotColumns: []string{"sex", "region"}},
		{Name: "log-charges", Kind: config.StepScale, Strategy: "log", Columns: []string{"charges"}},
		{Kind: config.StepScale, Strategy: "standard", Columns: []string{"bmi", "age"}},
	}
	return cfg
}

func TestRun(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	collector := metrics.NewCollector("insurance")

	p, err := New(insuranceConfig(t), WithLogger(zap.New(core)), WithMetrics(collector))
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, res.RowsRead)
	assert.Equal(t, 1, res.DuplicatesDropped)
	assert.Equal(t, 5, res.Table.Len())
	assert.NotEmpty(t, res.RunID)

	assert.Equal(t, []string{
		"age", "ohe_sex_male", "bmi", "children", "smoker",
		"ohe_region_southeast", "ohe_region_southwest", "charges",
	}, res.Table.Columns())

	smoker, _ := res.Table.Column("smoker")
	assert.Equal(t, []any{int64(1), int64(0), int64(0), int64(0), int64(0)}, smoker)

	charges, _ := res.Table.Value(0, "charges")
	assert.InDelta(t, math.Log(16884.924), charges, 1e-12)

	require.Len(t, res.Steps, 4)
	assert.Equal(t, "encode:label", res.Steps[0].Name)
	assert.Equal(t, 8, res.Steps[1].Columns)
	assert.Equal(t, "log-charges", res.Steps[2].Name)
	assert.Equal(t, "scale:standard", res.Steps[3].Name)

	expected := `
# HELP tabprep_rows_loaded_total Rows read from the input file, before deduplication
# TYPE tabprep_rows_loaded_total counter
tabprep_rows_loaded_total{pipeline="insurance"} 6
# HELP tabprep_duplicates_dropped_total Duplicate rows removed by the loader
# TYPE tabprep_duplicates_dropped_total counter
tabprep_duplicates_dropped_total{pipeline="insurance"} 1
`
	require.NoError(t, promtest.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"tabprep_rows_loaded_total", "tabprep_duplicates_dropped_total"))

	completed := logs.FilterMessage("pipeline completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, res.RunID, completed[0].ContextMap()["run_id"])
	assert.Equal(t, "insurance", completed[0].ContextMap()["pipeline"])
	assert.Equal(t, 4, logs.FilterMessage("step completed").Len())
}

func TestRunStepFailureKeepsErrorType(t *testing.T) {
	cfg := insuranceConfig(t)
	cfg.Steps = []config.StepConfig{
		{Kind: config.StepScale, Strategy: "min-max", Columns: []string{"age"}},
		{Kind: config.StepScale, Strategy: "log", Columns: []string{"children"}},
		{Kind: config.StepEncode, Strategy: "label", LabelColumns: []string{"sex"}},
	}
	collector := metrics.NewCollector("insurance")

	p, err := New(cfg, WithLogger(zap.NewNop()), WithMetrics(collector))
	require.NoError(t, err)

	res, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, stderrors.Is(err, errors.ErrDomain))

	var typed *errors.Error
	require.True(t, stderrors.As(err, &typed))
	step, _ := typed.Detail(errors.DetailStep)
	assert.Equal(t, "scale:log", step)
	col, _ := typed.Detail(errors.DetailColumn)
	assert.Equal(t, "children", col)

	expected := `
# HELP tabprep_step_failures_total Failed pipeline steps by error type
# TYPE tabprep_step_failures_total counter
tabprep_step_failures_total{error_type="domain",pipeline="insurance",step="scale:log"} 1
`
	require.NoError(t, promtest.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"tabprep_step_failures_total"))
}

func TestRunUnknownColumns(t *testing.T) {
	cfg := insuranceConfig(t)
	cfg.Steps = []config.StepConfig{
		{Kind: config.StepEncode, Strategy: "one-hot", OneHotColumns: []string{"sex", "gender", "zone"}},
	}

	p, err := New(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.Equal(t, errors.ErrorTypeUnknownColumn, errors.TypeOf(err))

	var typed *errors.Error
	require.True(t, stderrors.As(err, &typed))
	missing, _ := typed.Detail(errors.DetailColumns)
	assert.Equal(t, []string{"gender", "zone"}, missing)
}

func TestRunLoadFailure(t *testing.T) {
	cfg := insuranceConfig(t)
	cfg.Input.Path = filepath.Join(t.TempDir(), "missing.csv")

	p, err := New(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func TestRunTraced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p, err := New(insuranceConfig(t), WithLogger(zap.NewNop()), WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	names := []string{}
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{
		"tabprep.load",
		"tabprep.step", "tabprep.step", "tabprep.step", "tabprep.step",
		"tabprep.run",
	}, names)
}

type dropColumn struct{ column string }

func (d dropColumn) Name() string { return "drop:" + d.column }

func (d dropColumn) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	return t.Edit().Replace(d.column, nil, nil).Build()
}

func TestRunCustomStep(t *testing.T) {
	cfg := insuranceConfig(t)
	cfg.Steps = nil

	p, err := New(cfg, WithLogger(zap.NewNop()), WithSteps(dropColumn{"children"}))
	require.NoError(t, err)
	require.Len(t, p.Steps(), 1)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Table.HasColumn("children"))
}

func TestRunCancelled(t *testing.T) {
	p, err := New(insuranceConfig(t), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg := config.NewDefault("x")
	cfg.Input.Path = "a.csv"
	cfg.Steps = []config.StepConfig{{Kind: config.StepEncode, Strategy: "ordinal", LabelColumns: []string{"a"}}}
	_, err = New(cfg)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedStrategy))
}

func TestStepsFromConfig(t *testing.T) {
	steps, err := StepsFromConfig([]config.StepConfig{
		{Kind: config.StepEncode, Strategy: "one-hot", OneHotColumns: []string{"a"}},
		{Kind: config.StepScale, Strategy: "min-max", Columns: []string{"b"}},
	})
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "encode:one-hot", steps[0].Name())
	assert.Equal(t, "scale:min-max", steps[1].Name())

	_, err = StepsFromConfig([]config.StepConfig{{Kind: "filter"}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
