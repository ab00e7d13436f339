package pipeline

import (
	"context"

	"github.com/ajitpratap0/tabprep/pkg/config"
	"github.com/ajitpratap0/tabprep/pkg/encoder"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/scaler"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// Step transforms a table. Implementations must not modify their input.
type Step interface {
	Name() string
	Apply(ctx context.Context, t *table.Table) (*table.Table, error)
}

// EncodeStep runs the categorical encoder.
type EncodeStep struct {
	StepName      string
	Strategy      encoder.Strategy
	LabelColumns  []string
	OneHotColumns []string
}

// Name implements Step.
func (s *EncodeStep) Name() string {
	if s.StepName != "" {
		return s.StepName
	}
	return string(config.StepEncode) + ":" + s.Strategy.String()
}

// Apply implements Step.
func (s *EncodeStep) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	return encoder.Encode(s.Strategy, t, s.LabelColumns, s.OneHotColumns)
}

// ScaleStep runs the numeric scaler.
type ScaleStep struct {
	StepName string
	Strategy scaler.Strategy
	Columns  []string
}

// Name implements Step.
func (s *ScaleStep) Name() string {
	if s.StepName != "" {
		return s.StepName
	}
	return string(config.StepScale) + ":" + s.Strategy.String()
}

// Apply implements Step.
func (s *ScaleStep) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	return scaler.Scale(s.Strategy, t, s.Columns)
}

// StepsFromConfig converts step configurations into runnable steps.
func StepsFromConfig(cfgs []config.StepConfig) ([]Step, error) {
	steps := make([]Step, 0, len(cfgs))
	for _, c := range cfgs {
		switch c.Kind {
		case config.StepEncode:
			strategy, err := encoder.ParseStrategy(c.Strategy)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &EncodeStep{
				StepName:      c.StepName(),
				Strategy:      strategy,
				LabelColumns:  c.LabelColumns,
				OneHotColumns: c.OneHotColumns,
			})
		case config.StepScale:
			strategy, err := scaler.ParseStrategy(c.Strategy)
			if err != nil {
				return nil, err
			}
			steps = append(steps, &ScaleStep{
				StepName: c.StepName(),
				Strategy: strategy,
				Columns:  c.Columns,
			})
		default:
			return nil, errors.Newf(errors.ErrorTypeConfig, "unknown step kind %q", c.Kind).
				WithDetail(errors.DetailStep, c.StepName())
		}
	}
	return steps, nil
}
