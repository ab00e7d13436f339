// Package config defines the declarative description of a preparation run.
//
// A PipelineConfig names the input file, how to parse it, and the ordered
// list of encode and scale steps to apply to the loaded table. Logging and
// observability settings ride along so a single file describes the run.
//
// Example usage:
//
//	cfg := config.NewDefault("insurance")
//	cfg.Input.Path = "data/insurance.csv"
//	cfg.Steps = append(cfg.Steps, config.StepConfig{
//	    Kind:          config.StepEncode,
//	    Strategy:      "one-hot",
//	    OneHotColumns: []string{"sex", "region"},
//	})
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/ajitpratap0/tabprep/pkg/compression"
	"github.com/ajitpratap0/tabprep/pkg/encoder"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/scaler"
)

// StepKind selects the component a step runs.
type StepKind string

const (
	// StepEncode runs the categorical encoder
	StepEncode StepKind = "encode"
	// StepScale runs the numeric scaler
	StepScale StepKind = "scale"
)

// PipelineConfig is the complete description of one run.
type PipelineConfig struct {
	// Name identifies the run in logs, traces and metrics
	Name string `yaml:"name" json:"name" mapstructure:"name"`

	// Input describes the file to load
	Input InputConfig `yaml:"input" json:"input" mapstructure:"input"`

	// Steps run in order on the loaded table
	Steps []StepConfig `yaml:"steps" json:"steps" mapstructure:"steps"`

	// Logging configures the global logger
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Observability toggles metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`
}

// InputConfig contains the loader settings.
type InputConfig struct {
	// Path of the delimited file
	Path string `yaml:"path" json:"path" mapstructure:"path"`
	// Delimiter is a single character; empty picks one from the file extension
	Delimiter string `yaml:"delimiter" json:"delimiter" mapstructure:"delimiter"`
	// Comment is a single character that starts an ignored line
	Comment string `yaml:"comment" json:"comment" mapstructure:"comment"`
	// Compression is auto, none, gzip, zstd, snappy, s2 or lz4
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// NullValues overrides the texts read as missing cells
	NullValues []string `yaml:"null_values,omitempty" json:"null_values,omitempty" mapstructure:"null_values"`
	// TrimLeadingSpace ignores white space before a field
	TrimLeadingSpace bool `yaml:"trim_leading_space" json:"trim_leading_space" mapstructure:"trim_leading_space"`
	// LazyQuotes tolerates quotes inside unquoted fields
	LazyQuotes bool `yaml:"lazy_quotes" json:"lazy_quotes" mapstructure:"lazy_quotes"`
}

// StepConfig describes one encode or scale step.
type StepConfig struct {
	// Name labels the step; defaults to "<kind>:<strategy>"
	Name string `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`
	// Kind is encode or scale
	Kind StepKind `yaml:"kind" json:"kind" mapstructure:"kind"`
	// Strategy is label/one-hot for encode and standard/min-max/log for scale
	Strategy string `yaml:"strategy" json:"strategy" mapstructure:"strategy"`
	// Columns lists the columns a scale step touches
	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty" mapstructure:"columns"`
	// LabelColumns lists the columns a label encode step touches
	LabelColumns []string `yaml:"label_columns,omitempty" json:"label_columns,omitempty" mapstructure:"label_columns"`
	// OneHotColumns lists the columns a one-hot encode step touches
	OneHotColumns []string `yaml:"onehot_columns,omitempty" json:"onehot_columns,omitempty" mapstructure:"onehot_columns"`
}

// LoggingConfig mirrors logger.Config.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" mapstructure:"level"`
	Encoding    string `yaml:"encoding" json:"encoding" mapstructure:"encoding"`
	Development bool   `yaml:"development" json:"development" mapstructure:"development"`
}

// ObservabilityConfig contains monitoring settings.
type ObservabilityConfig struct {
	// EnableMetrics records run metrics in a Prometheus registry
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	// EnableTracing exports spans for the load and every step
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate" mapstructure:"tracing_sample_rate"`
	// ServiceName is reported as the tracing resource name
	ServiceName string `yaml:"service_name" json:"service_name" mapstructure:"service_name"`
}

// NewDefault returns a configuration with defaults and no steps.
func NewDefault(name string) *PipelineConfig {
	return &PipelineConfig{
		Name: name,
		Input: InputConfig{
			Compression: string(compression.Auto),
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Observability: ObservabilityConfig{
			EnableMetrics:     true,
			EnableTracing:     false,
			TracingSampleRate: 1.0,
			ServiceName:       "tabprep",
		},
	}
}

// Validate checks the configuration before anything is loaded. Strategy
// names are resolved with the encoder and scaler parsers so an unknown name
// fails here rather than halfway through a run.
func (c *PipelineConfig) Validate() error {
	if c.Name == "" {
		return configError("name is required")
	}
	if c.Input.Path == "" {
		return configError("input.path is required")
	}
	if _, err := c.Input.DelimiterRune(); err != nil {
		return err
	}
	if _, err := c.Input.CommentRune(); err != nil {
		return err
	}
	if _, err := compression.ParseAlgorithm(c.Input.Compression); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid input.compression")
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return configError("observability.tracing_sample_rate must be within [0, 1]")
	}

	for i := range c.Steps {
		if err := c.Steps[i].validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (s *StepConfig) validate(i int) error {
	field := fmt.Sprintf("steps[%d]", i)
	switch s.Kind {
	case StepEncode:
		strategy, err := encoder.ParseStrategy(s.Strategy)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+field+".strategy").
				WithDetail(errors.DetailStep, s.StepName())
		}
		if strategy == encoder.Label && len(s.LabelColumns) == 0 {
			return configError(field + ": label encoding needs label_columns")
		}
		if strategy == encoder.OneHot && len(s.OneHotColumns) == 0 {
			return configError(field + ": one-hot encoding needs onehot_columns")
		}
	case StepScale:
		if _, err := scaler.ParseStrategy(s.Strategy); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+field+".strategy").
				WithDetail(errors.DetailStep, s.StepName())
		}
		if len(s.Columns) == 0 {
			return configError(field + ": scaling needs columns")
		}
	default:
		return configError(fmt.Sprintf("%s.kind must be %q or %q, got %q", field, StepEncode, StepScale, s.Kind))
	}
	return nil
}

// StepName returns Name, or "<kind>:<strategy>" when Name is empty.
func (s *StepConfig) StepName() string {
	if s.Name != "" {
		return s.Name
	}
	return string(s.Kind) + ":" + s.Strategy
}

// DelimiterRune returns the configured delimiter, or 0 when unset.
// "tab" and "\t" both select a tab.
func (in *InputConfig) DelimiterRune() (rune, error) {
	if in.Delimiter == "tab" || in.Delimiter == `\t` {
		return '\t', nil
	}
	r, err := singleRune(in.Delimiter)
	if err != nil || r == '\n' || r == '\r' || r == '"' {
		return 0, configError(fmt.Sprintf("input.delimiter %q must be a single character other than a quote or newline", in.Delimiter))
	}
	return r, nil
}

// CommentRune returns the configured comment character, or 0 when unset.
func (in *InputConfig) CommentRune() (rune, error) {
	r, err := singleRune(in.Comment)
	if err != nil {
		return 0, configError(fmt.Sprintf("input.comment %q must be a single character", in.Comment))
	}
	return r, nil
}

func singleRune(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func configError(msg string) *errors.Error {
	return errors.New(errors.ErrorTypeConfig, msg)
}
