// Package tabprep prepares tabular data for model training.
//
// A run loads one delimited file, removes exact duplicate rows, and then
// applies categorical encoding and numeric scaling steps in the order a
// pipeline file lists them. Every step derives a new table; nothing is
// modified in place.
//
// # Quick Start
//
// Describe the run in yaml:
//
//	name: insurance
//	input:
//	  path: ${DATA_DIR}/insurance.csv
//	steps:
//	  - kind: encode
//	    strategy: label
//	    label_columns: [smoker]
//	  - kind: encode
//	    strategy: one-hot
//	    onehot_columns: [sex, region]
//	  - kind: scale
//	    strategy: standard
//	    columns: [bmi, age]
//
// and run it from Go:
//
//	cfg, err := config.Load("insurance.yaml")
//	if err != nil {
//	    return err
//	}
//	p, err := pipeline.New(cfg)
//	if err != nil {
//	    return err
//	}
//	res, err := p.Run(context.Background())
//
// or with the CLI:
//
//	tabprep run --config insurance.yaml --preview 5
//
// The loader, encoder and scaler are usable on their own:
//
//	t, err := loader.Load("insurance.csv")
//	t, err = encoder.EncodeByName("one-hot", t, nil, []string{"sex"})
//	t, err = scaler.ScaleByName("min-max", t, []string{"age"})
//
// # Key Packages
//
//	pkg/table             - Immutable column-major table and cell kinds
//	pkg/loader            - Delimited file loading, type inference, deduplication
//	pkg/encoder           - Label and one-hot encoding
//	pkg/scaler            - Standard, min-max and log scaling
//	pkg/errors            - Typed errors shared by every component
//	pkg/compression       - Transparent decompression of input files
//	pkg/formats/columnar  - Arrow conversion of tables
//	pkg/config            - Pipeline files with environment substitution
//	pkg/logger            - Structured logging
//	pkg/metrics           - Prometheus run metrics
//	pkg/observability     - OpenTelemetry tracing
//	internal/pipeline     - The step runner
//
// # Errors
//
// Failures are *errors.Error values whose Type says what went wrong
// (not_found, empty_input, parse, empty_dataset, unknown_column, encoding,
// unsupported_strategy, scaling, domain). Match them with errors.Is against
// the package sentinels or with errors.IsType.
package tabprep
