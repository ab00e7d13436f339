// Package config loads and validates pipeline configuration for tabprep.
//
// # Key Features
//
// - PipelineConfig: one structure describing input, steps, logging and observability
// - YAML or JSON files, chosen by extension
// - Environment variable substitution with ${VAR_NAME} syntax
// - TABPREP_* environment overrides for scalar settings (TABPREP_INPUT_PATH, TABPREP_LOGGING_LEVEL, ...)
// - Validation of strategy names against the encoder and scaler before a run starts
//
// # Usage
//
//	cfg, err := config.Load("pipeline.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// # File Format
//
//	name: insurance
//	input:
//	  path: ${DATA_DIR}/insurance.csv.gz
//	  null_values: ["", "NA"]
//	steps:
//	  - kind: encode
//	    strategy: one-hot
//	    onehot_columns: [sex, smoker, region]
//	  - kind: scale
//	    strategy: log
//	    columns: [charges]
//	logging:
//	  level: debug
//	observability:
//	  enable_metrics: true
//
// Every error returned by this package has type errors.ErrorTypeConfig; an
// unknown strategy name keeps the unsupported_strategy error as its cause.
package config
