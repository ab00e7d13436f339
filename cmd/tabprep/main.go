package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabprep/internal/pipeline"
	"github.com/ajitpratap0/tabprep/pkg/config"
	"github.com/ajitpratap0/tabprep/pkg/logger"
	"github.com/ajitpratap0/tabprep/pkg/metrics"
	"github.com/ajitpratap0/tabprep/pkg/observability"
)

var version = "0.1.0"

// runFlags holds the flags of the run command.
type runFlags struct {
	configFile  string
	input       string
	preview     int
	format      string
	timeout     time.Duration
	logLevel    string
	metricsFile string
}

func main() {
	_ = godotenv.Load() // .env is optional

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "tabprep",
		Short: "tabprep - tabular data preparation",
		Long: `tabprep loads a delimited file, removes duplicate rows and applies
categorical encoding and numeric scaling steps described in a pipeline file.`,
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tabprep v%s\n", version)
			fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newValidateCmd(), newRunCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pipeline file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			p, err := pipeline.New(cfg, pipeline.WithLogger(zap.NewNop()))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "pipeline %q is valid\n", cfg.Name)
			fmt.Fprintf(w, "  input: %s\n", cfg.Input.Path)
			for i, s := range p.Steps() {
				fmt.Fprintf(w, "  %d. %s\n", i+1, s.Name())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to pipeline file (yaml or json, required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a preparation pipeline",
		Long: `Run the pipeline described in a yaml or json file and print a preview
of the prepared table.

Example:
  tabprep run --config insurance.yaml --preview 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to pipeline file (yaml or json, required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Override input.path from the pipeline file")
	cmd.Flags().IntVar(&f.preview, "preview", 10, "Rows to print; 0 prints none, negative prints all")
	cmd.Flags().StringVar(&f.format, "format", formatTable, "Preview format (table, json, arrow)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 10*time.Minute, "Pipeline timeout")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	return cmd
}

// runPipeline executes the configured pipeline and renders its result
func runPipeline(ctx context.Context, out io.Writer, f *runFlags) error {
	switch f.format {
	case formatTable, formatJSON, formatArrow:
	default:
		return fmt.Errorf("unknown preview format %q", f.format)
	}

	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	if f.input != "" {
		cfg.Input.Path = f.input
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	restore := logger.ReplaceGlobal(log)
	defer restore()
	defer func() { _ = logger.Sync() }()

	log = log.With(zap.String("component", "tabprep-cli"))

	tracing := observability.DefaultTracingConfig()
	tracing.Enabled = cfg.Observability.EnableTracing
	tracing.SamplingRate = cfg.Observability.TracingSampleRate
	tracing.ServiceVersion = version
	tracing.Writer = os.Stderr
	if cfg.Observability.ServiceName != "" {
		tracing.ServiceName = cfg.Observability.ServiceName
	}
	provider, err := observability.NewProvider(tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	provider.SetGlobal()
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.Warn("failed to shut down tracing", zap.Error(err))
		}
	}()

	opts := []pipeline.Option{
		pipeline.WithLogger(log),
		pipeline.WithTracer(provider.Tracer()),
	}
	var collector *metrics.Collector
	if cfg.Observability.EnableMetrics {
		collector = metrics.NewCollector(cfg.Name)
		opts = append(opts, pipeline.WithMetrics(collector))
	}

	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	res, runErr := p.Run(ctx)

	if collector != nil && f.metricsFile != "" {
		if err := prometheus.WriteToTextfile(f.metricsFile, collector.Registry()); err != nil {
			log.Warn("failed to write metrics", zap.String("file", f.metricsFile), zap.Error(err))
		}
	}
	if runErr != nil {
		return runErr
	}

	return render(out, res, f.format, f.preview)
}
