package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/tabprep/pkg/errors"
)

// EnvPrefix prefixes environment variables that override file settings,
// e.g. TABPREP_INPUT_PATH overrides input.path.
const EnvPrefix = "TABPREP"

// Load reads a YAML or JSON configuration file. ${VAR_NAME} references are
// replaced with environment values before parsing, and TABPREP_* variables
// override scalar settings. The result is not validated.
func Load(filePath string) (*PipelineConfig, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: path is supplied by the caller on purpose
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config file").
			WithDetail(errors.DetailPath, filePath)
	}
	return Parse(substituteEnvVars(string(data)), formatOf(filePath))
}

// Parse decodes configuration content in the given format ("yaml" or
// "json") on top of the defaults. No ${VAR} substitution is applied.
func Parse(content, format string) (*PipelineConfig, error) {
	defaults := NewDefault("")

	v := viper.New()
	v.SetConfigType(format)
	setDefaults(v, defaults)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewBufferString(content)); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse config")
	}

	cfg := &PipelineConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode config")
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(filePath string, cfg *PipelineConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to write config file").
			WithDetail(errors.DetailPath, filePath)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *PipelineConfig) {
	v.SetDefault("name", d.Name)
	v.SetDefault("input.path", d.Input.Path)
	v.SetDefault("input.delimiter", d.Input.Delimiter)
	v.SetDefault("input.comment", d.Input.Comment)
	v.SetDefault("input.compression", d.Input.Compression)
	v.SetDefault("input.trim_leading_space", d.Input.TrimLeadingSpace)
	v.SetDefault("input.lazy_quotes", d.Input.LazyQuotes)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("observability.enable_metrics", d.Observability.EnableMetrics)
	v.SetDefault("observability.enable_tracing", d.Observability.EnableTracing)
	v.SetDefault("observability.tracing_sample_rate", d.Observability.TracingSampleRate)
	v.SetDefault("observability.service_name", d.Observability.ServiceName)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var b strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		b.WriteString(content[:start])
		b.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	b.WriteString(content)
	return b.String()
}
