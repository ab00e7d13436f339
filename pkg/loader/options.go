package loader

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabprep/pkg/compression"
)

// DefaultNullValues are the cell texts read as missing values.
var DefaultNullValues = []string{"", "NA", "N/A", "NaN", "nan", "NULL", "null", "#N/A"}

// Options controls how a delimited file is parsed.
type Options struct {
	// Delimiter separates fields; zero selects ',' (or tab for .tsv/.tab files)
	Delimiter rune
	// Comment starts a line that is skipped; zero disables comments
	Comment rune
	// TrimLeadingSpace ignores leading white space in a field
	TrimLeadingSpace bool
	// LazyQuotes tolerates quotes in unquoted fields
	LazyQuotes bool
	// NullValues lists the cell texts treated as missing
	NullValues []string
	// Compression selects the decompressor; Auto (default) detects it
	Compression compression.Algorithm
	// Logger receives debug output; nil uses the global logger
	Logger *zap.Logger
}

// Option configures Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		NullValues:  DefaultNullValues,
		Compression: compression.Auto,
	}
}

// WithDelimiter sets the field delimiter.
func WithDelimiter(r rune) Option {
	return func(o *Options) { o.Delimiter = r }
}

// WithComment sets the comment character.
func WithComment(r rune) Option {
	return func(o *Options) { o.Comment = r }
}

// WithTrimLeadingSpace ignores leading white space in fields.
func WithTrimLeadingSpace(trim bool) Option {
	return func(o *Options) { o.TrimLeadingSpace = trim }
}

// WithLazyQuotes tolerates stray quotes.
func WithLazyQuotes(lazy bool) Option {
	return func(o *Options) { o.LazyQuotes = lazy }
}

// WithNullValues replaces the set of cell texts treated as missing.
func WithNullValues(values ...string) Option {
	return func(o *Options) { o.NullValues = append([]string(nil), values...) }
}

// WithCompression forces a decompressor instead of detecting one.
func WithCompression(alg compression.Algorithm) Option {
	return func(o *Options) { o.Compression = alg }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
