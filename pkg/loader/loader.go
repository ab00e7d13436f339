// Package loader reads delimited text files into tables.
//
// Load validates the input, infers a kind for every column and removes
// exact duplicate rows, keeping the first occurrence of each. Loading fails
// with one of the typed errors from pkg/errors:
//
//   - not_found: nothing (or a directory) at the path
//   - empty_input: no header row could be read
//   - parse: malformed content, wrapping the underlying failure
//   - empty_dataset: a header but zero data rows
package loader

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tabprep/pkg/compression"
	"github.com/ajitpratap0/tabprep/pkg/errors"
	"github.com/ajitpratap0/tabprep/pkg/logger"
	"github.com/ajitpratap0/tabprep/pkg/table"
)

// Result carries the loaded table together with load statistics.
type Result struct {
	Table       *table.Table
	RowsRead    int
	Duplicates  int
	Compression compression.Algorithm
	Duration    time.Duration
}

// Load reads the delimited file at path into a deduplicated table.
func Load(path string, opts ...Option) (*table.Table, error) {
	return LoadContext(context.Background(), path, opts...)
}

// LoadContext is Load with cancellation between rows.
func LoadContext(ctx context.Context, path string, opts ...Option) (*table.Table, error) {
	res, err := Read(ctx, path, opts...)
	if err != nil {
		return nil, err
	}
	return res.Table, nil
}

// Read loads path and reports how many rows were read and dropped.
func Read(ctx context.Context, path string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.OrGlobal(o.Logger).With(zap.String("path", path))
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "data file not found").
				WithDetail(errors.DetailPath, path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to read data file").
			WithDetail(errors.DetailPath, path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrorTypeNotFound, "data path is a directory, not a file").
			WithDetail(errors.DetailPath, path)
	}

	src, alg, err := compression.Open(path, o.Compression)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(err, errors.ErrorTypeNotFound, "data file not found").
				WithDetail(errors.DetailPath, path)
		}
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to open data file").
			WithDetail(errors.DetailPath, path).
			WithDetail("compression", string(alg))
	}
	defer src.Close()

	header, raw, err := readRecords(ctx, src, path, o)
	if err != nil {
		return nil, err
	}

	tbl, err := buildTable(header, raw, o.NullValues)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to build table").
			WithDetail(errors.DetailPath, path)
	}

	deduped, dups := tbl.Distinct()

	res := &Result{
		Table:       deduped,
		RowsRead:    tbl.Len(),
		Duplicates:  dups,
		Compression: alg,
		Duration:    time.Since(start),
	}

	log.Debug("dataset loaded",
		zap.Int("rows_read", res.RowsRead),
		zap.Int("duplicates_dropped", dups),
		zap.Int("columns", deduped.Width()),
		zap.String("compression", string(alg)),
		zap.Stringer("table", deduped),
		zap.Duration("duration", res.Duration))

	return res, nil
}

func readRecords(ctx context.Context, src io.Reader, path string, o Options) ([]string, [][]string, error) {
	cr := csv.NewReader(src)
	cr.Comma = delimiterFor(path, o.Delimiter)
	cr.Comment = o.Comment
	cr.LazyQuotes = o.LazyQuotes
	cr.TrimLeadingSpace = o.TrimLeadingSpace
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err == io.EOF || (err == nil && isBlankRecord(hdr)) {
		return nil, nil, errors.New(errors.ErrorTypeEmptyInput, "no columns to parse from file").
			WithDetail(errors.DetailPath, path)
	}
	if err != nil {
		return nil, nil, parseError(err, path, "failed to read header")
	}

	header, err := normalizeHeader(hdr)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeParse, "invalid header").
			WithDetail(errors.DetailPath, path)
	}

	var rows [][]string
	for {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, parseError(err, path, "failed to read CSV")
		}
		if len(rec) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, nil, errors.Newf(errors.ErrorTypeParse,
				"expected %d fields, saw %d", len(header), len(rec)).
				WithDetail(errors.DetailPath, path).
				WithDetail(errors.DetailLine, line)
		}
		rows = append(rows, rec)
	}

	if len(rows) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeEmptyDataset, "dataset loaded but is empty").
			WithDetail(errors.DetailPath, path)
	}
	return header, rows, nil
}

func parseError(err error, path, msg string) *errors.Error {
	e := errors.Wrap(err, errors.ErrorTypeParse, msg).WithDetail(errors.DetailPath, path)
	var pe *csv.ParseError
	if stderrors.As(err, &pe) {
		e.WithDetail(errors.DetailLine, pe.Line)
	}
	return e
}

func delimiterFor(path string, d rune) rune {
	if d != 0 {
		return d
	}
	switch strings.ToLower(filepath.Ext(compression.TrimExt(path))) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

func isBlankRecord(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

func normalizeHeader(hdr []string) ([]string, error) {
	header := make([]string, len(hdr))
	seen := make(map[string]int, len(hdr))
	for i, h := range hdr {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		if prev, dup := seen[h]; dup {
			return nil, errors.Newf(errors.ErrorTypeParse,
				"duplicate column name %q at positions %d and %d", h, prev, i)
		}
		seen[h] = i
		header[i] = h
	}
	return header, nil
}
