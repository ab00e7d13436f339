// Package compression provides transparent decompression of input files for
// the loader, and the matching writers used to produce compressed datasets.
//
// # Algorithm Selection
//
// The algorithm is either named explicitly or detected, first from the file
// extension and then from the stream's magic bytes:
//   - Gzip: .gz, .gzip (1f 8b)
//   - Zstd: .zst, .zstd (28 b5 2f fd)
//   - Snappy framed: .sz, .snappy
//   - S2 framed: .s2
//   - LZ4 frame: .lz4 (04 22 4d 18)
//
// # Basic Usage
//
//	rc, alg, err := compression.Open("data/insurance.csv.gz", compression.Auto)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
package compression

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// Auto detects the algorithm from the path and content
	Auto Algorithm = "auto"
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents framed s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Level represents compression level, controlling the trade-off between
// compression speed and compression ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

var (
	magicGzip   = []byte{0x1f, 0x8b}
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// The empty string means Auto.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return Auto, nil
	case Auto, None, Gzip, Snappy, LZ4, Zstd, S2:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported compression algorithm: %s", s)
	}
}

// DetectFromPath returns the algorithm implied by the file extension, or None.
func DetectFromPath(path string) Algorithm {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	case ".sz", ".snappy":
		return Snappy
	case ".s2":
		return S2
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// DetectFromHeader returns the algorithm whose magic bytes prefix header, or None.
func DetectFromHeader(header []byte) Algorithm {
	switch {
	case bytes.HasPrefix(header, magicGzip):
		return Gzip
	case bytes.HasPrefix(header, magicZstd):
		return Zstd
	case bytes.HasPrefix(header, magicLZ4):
		return LZ4
	case bytes.HasPrefix(header, magicSnappy):
		return Snappy
	case bytes.HasPrefix(header, magicS2):
		return S2
	default:
		return None
	}
}

// TrimExt strips a compression extension, so "a.csv.gz" becomes "a.csv".
func TrimExt(path string) string {
	if DetectFromPath(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// NewReader wraps r with a decompressor for alg. None returns r unchanged
// (with a no-op Close). Auto is not accepted here; see Open.
func NewReader(r io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return gr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewWriter wraps w with a compressor for alg at the given level. Closing
// the returned writer flushes the stream but does not close w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, mapGzipLevel(level))
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(mapZstdLevel(level)))
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case S2:
		return s2.NewWriter(w, mapS2Options(level)...), nil
	case LZ4:
		lw := lz4.NewWriter(w)
		if err := lw.Apply(lz4.CompressionLevelOption(mapLZ4Level(level))); err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		return lw, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// Open opens path and returns a reader over its decompressed content along
// with the algorithm in use. With Auto the extension is consulted first,
// then the leading bytes of the file.
func Open(path string, alg Algorithm) (io.ReadCloser, Algorithm, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the caller on purpose
	if err != nil {
		return nil, "", err
	}

	br := bufio.NewReaderSize(f, 64*1024)
	if alg == Auto || alg == "" {
		alg = DetectFromPath(path)
		if alg == None {
			header, _ := br.Peek(10)
			alg = DetectFromHeader(header)
		}
	}

	r, err := NewReader(br, alg)
	if err != nil {
		_ = f.Close()
		return nil, alg, err
	}
	return &fileReader{ReadCloser: r, file: f}, alg, nil
}

type fileReader struct {
	io.ReadCloser
	file *os.File
}

func (fr *fileReader) Close() error {
	err := fr.ReadCloser.Close()
	if cerr := fr.file.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Helper functions for level mapping
func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	case Better:
		return 7
	default:
		return gzip.DefaultCompression
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapS2Options(level Level) []s2.WriterOption {
	switch level {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}
