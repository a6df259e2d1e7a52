package tracesource

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"chromalyzer/internal/core/trace"
	perr "chromalyzer/internal/platform/errors"
)

// Format names a supported trace encoding
type Format string

const (
	FormatCDF  Format = "cdf"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// MaxFileBytes bounds what a loader will buffer
const MaxFileBytes = 256 << 20

var extFormats = map[string]Format{
	".cdf":  FormatCDF,
	".nc":   FormatCDF,
	".csv":  FormatCSV,
	".tsv":  FormatCSV,
	".txt":  FormatCSV,
	".json": FormatJSON,
}

// Extensions lists the accepted file extensions, sorted
func Extensions() []string { return slices.Sorted(maps.Keys(extFormats)) }

// FormatOf picks the decoder for a file name by extension (case-insensitive)
func FormatOf(name string) (Format, error) {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return f, nil
	}
	return "", perr.WithField(perr.InvalidArgf("unsupported trace file %q", filepath.Base(name)), "file")
}

// Supported reports whether name has a known extension
func Supported(name string) bool {
	_, err := FormatOf(name)
	return err == nil
}

// Decode reads a whole trace from r, picking the format from name
func Decode(name string, r io.Reader) (trace.Trace, error) {
	f, err := FormatOf(name)
	if err != nil {
		return trace.Trace{}, err
	}
	b, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return trace.Trace{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "read %s", name)
	}
	if len(b) > MaxFileBytes {
		return trace.Trace{}, perr.InvalidArgf("%s exceeds %d bytes", name, MaxFileBytes)
	}
	return DecodeBytes(f, b)
}

// DecodeBytes decodes b as format f
func DecodeBytes(f Format, b []byte) (trace.Trace, error) {
	var (
		tr  trace.Trace
		err error
	)
	switch f {
	case FormatCDF:
		tr, err = ReadCDF(b)
	case FormatCSV:
		tr, err = ReadCSV(bytes.NewReader(b))
	case FormatJSON:
		tr, err = ReadJSON(b)
	default:
		return trace.Trace{}, perr.InvalidArgf("unsupported format %q", f)
	}
	if err != nil {
		return trace.Trace{}, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "decode %s", f), "file")
	}
	return tr, nil
}

// Open checks that path exists with a supported extension and decodes it
func Open(path string) (trace.Trace, error) {
	if _, err := FormatOf(path); err != nil {
		return trace.Trace{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return trace.Trace{}, perr.NotFoundf("trace file %s does not exist", path)
		}
		return trace.Trace{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "open %s", path)
	}
	defer fh.Close()
	return Decode(path, fh)
}
