package tracesource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chromalyzer/internal/core/trace"
)

// ReadCSV reads time,intensity rows. The delimiter (comma, tab or semicolon)
// is sniffed from the first data line; a non-numeric first row is a header
// and lines starting with # are comments
func ReadCSV(r io.Reader) (trace.Trace, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return trace.Trace{}, err
	}

	cr := csv.NewReader(bytes.NewReader(b))
	cr.Comma = sniffDelimiter(b)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var tr trace.Trace
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return trace.Trace{}, err
		}
		row++
		if len(rec) < 2 {
			return trace.Trace{}, fmt.Errorf("row %d: want 2 columns, got %d", row, len(rec))
		}
		t, terr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		v, verr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if terr != nil || verr != nil {
			if row == 1 {
				continue // header
			}
			return trace.Trace{}, fmt.Errorf("row %d: non-numeric value", row)
		}
		tr.Time = append(tr.Time, t)
		tr.Intensity = append(tr.Intensity, v)
	}
	if len(tr.Time) == 0 {
		return trace.Trace{}, errors.New("no data rows")
	}
	return tr, nil
}

// sniffDelimiter looks at the first non-comment line
func sniffDelimiter(b []byte) rune {
	for _, ln := range strings.Split(string(b), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}
		switch {
		case strings.Contains(ln, "\t"):
			return '\t'
		case strings.Contains(ln, ";"):
			return ';'
		}
		return ','
	}
	return ','
}
