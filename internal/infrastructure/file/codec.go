// Package file holds the on-disk encodings shared by the file repositories.
package file

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/errors"
)

const (
	// LayoutWithOffset is used for timestamps that carry a zone offset.
	LayoutWithOffset = "2006-01-02 15:04:05-07:00"
	// LayoutNaive is used for timestamps without zone information.
	LayoutNaive = "2006-01-02 15:04:05"
)

var timestampLayouts = []string{
	LayoutWithOffset,
	LayoutNaive,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp parses the accepted timestamp layouts. A timestamp with an
// offset is pinned to a fixed zone of that offset; one without is UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if t.Location() != time.UTC {
			_, offset := t.Zone()
			t = t.In(time.FixedZone("", offset))
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FormatTimestamp writes UTC timestamps without an offset and every other one with it.
func FormatTimestamp(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format(LayoutNaive)
	}
	return t.Format(LayoutWithOffset)
}

// ParseFloat parses a numeric cell. An empty cell is NaN.
func ParseFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(value, 64)
}

// FormatFloat writes the shortest representation of v. NaN is an empty cell,
// integral values keep a trailing ".0", and decimal exponents below -4 or from
// 16 up switch to exponent form (1e-05, 1.5e+16).
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v != 0 {
		sci := strconv.FormatFloat(v, 'e', -1, 64)
		exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
		if err == nil && (exp < -4 || exp >= 16) {
			return sci
		}
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// HeaderIndex maps each required column to its position in header. Every
// missing column is reported in one BaseError.
func HeaderIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	missing := errors.NewBaseError()
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing.AddErrorDetails(errors.NewErrorDetails(
				fmt.Sprintf("missing column %s", col),
				string(errors.CSVMissingColumnError),
				col,
			))
		}
	}
	if missing.HasDetails() {
		return nil, missing
	}
	return index, nil
}

// MalformedCell reports a cell that could not be parsed.
func MalformedCell(line int, column, value string, err error) *errors.ErrorDetails {
	return errors.NewErrorDetails(
		fmt.Sprintf("line %d: cannot parse %s value %q: %v", line, column, value, err),
		string(errors.CSVMalformedRecordError),
		column,
	)
}
