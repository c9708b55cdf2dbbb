package tick

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file"
)

const (
	colTimestamp = "timestamp"
	colOpen      = "open"
	colHigh      = "high"
	colLow       = "low"
	colClose     = "close"
	colVolume    = "volume"
)

var requiredColumns = []string{colTimestamp, colOpen, colHigh, colLow, colClose, colVolume}

// Reader reads per-minute instrument CSV files with a header row. Columns may
// come in any order and extra columns are ignored.
type Reader struct{}

// NewReader creates a new tick CSV reader.
func NewReader() *Reader {
	return &Reader{}
}

// Ensure Reader implements TickReader interface
var _ tickv1.TickReader = (*Reader)(nil)

// Read loads every record of the file at path. A missing file keeps its
// fs.ErrNotExist cause.
func (r *Reader) Read(ctx context.Context, path string) ([]tickv1.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instrument file: %w", err)
	}
	defer f.Close()

	return r.decode(ctx, f)
}

func (r *Reader) decode(ctx context.Context, src io.Reader) ([]tickv1.Tick, error) {
	cr := csv.NewReader(bufio.NewReader(src))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []tickv1.Tick{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := file.HeaderIndex(header, requiredColumns)
	if err != nil {
		return nil, err
	}

	ticks := []tickv1.Tick{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(record) < len(header) {
			return nil, file.MalformedCell(line, "record", fmt.Sprint(record), fmt.Errorf("expected %d fields, got %d", len(header), len(record)))
		}

		tick, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		ticks = append(ticks, tick)
	}
	return ticks, nil
}

func parseRecord(record []string, index map[string]int, line int) (tickv1.Tick, error) {
	var tick tickv1.Tick

	raw := record[index[colTimestamp]]
	ts, err := file.ParseTimestamp(raw)
	if err != nil {
		return tick, file.MalformedCell(line, colTimestamp, raw, err)
	}
	tick.Timestamp = ts

	fields := []struct {
		column string
		dest   *float64
	}{
		{colOpen, &tick.Open},
		{colHigh, &tick.High},
		{colLow, &tick.Low},
		{colClose, &tick.Close},
		{colVolume, &tick.Volume},
	}
	for _, f := range fields {
		raw := record[index[f.column]]
		v, err := file.ParseFloat(raw)
		if err != nil {
			return tick, file.MalformedCell(line, f.column, raw, err)
		}
		*f.dest = v
	}
	return tick, nil
}
