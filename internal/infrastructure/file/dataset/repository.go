package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/infrastructure/file"
)

// Repository stores processed datasets as processed_v<version>.csv files in one directory.
type Repository struct {
	dir string
}

// NewRepository creates a dataset repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Ensure Repository implements DatasetRepository interface
var _ featurev1.DatasetRepository = (*Repository)(nil)

// Path returns the file of a dataset version.
func (r *Repository) Path(version string) string {
	return filepath.Join(r.dir, fmt.Sprintf("processed_v%s.csv", version))
}

// Write replaces the dataset of version with rows. The file is written to a
// temporary name first so readers never observe a partial dataset.
func (r *Repository) Write(ctx context.Context, version string, rows []featurev1.Row) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, fmt.Sprintf(".processed_v%s-*.csv", version))
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(ctx, tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close dataset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.Path(version)); err != nil {
		return fmt.Errorf("failed to publish dataset file: %w", err)
	}
	return nil
}

// Read loads every row of a dataset version. A missing file keeps its
// fs.ErrNotExist cause.
func (r *Repository) Read(ctx context.Context, version string) ([]featurev1.Row, error) {
	f, err := os.Open(r.Path(version))
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return decode(ctx, f)
}

func encode(ctx context.Context, dst io.Writer, rows []featurev1.Row) error {
	bw := bufio.NewWriter(dst)
	w := csv.NewWriter(bw)

	if err := w.Write(featurev1.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(featurev1.Columns))
	for i, row := range rows {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		record[0] = file.FormatTimestamp(row.Timestamp)
		record[1] = file.FormatFloat(row.Open)
		record[2] = file.FormatFloat(row.High)
		record[3] = file.FormatFloat(row.Low)
		record[4] = file.FormatFloat(row.Close)
		record[5] = file.FormatFloat(row.Volume)
		record[6] = file.FormatFloat(row.RollingAvg10)
		record[7] = file.FormatFloat(row.VolumeSum10)
		record[8] = strconv.Itoa(row.Target)
		record[9] = row.Stock
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return bw.Flush()
}

func decode(ctx context.Context, src io.Reader) ([]featurev1.Row, error) {
	cr := csv.NewReader(bufio.NewReader(src))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return []featurev1.Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	index, err := file.HeaderIndex(header, featurev1.Columns)
	if err != nil {
		return nil, err
	}

	rows := []featurev1.Row{}
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
			return nil, file.MalformedCell(line, "record", strings.Join(record, ","), fmt.Errorf("expected %d fields, got %d", len(header), len(record)))
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(record []string, index map[string]int, line int) (featurev1.Row, error) {
	var row featurev1.Row

	raw := record[index[featurev1.ColumnTimestamp]]
	ts, err := file.ParseTimestamp(raw)
	if err != nil {
		return row, file.MalformedCell(line, featurev1.ColumnTimestamp, raw, err)
	}
	row.Timestamp = ts

	fields := []struct {
		column string
		dest   *float64
	}{
		{featurev1.ColumnOpen, &row.Open},
		{featurev1.ColumnHigh, &row.High},
		{featurev1.ColumnLow, &row.Low},
		{featurev1.ColumnClose, &row.Close},
		{featurev1.ColumnVolume, &row.Volume},
		{featurev1.ColumnRollingAvg10, &row.RollingAvg10},
		{featurev1.ColumnVolumeSum10, &row.VolumeSum10},
	}
	for _, f := range fields {
		raw := record[index[f.column]]
		v, err := file.ParseFloat(raw)
		if err != nil {
			return row, file.MalformedCell(line, f.column, raw, err)
		}
		*f.dest = v
	}

	raw = record[index[featurev1.ColumnTarget]]
	target, err := parseTarget(raw)
	if err != nil {
		return row, file.MalformedCell(line, featurev1.ColumnTarget, raw, err)
	}
	row.Target = target
	row.Stock = record[index[featurev1.ColumnStock]]
	return row, nil
}

// parseTarget accepts integral labels written either as "1" or "1.0".
func parseTarget(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("label %q is not integral", raw)
	}
	return int(f), nil
}
