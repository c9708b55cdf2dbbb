package v1

import (
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
)

// Column names of a processed dataset.
const (
	ColumnTimestamp    = "timestamp"
	ColumnOpen         = "open"
	ColumnHigh         = "high"
	ColumnLow          = "low"
	ColumnClose        = "close"
	ColumnVolume       = "volume"
	ColumnRollingAvg10 = "rolling_avg_10"
	ColumnVolumeSum10  = "volume_sum_10"
	ColumnTarget       = "target"
	ColumnStock        = "stock"
)

// Columns is the column order of a processed dataset.
var Columns = []string{
	ColumnTimestamp,
	ColumnOpen,
	ColumnHigh,
	ColumnLow,
	ColumnClose,
	ColumnVolume,
	ColumnRollingAvg10,
	ColumnVolumeSum10,
	ColumnTarget,
	ColumnStock,
}

// TrainingFeatures are the model inputs, in model column order.
var TrainingFeatures = []string{ColumnRollingAvg10, ColumnVolumeSum10}

// Row is a gap-filled tick enriched with rolling features and the
// forward-looking label. Stock is empty until the row is tagged.
type Row struct {
	tickv1.Tick
	RollingAvg10 float64
	VolumeSum10  float64
	Target       int
	Stock        string
}

// Feature returns the value of a training feature by column name.
func (r Row) Feature(name string) (float64, bool) {
	switch name {
	case ColumnRollingAvg10:
		return r.RollingAvg10, true
	case ColumnVolumeSum10:
		return r.VolumeSum10, true
	case ColumnOpen:
		return r.Open, true
	case ColumnHigh:
		return r.High, true
	case ColumnLow:
		return r.Low, true
	case ColumnClose:
		return r.Close, true
	case ColumnVolume:
		return r.Volume, true
	default:
		return 0, false
	}
}
