// Package feature derives rolling features and the forward-looking label from a gap-filled series.
package feature

import (
	"math"
	"slices"

	featurev1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/feature/v1"
	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
)

const (
	// Window is the number of rows, current one included, the rolling features cover.
	Window = 10
	// Horizon is how many rows ahead the target compares the close against.
	Horizon = 5
)

// Build computes rolling_avg_10, volume_sum_10 and target for every row and
// drops the last Horizon rows, whose target is undefined. Window aggregates
// skip unfilled values and are NaN only when the window holds none.
func Build(series []tickv1.Tick) []featurev1.Row {
	sorted := slices.Clone(series)
	slices.SortStableFunc(sorted, func(a, b tickv1.Tick) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	n := len(sorted)
	if n <= Horizon {
		return []featurev1.Row{}
	}

	rows := make([]featurev1.Row, n-Horizon)
	for i := range rows {
		lo := max(0, i-Window+1)

		closeSum, closeCount := windowSum(sorted[lo:i+1], func(t tickv1.Tick) float64 { return t.Close })
		volumeSum, volumeCount := windowSum(sorted[lo:i+1], func(t tickv1.Tick) float64 { return t.Volume })

		row := featurev1.Row{Tick: sorted[i], RollingAvg10: math.NaN(), VolumeSum10: math.NaN()}
		if closeCount > 0 {
			row.RollingAvg10 = closeSum / float64(closeCount)
		}
		if volumeCount > 0 {
			row.VolumeSum10 = volumeSum
		}
		// NaN on either side compares false
		if sorted[i+Horizon].Close > sorted[i].Close {
			row.Target = 1
		}
		rows[i] = row
	}
	return rows
}

func windowSum(window []tickv1.Tick, value func(tickv1.Tick) float64) (float64, int) {
	total, count := 0.0, 0
	for _, t := range window {
		v := value(t)
		if math.IsNaN(v) {
			continue
		}
		total += v
		count++
	}
	return total, count
}

// Tag sets the instrument id of every row.
func Tag(rows []featurev1.Row, stock string) []featurev1.Row {
	for i := range rows {
		rows[i].Stock = stock
	}
	return rows
}
