// Package resample aligns raw ticks onto the trading-minute calendar.
package resample

import (
	"slices"

	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/pkg/session"
)

// Resample returns one tick per valid trading minute between the earliest and
// the latest input timestamp. A minute without an input record carries every
// field forward from the previous output row; a leading gap stays unfilled.
// Input at non-trading minutes is dropped and never carried forward.
func Resample(ticks []tickv1.Tick, s session.Session) []tickv1.Tick {
	if len(ticks) == 0 {
		return []tickv1.Tick{}
	}

	sorted := slices.Clone(ticks)
	slices.SortStableFunc(sorted, func(a, b tickv1.Tick) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	// last record wins on a duplicated instant
	byInstant := make(map[int64]int, len(sorted))
	for i, t := range sorted {
		byInstant[t.Timestamp.UnixNano()] = i
	}

	minutes := s.Minutes(sorted[0].Timestamp, sorted[len(sorted)-1].Timestamp)
	out := make([]tickv1.Tick, len(minutes))
	for i, m := range minutes {
		row := tickv1.EmptyTick(m)
		if j, ok := byInstant[m.UnixNano()]; ok {
			src := sorted[j]
			row.Open, row.High, row.Low, row.Close, row.Volume = src.Open, src.High, src.Low, src.Close, src.Volume
		}
		if i > 0 {
			row.FillFrom(out[i-1])
		}
		out[i] = row
	}
	return out
}
