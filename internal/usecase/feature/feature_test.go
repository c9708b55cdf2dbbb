package feature

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	tickv1 "github.com/anuzzzzz/21F2000400-IITMBS-MLOPS-OPPE1/internal/domain/tick/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 2, 9, 15, 0, 0, time.FixedZone("IST", 5*3600+1800))

func series(closes []float64, volume float64) []tickv1.Tick {
	out := make([]tickv1.Tick, len(closes))
	for i, c := range closes {
		out[i] = tickv1.Tick{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    volume,
		}
	}
	return out
}

func rangeCloses(from, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = float64(from + i)
	}
	return closes
}

func TestBuild_RollingAverage(t *testing.T) {
	rows := Build(series(rangeCloses(100, 20), 1000))

	require.Len(t, rows, 15)
	assert.Equal(t, 100.0, rows[0].RollingAvg10)
	assert.Equal(t, 100.5, rows[1].RollingAvg10)
	assert.InDelta(t, 104.5, rows[9].RollingAvg10, 1e-9)
	assert.InDelta(t, 105.5, rows[10].RollingAvg10, 1e-9)
}

func TestBuild_VolumeSum(t *testing.T) {
	rows := Build(series(rangeCloses(100, 20), 1000))

	assert.Equal(t, 1000.0, rows[0].VolumeSum10)
	assert.Equal(t, 5000.0, rows[4].VolumeSum10)
	assert.Equal(t, 10000.0, rows[9].VolumeSum10)
	assert.Equal(t, 10000.0, rows[14].VolumeSum10)
}

func TestBuild_Target(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94, 107, 93, 108, 92, 109, 91, 110}
	rows := Build(series(closes, 1000))

	require.Len(t, rows, 15)
	assert.Equal(t, 1, rows[0].Target)
	assert.Equal(t, 0, rows[1].Target)
	for i, row := range rows {
		want := 0
		if closes[i+Horizon] > closes[i] {
			want = 1
		}
		assert.Equal(t, want, row.Target, "row %d", i)
		assert.Contains(t, []int{0, 1}, row.Target)
	}
}

func TestBuild_TargetStrictlyGreater(t *testing.T) {
	rows := Build(series([]float64{100, 100, 100, 100, 100, 100, 100}, 1))

	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Target)
	assert.Equal(t, 0, rows[1].Target)
}

func TestBuild_SortsInput(t *testing.T) {
	ticks := series(rangeCloses(100, 10), 1000)
	shuffled := append([]tickv1.Tick(nil), ticks...)
	rng := rand.New(rand.NewPCG(1, 2))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	rows := Build(shuffled)
	require.Len(t, rows, 5)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Timestamp.After(rows[i-1].Timestamp))
	}
	assert.Equal(t, 100.0, rows[0].Close)
}

func TestBuild_ShortInput(t *testing.T) {
	for n := 0; n <= Horizon; n++ {
		rows := Build(series(rangeCloses(100, n), 1))
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	}

	rows := Build(series(rangeCloses(100, Horizon+1), 1))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Target)
}

func TestBuild_UnfilledLeadingRows(t *testing.T) {
	ticks := series(rangeCloses(100, 15), 1000)
	ticks[0] = tickv1.EmptyTick(ticks[0].Timestamp)
	ticks[1] = tickv1.EmptyTick(ticks[1].Timestamp)

	rows := Build(ticks)
	require.Len(t, rows, 10)

	assert.True(t, math.IsNaN(rows[0].RollingAvg10))
	assert.True(t, math.IsNaN(rows[0].VolumeSum10))
	assert.Equal(t, 0, rows[0].Target)
	assert.True(t, math.IsNaN(rows[1].RollingAvg10))

	assert.Equal(t, 102.0, rows[2].RollingAvg10)
	assert.Equal(t, 1000.0, rows[2].VolumeSum10)
	assert.InDelta(t, (102.0+103+104+105+106+107+108+109)/8, rows[9].RollingAvg10, 1e-9)
	assert.Equal(t, 8000.0, rows[9].VolumeSum10)
}

func TestTag(t *testing.T) {
	rows := Tag(Build(series(rangeCloses(100, 8), 1)), "AARTIIND")
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "AARTIIND", row.Stock)
	}
}
