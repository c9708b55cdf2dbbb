package v1

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTick_FillFrom(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 16, 0, 0, time.UTC)
	prev := Tick{Timestamp: ts.Add(-time.Minute), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100}

	tick := EmptyTick(ts)
	tick.Close = 1.8
	tick.FillFrom(prev)

	assert.Equal(t, ts, tick.Timestamp)
	assert.Equal(t, 1.0, tick.Open)
	assert.Equal(t, 2.0, tick.High)
	assert.Equal(t, 0.5, tick.Low)
	assert.Equal(t, 1.8, tick.Close)
	assert.Equal(t, 100.0, tick.Volume)
}

func TestTick_FillFromUnfilled(t *testing.T) {
	ts := time.Date(2024, 1, 2, 9, 16, 0, 0, time.UTC)

	tick := EmptyTick(ts)
	tick.FillFrom(EmptyTick(ts.Add(-time.Minute)))

	assert.True(t, math.IsNaN(tick.Close))
	assert.True(t, math.IsNaN(tick.Volume))
}
