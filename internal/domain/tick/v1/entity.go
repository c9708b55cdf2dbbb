package v1

import (
	"math"
	"time"
)

// Tick is one per-minute trade record of an instrument. A price or volume that
// could not be observed or filled is NaN.
type Tick struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// EmptyTick returns a tick at ts with every field unfilled.
func EmptyTick(ts time.Time) Tick {
	nan := math.NaN()
	return Tick{Timestamp: ts, Open: nan, High: nan, Low: nan, Close: nan, Volume: nan}
}

// FillFrom copies every unfilled field of t from prev.
func (t *Tick) FillFrom(prev Tick) {
	if math.IsNaN(t.Open) {
		t.Open = prev.Open
	}
	if math.IsNaN(t.High) {
		t.High = prev.High
	}
	if math.IsNaN(t.Low) {
		t.Low = prev.Low
	}
	if math.IsNaN(t.Close) {
		t.Close = prev.Close
	}
	if math.IsNaN(t.Volume) {
		t.Volume = prev.Volume
	}
}

// Instrument is a raw per-minute file of one stock.
type Instrument struct {
	Stock string
	Path  string
}
