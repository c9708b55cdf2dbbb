package session

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day with minute resolution.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) minuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Session describes when an exchange trades. Open and Close are both inclusive
// and are evaluated in the location of the timestamp being checked.
type Session struct {
	Name      string
	Open      Clock
	Close     Clock
	Weekdays  []time.Weekday
	Frequency time.Duration
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Supported sessions
var (
	NSEEquity = Session{Name: "nse_equity", Open: Clock{9, 15}, Close: Clock{15, 30}, Weekdays: weekdays, Frequency: time.Minute}
	BSEEquity = Session{Name: "bse_equity", Open: Clock{9, 15}, Close: Clock{15, 30}, Weekdays: weekdays, Frequency: time.Minute}
	NSEFX     = Session{Name: "nse_currency", Open: Clock{9, 0}, Close: Clock{17, 0}, Weekdays: weekdays, Frequency: time.Minute}
)

// AllSessions lists every session known to the registry.
var AllSessions = []Session{NSEEquity, BSEEquity, NSEFX}

var sessionRegistry = make(map[string]Session)

func init() {
	for _, s := range AllSessions {
		sessionRegistry[s.Name] = s
	}
}

// GetSession returns a session by name
func GetSession(name string) (Session, error) {
	s, exists := sessionRegistry[name]
	if !exists {
		return Session{}, fmt.Errorf("unsupported session: %s", name)
	}
	return s, nil
}

// IsValidSession checks if session name is supported
func IsValidSession(name string) bool {
	_, exists := sessionRegistry[name]
	return exists
}

// IsTradingDay reports whether t falls on one of the session weekdays.
func (s Session) IsTradingDay(t time.Time) bool {
	day := t.Weekday()
	for _, w := range s.Weekdays {
		if w == day {
			return true
		}
	}
	return false
}

// Contains reports whether t is a valid trading minute. Seconds are ignored,
// so 15:30:59 is still inside a session closing at 15:30.
func (s Session) Contains(t time.Time) bool {
	if !s.IsTradingDay(t) {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= s.Open.minuteOfDay() && m <= s.Close.minuteOfDay()
}

// Minutes enumerates start, start+Frequency, ... up to and including end and
// keeps only the points inside the session. The grid is anchored at start,
// not truncated to a whole minute.
func (s Session) Minutes(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	step := s.Frequency
	if step <= 0 {
		step = time.Minute
	}

	var minutes []time.Time
	for t := start; !t.After(end); t = t.Add(step) {
		if s.Contains(t) {
			minutes = append(minutes, t)
		}
	}
	return minutes
}
