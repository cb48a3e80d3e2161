package clock

import "time"

// Clock supplies the current instant. All date arithmetic in the pass
// engine goes through it so validity rules stay deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a test clock pinned to a settable instant.
type Fixed struct {
	t time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	return f.t
}

func (f *Fixed) Set(t time.Time) {
	f.t = t
}

func (f *Fixed) Advance(d time.Duration) {
	f.t = f.t.Add(d)
}
