package timer

import "time"

// Ticker is the subset of *time.Ticker the engine uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every interval.
type TickerFactory func(interval time.Duration) Ticker

type stdTicker struct {
	ticker *time.Ticker
}

func (t stdTicker) C() <-chan time.Time { return t.ticker.C }
func (t stdTicker) Stop()               { t.ticker.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(interval time.Duration) Ticker {
	return stdTicker{ticker: time.NewTicker(interval)}
}
