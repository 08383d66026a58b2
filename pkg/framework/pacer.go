package framework

import (
	"context"
	"time"
)

// DefaultRate is the default base tick rate in Hz.
const DefaultRate uint = 1000

// TickerPacer paces base ticks at a fixed rate using time.Ticker.
type TickerPacer struct {
	Interval time.Duration

	ticker *time.Ticker
}

// NewPacer creates a TickerPacer ticking rate times per second.
func NewPacer(rate uint) *TickerPacer {
	if rate == 0 {
		rate = DefaultRate
	}
	return &TickerPacer{Interval: time.Second / time.Duration(rate)}
}

// Wait implements Pacer.
func (p *TickerPacer) Wait(ctx context.Context) (time.Time, error) {
	if p.ticker == nil {
		p.ticker = time.NewTicker(p.Interval)
	}
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-p.ticker.C:
		return now, nil
	}
}

// Stop releases the underlying ticker.
func (p *TickerPacer) Stop() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

// PeriodOf converts a task rate (Hz) into a period of base ticks
// against baseRate. The period is never less than one base tick.
func PeriodOf(baseRate, rate uint) uint {
	if rate == 0 || rate >= baseRate {
		return 1
	}
	return baseRate / rate
}
