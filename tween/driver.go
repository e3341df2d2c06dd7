package tween

import (
	"sync"
	"time"
)

// FrameInterval is roughly one display frame at 60Hz.
const FrameInterval = time.Second / 60

// Driver delivers frame ticks only while started. C returns nil when stopped,
// so selecting on it blocks forever instead of spinning.
type Driver struct {
	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker
}

func NewDriver(interval time.Duration) *Driver {
	if interval <= 0 {
		interval = FrameInterval
	}
	return &Driver{interval: interval}
}

// Start is a no-op when already running.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker == nil {
		d.ticker = time.NewTicker(d.interval)
	}
}

func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
}

func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticker != nil
}

func (d *Driver) C() <-chan time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker == nil {
		return nil
	}
	return d.ticker.C
}
