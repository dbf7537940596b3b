package watch

import (
	"sync"
	"time"
)

var afterFunc = time.AfterFunc

// Debouncer runs fn once after Trigger has stopped being called for delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	fn    func()
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.gen == gen
		d.mu.Unlock()
		// a timer that already fired before Stop cannot be recalled
		if current {
			d.fn()
		}
	})
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
