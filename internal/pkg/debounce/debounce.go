package debounce

import (
	"sync"
	"time"
)

// Timer abstracts the timer used by a Debouncer so tests can drive a
// virtual clock instead of sleeping.
type Timer interface {
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Cancel stops a pending timer. It reports whether the timer was stopped
// before firing.
type Cancel func() bool

type realTimer struct{}

func (realTimer) AfterFunc(d time.Duration, fn func()) Cancel {
	t := time.AfterFunc(d, fn)
	return t.Stop
}

// Debouncer collapses bursts of calls into a single invocation of the
// wrapped callback after a quiet period. Only the last Call wins.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   Timer
	pending Cancel
	fn      func()
}

// New builds a Debouncer on the real clock.
func New(delay time.Duration, fn func()) *Debouncer {
	return NewWithTimer(delay, fn, realTimer{})
}

// NewWithTimer builds a Debouncer on a caller-supplied timer.
func NewWithTimer(delay time.Duration, fn func(), timer Timer) *Debouncer {
	return &Debouncer{
		delay: delay,
		timer: timer,
		fn:    fn,
	}
}

// Call schedules the callback after the quiet period, replacing any
// previously scheduled invocation.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending()
	}
	d.pending = d.timer.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.pending = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Flush runs the callback immediately if one is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if pending != nil && pending() {
		d.fn()
	}
}

// Stop drops any pending invocation without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending()
		d.pending = nil
	}
}

// VirtualTimer is a Timer driven by an explicit Advance call, for tests.
type VirtualTimer struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	pending map[int]virtualEntry
}

type virtualEntry struct {
	at time.Duration
	fn func()
}

func NewVirtualTimer() *VirtualTimer {
	return &VirtualTimer{pending: make(map[int]virtualEntry)}
}

func (v *VirtualTimer) AfterFunc(d time.Duration, fn func()) Cancel {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.pending[id] = virtualEntry{at: v.now + d, fn: fn}

	return func() bool {
		v.mu.Lock()
		defer v.mu.Unlock()
		_, ok := v.pending[id]
		delete(v.pending, id)
		return ok
	}
}

// Advance moves the virtual clock forward and fires every timer that
// comes due, in schedule order.
func (v *VirtualTimer) Advance(d time.Duration) {
	v.mu.Lock()
	v.now += d
	var due []func()
	for id, entry := range v.pending {
		if entry.at <= v.now {
			due = append(due, entry.fn)
			delete(v.pending, id)
		}
	}
	v.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}
