package debounce

import (
	"testing"
	"time"
)

func TestDebouncerCollapsesBursts(t *testing.T) {
	timer := NewVirtualTimer()
	var fired int
	d := NewWithTimer(100*time.Millisecond, func() { fired++ }, timer)

	d.Call()
	d.Call()
	d.Call()

	if fired != 0 {
		t.Fatalf("fired %d times before the quiet period", fired)
	}

	timer.Advance(100 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}

	// Nothing pending; more time passes without another invocation.
	timer.Advance(time.Second)
	if fired != 1 {
		t.Errorf("fired %d times after idle advance, want 1", fired)
	}
}

func TestDebouncerCallResetsQuietPeriod(t *testing.T) {
	timer := NewVirtualTimer()
	var fired int
	d := NewWithTimer(100*time.Millisecond, func() { fired++ }, timer)

	d.Call()
	timer.Advance(60 * time.Millisecond)
	d.Call()
	timer.Advance(60 * time.Millisecond)

	if fired != 0 {
		t.Fatalf("fired %d times before the reset quiet period elapsed", fired)
	}

	timer.Advance(40 * time.Millisecond)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
}

func TestDebouncerStop(t *testing.T) {
	timer := NewVirtualTimer()
	var fired int
	d := NewWithTimer(100*time.Millisecond, func() { fired++ }, timer)

	d.Call()
	d.Stop()
	timer.Advance(time.Second)

	if fired != 0 {
		t.Errorf("fired %d times after Stop", fired)
	}

	// Stop with nothing pending is harmless.
	d.Stop()
}

func TestDebouncerFlush(t *testing.T) {
	timer := NewVirtualTimer()
	var fired int
	d := NewWithTimer(100*time.Millisecond, func() { fired++ }, timer)

	d.Call()
	d.Flush()

	if fired != 1 {
		t.Fatalf("fired %d times after Flush, want 1", fired)
	}

	// The flushed timer must not fire again when its deadline passes.
	timer.Advance(time.Second)
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}

	// Flush with nothing pending is a no-op.
	d.Flush()
	if fired != 1 {
		t.Errorf("idle Flush fired the callback")
	}
}

func TestVirtualTimerCancel(t *testing.T) {
	timer := NewVirtualTimer()
	var fired bool
	cancel := timer.AfterFunc(50*time.Millisecond, func() { fired = true })

	if !cancel() {
		t.Error("first cancel reported the timer already gone")
	}
	if cancel() {
		t.Error("second cancel reported a stop")
	}

	timer.Advance(time.Second)
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestRealTimer(t *testing.T) {
	done := make(chan struct{})
	d := New(time.Millisecond, func() { close(done) })
	d.Call()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real timer never fired")
	}
}
