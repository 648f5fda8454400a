package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func TestFakeAdvanceFiresInOrder(t *testing.T) {
	c := NewFake(epoch)

	var order []string
	c.AfterFunc(3*time.Second, func() { order = append(order, "third") })
	c.AfterFunc(1*time.Second, func() { order = append(order, "first") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "second") })

	c.Advance(2 * time.Second)
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("after 2s fired %v, want [first second]", order)
	}
	if got := c.Now(); !got.Equal(epoch.Add(2 * time.Second)) {
		t.Errorf("Now() = %v, want %v", got, epoch.Add(2*time.Second))
	}

	c.Advance(time.Second)
	if len(order) != 3 || order[2] != "third" {
		t.Fatalf("after 3s fired %v, want third last", order)
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Error("Stop() = false for a pending call, want true")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}

	c.Advance(time.Minute)
	if fired {
		t.Error("stopped call fired")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", c.Pending())
	}
}

func TestFakeRescheduleDuringAdvance(t *testing.T) {
	c := NewFake(epoch)

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		c.AfterFunc(time.Second, tick)
	}
	c.AfterFunc(time.Second, tick)

	c.Advance(10 * time.Second)
	if ticks != 10 {
		t.Errorf("ticks = %d, want 10", ticks)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", c.Pending())
	}
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake(epoch)

	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(time.Second)
	if timer.Stop() {
		t.Error("Stop() after firing = true, want false")
	}
}
