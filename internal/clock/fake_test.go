package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnce(t *testing.T) {
	c := NewFake(epoch)
	fired := 0
	c.AfterFunc(2*time.Second, func() { fired++ })

	c.Advance(time.Second)
	if fired != 0 {
		t.Fatalf("fired = %d after 1s, expected 0", fired)
	}
	c.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("fired = %d after 2s, expected 1", fired)
	}
	c.Advance(10 * time.Second)
	if fired != 1 {
		t.Errorf("fired = %d after 12s, expected 1", fired)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", c.Pending())
	}
}

func TestFakeEvery(t *testing.T) {
	c := NewFake(epoch)
	ticks := 0
	timer := c.Every(500*time.Millisecond, func() { ticks++ })

	c.Advance(2 * time.Second)
	if ticks != 4 {
		t.Errorf("ticks = %d, expected 4", ticks)
	}

	if !timer.Stop() {
		t.Error("Stop() = false on running ticker, expected true")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, expected false")
	}
	c.Advance(2 * time.Second)
	if ticks != 4 {
		t.Errorf("ticks = %d after stop, expected 4", ticks)
	}
}

func TestFakeOrderAndNow(t *testing.T) {
	c := NewFake(epoch)
	var order []string
	var at []time.Duration

	record := func(name string) func() {
		return func() {
			order = append(order, name)
			at = append(at, c.Now().Sub(epoch))
		}
	}
	c.AfterFunc(3*time.Second, record("c"))
	c.AfterFunc(1*time.Second, record("a"))
	c.AfterFunc(1*time.Second, record("b"))

	c.Advance(5 * time.Second)

	expected := []string{"a", "b", "c"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("order = %v, expected %v", order, expected)
		}
	}
	if at[0] != time.Second || at[2] != 3*time.Second {
		t.Errorf("callback times = %v, expected [1s 1s 3s]", at)
	}
	if got := c.Now().Sub(epoch); got != 5*time.Second {
		t.Errorf("Now() offset = %v, expected 5s", got)
	}
}

func TestFakeRescheduleFromCallback(t *testing.T) {
	c := NewFake(epoch)
	count := 0
	var reschedule func()
	reschedule = func() {
		count++
		c.AfterFunc(time.Second, reschedule)
	}
	c.AfterFunc(time.Second, reschedule)

	c.Advance(5 * time.Second)
	if count != 5 {
		t.Errorf("count = %d, expected 5", count)
	}
}

func TestFakeStopBeforeFire(t *testing.T) {
	c := NewFake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop() = false, expected true")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}
