package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a deterministic, manually advanced Clock.
// Callbacks run synchronously inside Advance, in deadline order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*fakeTask
}

type fakeTask struct {
	owner    *Fake
	deadline time.Time
	period   time.Duration // zero for one-shot tasks
	seq      uint64
	fn       func()
	stopped  bool
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t without firing anything.
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	return c.schedule(d, 0, f)
}

func (c *Fake) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		d = time.Millisecond
	}
	return c.schedule(d, d, f)
}

func (c *Fake) schedule(d, period time.Duration, f func()) *fakeTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTask{
		owner:    c,
		deadline: c.now.Add(d),
		period:   period,
		seq:      c.seq,
		fn:       f,
	}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by d, firing every task that comes due.
// Tasks scheduled by callbacks fire too if they fall inside the window.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		t := c.nextDueLocked(target)
		if t == nil {
			break
		}
		c.now = t.deadline
		if t.period > 0 {
			t.deadline = t.deadline.Add(t.period)
		} else {
			t.stopped = true
			c.removeLocked(t)
		}
		c.mu.Unlock()
		t.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Pending reports how many tasks are still scheduled.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

func (c *Fake) nextDueLocked(target time.Time) *fakeTask {
	sort.SliceStable(c.tasks, func(i, j int) bool {
		a, b := c.tasks[i], c.tasks[j]
		if !a.deadline.Equal(b.deadline) {
			return a.deadline.Before(b.deadline)
		}
		return a.seq < b.seq
	})
	if len(c.tasks) == 0 || c.tasks[0].deadline.After(target) {
		return nil
	}
	return c.tasks[0]
}

func (c *Fake) removeLocked(t *fakeTask) {
	for i, other := range c.tasks {
		if other == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}

func (t *fakeTask) Stop() bool {
	c := t.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	c.removeLocked(t)
	return true
}
