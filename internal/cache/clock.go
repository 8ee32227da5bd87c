package cache

import "time"

// Clock is a value capability returning a monotonically non-decreasing
// "now". Production code uses SystemClock; tests inject a stub that only
// advances on an explicit Tick, so expiration can be exercised
// deterministically.
type Clock interface {
	Now() int64
}

// SystemClock is the production Clock, backed by wall-clock Unix seconds.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// StubClock is a Clock for tests: it only moves when Tick or Set is
// called, never on its own.
type StubClock struct {
	now int64
}

// NewStubClock returns a StubClock starting at the given Unix time.
func NewStubClock(start int64) *StubClock {
	return &StubClock{now: start}
}

func (c *StubClock) Now() int64 {
	return c.now
}

// Tick advances the stub clock by delta seconds.
func (c *StubClock) Tick(delta int64) {
	c.now += delta
}

// Set pins the stub clock to an absolute Unix time.
func (c *StubClock) Set(now int64) {
	c.now = now
}
