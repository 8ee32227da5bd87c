package cache

import (
	"errors"
	"strconv"
	"sync"
)

// ErrNotNumeric is returned by Incr/Decr when the stored value cannot be
// parsed as a decimal integer. Dispatchers surface this as a
// CLIENT_ERROR, never as a server-side failure.
var ErrNotNumeric = errors.New("cannot increment or decrement non-numeric value")

// Engine is the cache-engine layer: higher-level operations
// (set/get/add/replace/append/prepend/incr/decr/delete/flush_all) built
// on top of a Store and Stats. All locking for concurrent connection
// goroutines lives here, one RWMutex per Engine.
type Engine struct {
	mu    sync.RWMutex
	store *Store
	stats Stats
	clock Clock
}

// NewEngine constructs an Engine with the given capacity and clock. A
// nil clock defaults to SystemClock.
func NewEngine(maxItems int, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		store: NewStore(maxItems),
		clock: clock,
	}
}

func expiresAt(now int64, ttlSeconds int64) int64 {
	if ttlSeconds == 0 {
		return 0
	}
	return now + ttlSeconds
}

// Set unconditionally stores value under key with the given ttl (0 means
// never expire) and bumps the Sets counter.
func (e *Engine) Set(key string, value []byte, ttl int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	e.store.Put(key, &Item{value: value, expiresAt: expiresAt(now, ttl)})
	e.stats.Sets++
}

// Get returns the value stored at key, updating the hit/miss counters.
func (e *Engine) Get(key string) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.store.GetRaw(key, e.clock.Now())
	if !ok {
		e.stats.GetMisses++
		return nil, false
	}

	e.stats.GetHits++
	return item.value, true
}

// Add stores value under key only if key is not currently valid.
func (e *Engine) Add(key string, value []byte, ttl int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if e.store.ContainsValid(key, now) {
		return false
	}

	e.store.Put(key, &Item{value: value, expiresAt: expiresAt(now, ttl)})
	return true
}

// Replace stores value under key only if key is currently valid.
func (e *Engine) Replace(key string, value []byte, ttl int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if !e.store.ContainsValid(key, now) {
		return false
	}

	e.store.Put(key, &Item{value: value, expiresAt: expiresAt(now, ttl)})
	return true
}

// Append writes old ∥ value under key with the new ttl, provided key is
// currently valid. The new ttl overwrites rather than preserves the
// previous expiration — a deliberate choice carried from the source (see
// DESIGN.md).
func (e *Engine) Append(key string, value []byte, ttl int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.concatenate(key, value, ttl, false)
}

// Prepend writes value ∥ old under key with the new ttl, provided key is
// currently valid.
func (e *Engine) Prepend(key string, value []byte, ttl int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.concatenate(key, value, ttl, true)
}

func (e *Engine) concatenate(key string, value []byte, ttl int64, prepend bool) bool {
	now := e.clock.Now()
	item, ok := e.store.GetRaw(key, now)
	if !ok {
		return false
	}

	var combined []byte
	if prepend {
		combined = make([]byte, 0, len(value)+len(item.value))
		combined = append(combined, value...)
		combined = append(combined, item.value...)
	} else {
		combined = make([]byte, 0, len(item.value)+len(value))
		combined = append(combined, item.value...)
		combined = append(combined, value...)
	}

	e.store.Put(key, &Item{value: combined, expiresAt: expiresAt(now, ttl)})
	return true
}

// Incr adds delta to the integer value stored at key. It returns
// (newValue, true) on success, (0, false) if key is absent or expired,
// and ErrNotNumeric if the stored value is not a decimal integer.
func (e *Engine) Incr(key string, delta int64) (int64, bool, error) {
	return e.addDelta(key, delta)
}

// Decr subtracts delta from the integer value stored at key. Underflow
// below zero is not clamped; it wraps per normal int64 arithmetic (see
// DESIGN.md's note on this open question).
func (e *Engine) Decr(key string, delta int64) (int64, bool, error) {
	return e.addDelta(key, -delta)
}

func (e *Engine) addDelta(key string, delta int64) (int64, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	item, ok := e.store.GetRaw(key, now)
	if !ok {
		return 0, false, nil
	}

	current, err := strconv.ParseInt(string(item.value), 10, 64)
	if err != nil {
		return 0, false, ErrNotNumeric
	}

	newValue := current + delta
	item.value = []byte(strconv.FormatInt(newValue, 10))
	return newValue, true, nil
}

// Delete removes key, returning whether it existed and was valid.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Remove(key, e.clock.Now())
}

// FlushAll clears every entry. Counters are left untouched.
func (e *Engine) FlushAll() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
	return true
}

// Stats returns a point-in-time snapshot of the counters.
func (e *Engine) Stats() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot{
		GetHits:   e.stats.GetHits,
		GetMisses: e.stats.GetMisses,
		Sets:      e.stats.Sets,
	}
}

// Keys returns the currently stored keys, for tests and introspection.
func (e *Engine) Keys() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Keys()
}

// Len returns the number of entries currently tracked by the Store.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Len()
}
