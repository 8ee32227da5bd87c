package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorePutGetRoundTrip(t *testing.T) {
	s := NewStore(10)
	s.Put("a", &Item{value: []byte("1")})

	item, ok := s.GetRaw("a", 0)
	require.True(t, ok)
	require.Equal(t, []byte("1"), item.value)
}

func TestStoreGetRawMissingKey(t *testing.T) {
	s := NewStore(10)
	_, ok := s.GetRaw("missing", 0)
	require.False(t, ok)
}

func TestStoreLazyExpiration(t *testing.T) {
	s := NewStore(10)
	s.Put("a", &Item{value: []byte("1"), expiresAt: 100})

	// Not yet expired: expiresAt == now is expired per the <= rule, so
	// 99 must still be valid and 100 must not.
	_, ok := s.GetRaw("a", 99)
	require.True(t, ok)

	_, ok = s.GetRaw("a", 100)
	require.False(t, ok, "an item whose expiresAt equals now is expired")
}

func TestStoreEvictsLeastRecentlyUsedOnCapacity(t *testing.T) {
	s := NewStore(2)
	s.Put("a", &Item{value: []byte("1")})
	s.Put("b", &Item{value: []byte("2")})

	// Touch "a" so "b" becomes the least recently used.
	_, _ = s.GetRaw("a", 0)

	s.Put("c", &Item{value: []byte("3")})

	_, ok := s.GetRaw("b", 0)
	require.False(t, ok, "b should have been evicted as LRU")

	_, ok = s.GetRaw("a", 0)
	require.True(t, ok)

	_, ok = s.GetRaw("c", 0)
	require.True(t, ok)

	require.Equal(t, 2, s.Len())
}

func TestStoreCapacityNeverExceeded(t *testing.T) {
	const capacity = 5
	s := NewStore(capacity)

	for i := 0; i < 50; i++ {
		s.Put(fmt.Sprintf("key-%d", i), &Item{value: []byte("v")})
	}

	require.LessOrEqual(t, s.Len(), capacity)

	// The surviving entries must be exactly the most-recently-touched
	// ones: the last `capacity` keys inserted, since none were re-read.
	for i := 50 - capacity; i < 50; i++ {
		_, ok := s.GetRaw(fmt.Sprintf("key-%d", i), 0)
		require.True(t, ok, "key-%d should still be present", i)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(10)
	require.False(t, s.Remove("missing", 0))

	s.Put("a", &Item{value: []byte("1")})
	require.True(t, s.Remove("a", 0))
	require.False(t, s.Remove("a", 0))

	_, ok := s.GetRaw("a", 0)
	require.False(t, ok)
}

func TestStoreRemoveExpiredReportsFalse(t *testing.T) {
	s := NewStore(10)
	s.Put("a", &Item{value: []byte("1"), expiresAt: 5})
	require.False(t, s.Remove("a", 10), "removing an already-expired entry is not a real delete")
}

func TestStoreClear(t *testing.T) {
	s := NewStore(10)
	s.Put("a", &Item{value: []byte("1")})
	s.Put("b", &Item{value: []byte("2")})

	s.Clear()

	require.Equal(t, 0, s.Len())
	_, ok := s.GetRaw("a", 0)
	require.False(t, ok)
}

func TestStoreContainsValidDoesNotTouchLRU(t *testing.T) {
	s := NewStore(2)
	s.Put("a", &Item{value: []byte("1")})
	s.Put("b", &Item{value: []byte("2")})

	require.True(t, s.ContainsValid("a", 0))

	// "a" was checked via ContainsValid, not GetRaw, so it should not be
	// promoted to most-recently-used: inserting "c" should still evict
	// "a" as the least recently used.
	s.Put("c", &Item{value: []byte("3")})

	_, ok := s.GetRaw("a", 0)
	require.False(t, ok)
}
