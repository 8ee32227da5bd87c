package cache

// Item is a single cache entry: an opaque value plus an optional absolute
// expiration. ExpiresAt == 0 means the item never expires. The key is
// kept alongside the value (redundant with the Store's map key) purely so
// the LRU list element can report it without a map lookup.
type Item struct {
	key       string
	value     []byte
	expiresAt int64 // absolute Unix seconds; 0 means no expiration
}

// Expired reports whether the item is expired as of now. An item whose
// ExpiresAt exactly equals now is considered expired (the boundary uses
// <=, not <).
func (it *Item) Expired(now int64) bool {
	return it.expiresAt != 0 && it.expiresAt <= now
}
