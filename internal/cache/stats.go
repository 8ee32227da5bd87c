package cache

// Stats tracks the three counters the protocol's stats command reports.
// It is only ever mutated from the Engine layer: add/replace/append/
// prepend/incr/decr touch the Store but must not bump Sets, so the
// "cmd_set" reported by stats reflects the protocol's cmd_set semantic,
// not every mutation.
type Stats struct {
	GetHits   uint64
	GetMisses uint64
	Sets      uint64
}

// Snapshot is an immutable point-in-time copy of Stats, safe to read
// without holding the Engine's lock.
type Snapshot struct {
	GetHits   uint64
	GetMisses uint64
	Sets      uint64
}

// CmdGet is the derived "cmd_get" counter the stats wire reply uses:
// every get() call regardless of hit or miss.
func (s Snapshot) CmdGet() uint64 {
	return s.GetHits + s.GetMisses
}
