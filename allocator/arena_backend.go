package allocator

import (
	"sync"

	"github.com/sbl8/tensorgraph/arena"
	"github.com/sbl8/tensorgraph/memalign"
)

// ArenaAllocator adapts an arena.Arena to the Allocator interface. It
// inherits the arena's no-individual-free property: Deallocate is a
// no-op and Reallocate always allocates fresh and copies. Tracking
// records live-allocation bookkeeping only; it cannot reclaim arena
// space early, since the arena itself has no concept of freeing a
// single allocation.
type ArenaAllocator struct {
	arena *arena.Arena

	mu    sync.Mutex
	track bool
	live  map[uintptr]int
	stats Stats
}

// NewArenaAllocator wraps an existing arena.Arena. The arena's lifetime
// is managed by the caller; ArenaAllocator never replaces or resizes it.
func NewArenaAllocator(a *arena.Arena) *ArenaAllocator {
	return &ArenaAllocator{arena: a}
}

// EnableTracking turns on live-allocation bookkeeping.
func (a *ArenaAllocator) EnableTracking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.track = true
	if a.live == nil {
		a.live = make(map[uintptr]int)
	}
}

// TrackingEnabled reports whether tracking is currently on.
func (a *ArenaAllocator) TrackingEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.track
}

// Alignment returns the backing arena's default alignment.
func (a *ArenaAllocator) Alignment() int { return int(a.arena.BaseAlignment()) }

// Allocate bump-allocates size bytes at the arena's default alignment.
func (a *ArenaAllocator) Allocate(size int) []byte {
	return a.AllocateAligned(size, 0)
}

// AllocateAligned bump-allocates size bytes aligned to alignment.
// Returns nil if size is non-positive or the arena is exhausted.
func (a *ArenaAllocator) AllocateAligned(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	buf, err := a.arena.Allocate(uintptr(size), uintptr(alignment))
	if err != nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.track {
		a.stats.Allocations++
		a.stats.BytesAllocated += int64(size)
		a.live[memalign.Addr(buf)] = size
		a.stats.LiveAllocations++
		a.stats.LiveBytes += int64(size)
		if a.stats.LiveBytes > a.stats.PeakLiveBytes {
			a.stats.PeakLiveBytes = a.stats.LiveBytes
		}
	}
	return buf
}

// Deallocate is a no-op: individual allocations within an arena cannot
// be reclaimed. When tracking is enabled it still updates the live set
// so balanced allocate/deallocate pairs report zero live bytes, even
// though the underlying memory is only reclaimed on Reset.
func (a *ArenaAllocator) Deallocate(ptr []byte) {
	if len(ptr) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.track {
		return
	}
	a.stats.Frees++
	a.stats.BytesFreed += int64(len(ptr))
	addr := memalign.Addr(ptr)
	size, ok := a.live[addr]
	if !ok {
		return
	}
	delete(a.live, addr)
	a.stats.LiveAllocations--
	a.stats.LiveBytes -= int64(size)
}

// Reallocate allocates newSize fresh bytes and copies the overlapping
// prefix of ptr; the old allocation is marked deallocated but its arena
// space is not reclaimed until Reset.
func (a *ArenaAllocator) Reallocate(ptr []byte, newSize int) []byte {
	if newSize <= 0 {
		a.Deallocate(ptr)
		return nil
	}
	next := a.Allocate(newSize)
	if next == nil {
		return nil
	}
	copy(next, ptr)
	a.Deallocate(ptr)
	return next
}

// Owns reports whether ptr's address falls within the backing arena's
// buffer. With tracking enabled it additionally requires ptr to still be
// live.
func (a *ArenaAllocator) Owns(ptr []byte) bool {
	if !a.arena.Owns(ptr) {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.track {
		return true
	}
	_, ok := a.live[memalign.Addr(ptr)]
	return ok
}

// Stats returns a snapshot of cumulative and live allocation counters.
func (a *ArenaAllocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// ResetStats zeroes all counters and, with tracking enabled, clears the
// live set. It does not reset the underlying arena; call the arena's own
// Reset, or this allocator's Reset, to reclaim memory.
func (a *ArenaAllocator) ResetStats() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats = Stats{}
	if a.track {
		a.live = make(map[uintptr]int)
	}
}

// Reset reclaims the backing arena and clears the live set, leaving
// cumulative counters (Allocations, Frees, BytesAllocated, BytesFreed)
// untouched. Use ResetStats to zero those as well.
func (a *ArenaAllocator) Reset() {
	a.arena.Reset()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.track {
		a.live = make(map[uintptr]int)
	}
	a.stats.LiveAllocations = 0
	a.stats.LiveBytes = 0
	a.stats.PeakLiveBytes = 0
}

var (
	_ Allocator = (*ArenaAllocator)(nil)
	_ Tracked   = (*ArenaAllocator)(nil)
)
