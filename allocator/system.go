package allocator

import (
	"sync"

	"github.com/sbl8/tensorgraph/memalign"
)

// SystemAllocator allocates directly from the Go heap, rounding every
// request up to an aligned, individually-sized buffer. Tracking is off
// by default; enabling it records every live allocation in a map guarded
// by a mutex.
type SystemAllocator struct {
	alignment int

	mu    sync.Mutex
	track bool
	live  map[uintptr]int
	stats Stats
}

// NewSystemAllocator builds a SystemAllocator with the given default
// alignment (normalized to a power of two, floor pointer size).
// Tracking starts disabled; call EnableTracking to turn it on.
func NewSystemAllocator(alignment int) *SystemAllocator {
	return &SystemAllocator{
		alignment: int(memalign.Normalize(uintptr(alignment))),
	}
}

// EnableTracking turns on live-allocation bookkeeping. Safe to call at
// any time; existing untracked allocations are simply invisible to Owns
// and Stats from that point.
func (s *SystemAllocator) EnableTracking() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = true
	if s.live == nil {
		s.live = make(map[uintptr]int)
	}
}

// TrackingEnabled reports whether tracking is currently on.
func (s *SystemAllocator) TrackingEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track
}

// Alignment returns the allocator's default alignment in bytes.
func (s *SystemAllocator) Alignment() int { return s.alignment }

// Allocate returns size bytes aligned to the allocator's default.
func (s *SystemAllocator) Allocate(size int) []byte {
	return s.AllocateAligned(size, s.alignment)
}

// AllocateAligned returns size bytes aligned to alignment (normalized to
// a power of two, floor pointer size), or nil for a non-positive size.
func (s *SystemAllocator) AllocateAligned(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	align := memalign.Normalize(uintptr(alignment))
	buf := memalign.AlignedBytes(uintptr(size), align)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordAllocateLocked(buf, size)
	return buf
}

func (s *SystemAllocator) recordAllocateLocked(buf []byte, size int) {
	if !s.track {
		return
	}
	s.stats.Allocations++
	s.stats.BytesAllocated += int64(size)
	s.live[memalign.Addr(buf)] = size
	s.stats.LiveAllocations++
	s.stats.LiveBytes += int64(size)
	if s.stats.LiveBytes > s.stats.PeakLiveBytes {
		s.stats.PeakLiveBytes = s.stats.LiveBytes
	}
}

// Deallocate releases ptr. When tracking is enabled and ptr is not a
// live allocation of this allocator, Deallocate is a no-op.
func (s *SystemAllocator) Deallocate(ptr []byte) {
	if len(ptr) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.track {
		return
	}
	addr := memalign.Addr(ptr)
	size, ok := s.live[addr]
	if !ok {
		return
	}
	delete(s.live, addr)
	s.stats.Frees++
	s.stats.BytesFreed += int64(size)
	s.stats.LiveAllocations--
	s.stats.LiveBytes -= int64(size)
}

// Reallocate resizes ptr to newSize, copying the overlapping prefix.
// A nil ptr behaves like Allocate; a non-positive newSize deallocates
// ptr and returns nil.
func (s *SystemAllocator) Reallocate(ptr []byte, newSize int) []byte {
	if newSize <= 0 {
		s.Deallocate(ptr)
		return nil
	}
	next := s.Allocate(newSize)
	n := copy(next, ptr)
	_ = n
	s.Deallocate(ptr)
	return next
}

// Owns reports whether ptr is a live allocation of this allocator. With
// tracking disabled it reports true for any non-empty slice; without a
// live set there is no way to check provenance more precisely.
func (s *SystemAllocator) Owns(ptr []byte) bool {
	if len(ptr) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.track {
		return true
	}
	_, ok := s.live[memalign.Addr(ptr)]
	return ok
}

// Stats returns a snapshot of cumulative and live allocation counters.
func (s *SystemAllocator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes all counters. With tracking enabled, the live map is
// cleared as well — callers are expected to call this only when they
// know no allocation from this allocator is still in use.
func (s *SystemAllocator) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = Stats{}
	if s.track {
		s.live = make(map[uintptr]int)
	}
}

var (
	_ Allocator = (*SystemAllocator)(nil)
	_ Tracked   = (*SystemAllocator)(nil)
)
