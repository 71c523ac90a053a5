// Package allocator defines the pluggable allocate/deallocate/reallocate
// contract used by Buffer and Tensor construction, plus two concrete
// backends: SystemAllocator (platform-aligned heap memory) and
// ArenaAllocator (bump allocation over an arena.Arena). Allocation
// tracking is optional on both backends and, when enabled, is the one
// part of this package that is safe to call concurrently — it protects
// its bookkeeping with a mutex rather than making the whole backend safe
// for concurrent use.
package allocator

// Allocator is the abstract capability set every backend implements.
type Allocator interface {
	// Allocate returns size bytes at the allocator's default alignment, or
	// nil if the request cannot be satisfied.
	Allocate(size int) []byte
	// AllocateAligned returns size bytes aligned to alignment, or nil.
	AllocateAligned(size, alignment int) []byte
	// Deallocate releases ptr. A nil ptr is a no-op.
	Deallocate(ptr []byte)
	// Reallocate resizes ptr to newSize, preserving the overlapping
	// prefix. Returns nil if the request cannot be satisfied.
	Reallocate(ptr []byte, newSize int) []byte
	// Alignment returns the allocator's default alignment.
	Alignment() int
	// Owns reports whether ptr was produced by this allocator. Backends
	// without tracking enabled may over-report (see SystemAllocator.Owns).
	Owns(ptr []byte) bool
}

// Stats reports cumulative and live allocation bookkeeping. Zero value
// when tracking is disabled.
type Stats struct {
	Allocations     int64
	Frees           int64
	BytesAllocated  int64
	BytesFreed      int64
	LiveAllocations int64
	LiveBytes       int64
	PeakLiveBytes   int64
}

// Tracked is implemented by backends that support optional allocation
// tracking.
type Tracked interface {
	Stats() Stats
	ResetStats()
	TrackingEnabled() bool
}
