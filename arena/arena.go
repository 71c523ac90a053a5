// Package arena implements a bump allocator over a single pre-allocated,
// aligned buffer. It is the lowest-level memory primitive in the runtime:
// allocation only ever advances a used-bytes counter, and the only way to
// free anything is to Reset the whole arena at once.
//
// An Arena is not internally synchronized — callers serialize access
// themselves, consistent with the single-threaded cooperative model the
// rest of this runtime assumes.
package arena

import (
	"fmt"

	"github.com/sbl8/tensorgraph/memalign"
	"github.com/sbl8/tensorgraph/xerr"
)

// Stats tracks cumulative allocator activity. Reset zeroes it.
type Stats struct {
	Allocations   int64
	PeakUsedBytes uintptr
}

// Arena is a bump allocator backed by a single buffer allocated at
// construction time.
type Arena struct {
	buffer        []byte
	capacity      uintptr
	used          uintptr
	baseAlignment uintptr
	stats         Stats
}

// New allocates a buffer of the given capacity aligned to baseAlignment.
// baseAlignment is normalized to the next power of two, with a floor of
// the platform pointer size; capacity 0 yields an empty but valid Arena.
func New(capacity uintptr, baseAlignment uintptr) *Arena {
	align := memalign.Normalize(baseAlignment)

	a := &Arena{
		capacity:      capacity,
		baseAlignment: align,
	}
	if capacity == 0 {
		return a
	}
	a.buffer = memalign.AlignedBytes(capacity, align)
	return a
}

// Capacity returns the total size of the backing buffer.
func (a *Arena) Capacity() uintptr { return a.capacity }

// Used returns the number of bytes currently bump-allocated.
func (a *Arena) Used() uintptr { return a.used }

// Stats returns a copy of the arena's cumulative statistics.
func (a *Arena) Stats() Stats { return a.stats }

// BaseAlignment returns the normalized default alignment the arena uses
// when Allocate is called with alignment 0.
func (a *Arena) BaseAlignment() uintptr { return a.baseAlignment }

// Allocate bump-allocates size bytes aligned to alignment (0 means the
// arena's default). Returns nil, non-nil error on a non-power-of-two
// alignment or on exhaustion; a failed allocation never advances Used.
func (a *Arena) Allocate(size uintptr, alignment uintptr) ([]byte, error) {
	align := alignment
	if align == 0 {
		align = a.baseAlignment
	}
	if !memalign.IsPowerOfTwo(align) {
		return nil, xerr.New(xerr.InvalidArgument, "arena.Allocate", fmt.Sprintf("alignment %d is not a power of two", align))
	}

	baseAddr := memalign.Addr(a.buffer)
	alignedAbs := memalign.AlignUp(baseAddr+a.used, align)
	alignedOffset := alignedAbs - baseAddr
	if alignedOffset > a.capacity || size > a.capacity-alignedOffset {
		return nil, xerr.New(xerr.OutOfMemory, "arena.Allocate", fmt.Sprintf("requested %d bytes at aligned offset %d exceeds capacity %d", size, alignedOffset, a.capacity))
	}

	a.used = alignedOffset + size
	a.stats.Allocations++
	if a.used > a.stats.PeakUsedBytes {
		a.stats.PeakUsedBytes = a.used
	}
	return a.buffer[alignedOffset : alignedOffset+size : alignedOffset+size], nil
}

// Reset zeroes Used and Stats without releasing the backing buffer.
func (a *Arena) Reset() {
	a.used = 0
	a.stats = Stats{}
}

// Owns reports whether ptr's address lies within [base, base+capacity).
// It says nothing about whether the memory at ptr is still live.
func (a *Arena) Owns(ptr []byte) bool {
	if len(a.buffer) == 0 || len(ptr) == 0 {
		return false
	}
	base := memalign.Addr(a.buffer)
	p := memalign.Addr(ptr)
	return p >= base && p < base+a.capacity
}
