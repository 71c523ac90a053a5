// Package buffer implements owned or borrowed raw memory with alignment
// and an optional canary guard against out-of-bounds writes. It is the
// storage type Tensor allocates when it needs its own backing memory
// rather than aliasing another Tensor's.
package buffer

import (
	"encoding/binary"

	"github.com/sbl8/tensorgraph/allocator"
	"github.com/sbl8/tensorgraph/memalign"
	"github.com/sbl8/tensorgraph/xerr"
)

// canaryMarker is written before and after the user region when canary
// guarding is enabled. A read back of anything else means something
// wrote past the user region's bounds.
const canaryMarker uint32 = 0xDEADBEEF

const canaryWidth = 4

// Buffer is owned or borrowed raw memory. basePtr is the true start of
// the backing allocation; dataPtr is the user-visible region, offset
// past the leading canary word when useCanary is set.
type Buffer struct {
	basePtr   []byte
	dataPtr   []byte
	size      int
	alignment int
	owns      bool
	useCanary bool

	alloc allocator.Allocator
}

// Allocate reserves size bytes aligned to alignment. If alloc is nil,
// platform-aligned heap memory is used directly (memalign.AlignedBytes)
// instead of going through an Allocator. When useCanary is set, the true
// allocation is size+8 bytes: a 4-byte marker before data_ptr and a
// 4-byte marker immediately after the user region.
func Allocate(size, alignment int, alloc allocator.Allocator, useCanary bool) (*Buffer, error) {
	if size < 0 {
		return nil, xerr.New(xerr.InvalidArgument, "buffer.Allocate", "size must be non-negative")
	}
	align := int(memalign.Normalize(uintptr(alignment)))

	total := size
	if useCanary {
		total += 2 * canaryWidth
	}

	var base []byte
	if alloc != nil {
		base = alloc.AllocateAligned(total, align)
	} else {
		base = memalign.AlignedBytes(uintptr(total), uintptr(align))
	}
	if base == nil && total > 0 {
		return nil, xerr.New(xerr.OutOfMemory, "buffer.Allocate", "allocation failed")
	}

	b := &Buffer{
		basePtr:   base,
		size:      size,
		alignment: align,
		owns:      true,
		useCanary: useCanary,
		alloc:     alloc,
	}

	if useCanary && total > 0 {
		binary.LittleEndian.PutUint32(base[0:canaryWidth], canaryMarker)
		binary.LittleEndian.PutUint32(base[canaryWidth+size:canaryWidth+size+canaryWidth], canaryMarker)
		b.dataPtr = base[canaryWidth : canaryWidth+size : canaryWidth+size]
	} else {
		b.dataPtr = base
	}
	return b, nil
}

// Borrow wraps externally-owned memory without taking ownership of it;
// Deallocate becomes a no-op and canary guarding is unavailable, since
// there is no room to place markers around data the caller already sized
// exactly.
func Borrow(data []byte) *Buffer {
	return &Buffer{
		basePtr: data,
		dataPtr: data,
		size:    len(data),
		owns:    false,
	}
}

// Data returns the user-visible region.
func (b *Buffer) Data() []byte { return b.dataPtr }

// Size returns the length of the user-visible region.
func (b *Buffer) Size() int { return b.size }

// Alignment returns the alignment the buffer was allocated with.
func (b *Buffer) Alignment() int { return b.alignment }

// Owns reports whether this Buffer is responsible for releasing its
// memory.
func (b *Buffer) Owns() bool { return b.owns }

// UsesCanary reports whether canary guarding is active.
func (b *Buffer) UsesCanary() bool { return b.useCanary }

// ValidateCanary reports true if canary guarding is disabled, or if both
// markers still read the fixed sentinel value. A false return means
// something wrote outside the user region.
func (b *Buffer) ValidateCanary() bool {
	if !b.useCanary {
		return true
	}
	if len(b.basePtr) < canaryWidth+b.size+canaryWidth {
		return false
	}
	prefix := binary.LittleEndian.Uint32(b.basePtr[0:canaryWidth])
	suffix := binary.LittleEndian.Uint32(b.basePtr[canaryWidth+b.size : canaryWidth+b.size+canaryWidth])
	return prefix == canaryMarker && suffix == canaryMarker
}

// Deallocate releases the backing memory if this Buffer owns it. Canary
// markers are wiped to zero first so a dangling read never observes a
// stale sentinel as still-valid. Safe to call more than once.
func (b *Buffer) Deallocate() {
	if !b.owns || b.basePtr == nil {
		return
	}
	if b.useCanary {
		for i := range b.basePtr {
			b.basePtr[i] = 0
		}
	}
	if b.alloc != nil {
		b.alloc.Deallocate(b.basePtr)
	}
	b.basePtr = nil
	b.dataPtr = nil
	b.owns = false
}

// Move transfers ownership of b's storage to a new Buffer and leaves b
// empty and non-owning, matching the move-from semantics spec for
// Tensor/Buffer drop paths.
func (b *Buffer) Move() *Buffer {
	moved := &Buffer{
		basePtr:   b.basePtr,
		dataPtr:   b.dataPtr,
		size:      b.size,
		alignment: b.alignment,
		owns:      b.owns,
		useCanary: b.useCanary,
		alloc:     b.alloc,
	}
	b.basePtr = nil
	b.dataPtr = nil
	b.size = 0
	b.owns = false
	b.alloc = nil
	return moved
}

// Clone allocates a fresh owning Buffer with the same size, alignment,
// and canary setting as b, and copies its user-visible bytes into it.
func (b *Buffer) Clone(alloc allocator.Allocator) (*Buffer, error) {
	clone, err := Allocate(b.size, b.alignment, alloc, b.useCanary)
	if err != nil {
		return nil, err
	}
	copy(clone.dataPtr, b.dataPtr)
	return clone, nil
}
