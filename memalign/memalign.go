// Package memalign collects the small alignment-arithmetic helpers shared
// by arena, allocator, buffer, and tensor so that power-of-two rounding
// and pointer-to-uintptr conversion live in exactly one place.
package memalign

import "unsafe"

// PointerSize is the size of a machine pointer on this platform, used as
// the minimum alignment floor throughout the runtime.
const PointerSize = unsafe.Sizeof(uintptr(0))

// IsPowerOfTwo reports whether v is a power of two (0 is not).
func IsPowerOfTwo(v uintptr) bool {
	return v != 0 && v&(v-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= v.
func NextPowerOfTwo(v uintptr) uintptr {
	if v == 0 {
		return 1
	}
	p := uintptr(1)
	for p < v {
		p <<= 1
	}
	return p
}

// Normalize rounds requested up to a power of two with a floor of
// PointerSize, the rule applied to every user-supplied alignment
// throughout the runtime.
func Normalize(requested uintptr) uintptr {
	align := requested
	if align < PointerSize {
		align = PointerSize
	}
	if !IsPowerOfTwo(align) {
		align = NextPowerOfTwo(align)
	}
	return align
}

// AlignUp rounds offset up to the next multiple of align (align must be a
// power of two).
func AlignUp(offset, align uintptr) uintptr {
	return (offset + align - 1) &^ (align - 1)
}

// Addr returns the address of b's first byte, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// AlignedBytes allocates size bytes whose backing array's first byte is
// aligned to align: over-allocate by align-1 bytes, then slice to the
// aligned offset.
func AlignedBytes(size, align uintptr) []byte {
	if size == 0 {
		return nil
	}
	buf := make([]byte, size+align-1)
	ptr := Addr(buf)
	offset := uintptr(0)
	if mod := ptr % align; mod != 0 {
		offset = align - mod
	}
	return buf[offset : offset+size : offset+size]
}
