package allocator

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/tensorgraph/arena"
)

func TestSystemAllocatorBasic(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	buf := a.Allocate(64)
	require.Len(t, buf, 64)
	require.True(t, a.Owns(buf), "untracked Owns reports true for any non-empty slice")
}

func TestSystemAllocatorAlignedAllocation(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	buf := a.AllocateAligned(1, 64)
	require.Zero(t, addrMod(buf, 64))
}

func TestSystemAllocatorTrackingBalancedPairs(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	a.EnableTracking()

	var bufs [][]byte
	for i := 0; i < 5; i++ {
		bufs = append(bufs, a.Allocate(32))
	}
	require.Equal(t, int64(5), a.Stats().LiveAllocations)

	for _, b := range bufs {
		a.Deallocate(b)
	}
	stats := a.Stats()
	require.Zero(t, stats.LiveAllocations)
	require.Zero(t, stats.LiveBytes)
}

func TestSystemAllocatorTrackingRejectsForeignPointer(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	a.EnableTracking()
	foreign := make([]byte, 16)
	require.False(t, a.Owns(foreign))
}

func TestSystemAllocatorReallocatePreservesPrefix(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	buf := a.Allocate(4)
	copy(buf, []byte{1, 2, 3, 4})
	grown := a.Reallocate(buf, 8)
	require.Equal(t, []byte{1, 2, 3, 4}, grown[:4])
}

func TestSystemAllocatorResetStats(t *testing.T) {
	t.Parallel()
	a := NewSystemAllocator(8)
	a.EnableTracking()
	a.Allocate(16)
	a.ResetStats()
	require.Zero(t, a.Stats().Allocations)
	require.Zero(t, a.Stats().LiveAllocations)
}

func TestArenaAllocatorDeallocateIsNoopOnArena(t *testing.T) {
	t.Parallel()
	ar := arena.New(1024, 8)
	a := NewArenaAllocator(ar)
	a.EnableTracking()

	buf := a.Allocate(64)
	require.NotNil(t, buf)
	usedBefore := ar.Used()

	a.Deallocate(buf)
	require.Equal(t, usedBefore, ar.Used(), "arena space is only reclaimed on Reset")
	require.Zero(t, a.Stats().LiveAllocations)
}

func TestArenaAllocatorOwnsRespectsTracking(t *testing.T) {
	t.Parallel()
	ar := arena.New(1024, 8)
	a := NewArenaAllocator(ar)
	a.EnableTracking()

	buf := a.Allocate(32)
	require.True(t, a.Owns(buf))
	a.Deallocate(buf)
	require.False(t, a.Owns(buf))
}

func TestArenaAllocatorExhaustionReturnsNil(t *testing.T) {
	t.Parallel()
	ar := arena.New(16, 8)
	a := NewArenaAllocator(ar)
	require.Nil(t, a.Allocate(17))
}

func TestArenaAllocatorResetReclaimsArenaAndClearsLiveSet(t *testing.T) {
	t.Parallel()
	ar := arena.New(1024, 8)
	a := NewArenaAllocator(ar)
	a.EnableTracking()

	buf := a.Allocate(64)
	require.NotNil(t, buf)
	statsBefore := a.Stats()

	a.Reset()

	require.Zero(t, ar.Used(), "Reset reclaims the underlying arena")
	stats := a.Stats()
	require.Zero(t, stats.LiveAllocations)
	require.Zero(t, stats.LiveBytes)
	require.Equal(t, statsBefore.Allocations, stats.Allocations, "Reset preserves cumulative counters")
	require.False(t, a.Owns(buf), "buffer from before Reset is no longer tracked as live")
}

func TestArenaAllocatorOwnsRejectsOtherArena(t *testing.T) {
	t.Parallel()
	ar1 := arena.New(1024, 8)
	ar2 := arena.New(1024, 8)
	a1 := NewArenaAllocator(ar1)

	buf2, err := ar2.Allocate(32, 8)
	require.NoError(t, err)
	require.False(t, a1.Owns(buf2))
}

func addrMod(b []byte, align uintptr) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0])) % align
}
