package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestNewNormalizesAlignment(t *testing.T) {
	t.Parallel()
	a := New(1024, 3) // not a power of two
	require.True(t, isPowerOfTwo(a.baseAlignment))
	require.GreaterOrEqual(t, a.baseAlignment, uintptr(minAlignment))
}

func TestNewZeroCapacity(t *testing.T) {
	t.Parallel()
	a := New(0, 64)
	require.Equal(t, uintptr(0), a.Capacity())
	_, err := a.Allocate(1, 0)
	require.Error(t, err)
}

func TestAllocateAlignment(t *testing.T) {
	t.Parallel()
	a := New(1024, 8)
	buf, err := a.Allocate(1, 64)
	require.NoError(t, err)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	require.Zero(t, addr%64)
}

func TestAllocateNonPowerOfTwoAlignmentFails(t *testing.T) {
	t.Parallel()
	a := New(1024, 8)
	usedBefore := a.Used()
	_, err := a.Allocate(8, 3)
	require.Error(t, err)
	require.Equal(t, usedBefore, a.Used())
}

func TestAllocateExhaustion(t *testing.T) {
	t.Parallel()
	a := New(16, 8)
	usedBefore := a.Used()
	_, err := a.Allocate(17, 0)
	require.Error(t, err)
	require.Equal(t, usedBefore, a.Used())

	_, err = a.Allocate(16, 0)
	require.NoError(t, err)
	require.Equal(t, uintptr(16), a.Used())

	_, err = a.Allocate(1, 0)
	require.Error(t, err, "arena is now full")
}

func TestAllocateTracksStats(t *testing.T) {
	t.Parallel()
	a := New(1024, 8)
	var total uintptr
	for _, size := range []uintptr{8, 16, 32} {
		_, err := a.Allocate(size, 8)
		require.NoError(t, err)
		total += size
	}
	require.GreaterOrEqual(t, a.Used(), total)
	require.GreaterOrEqual(t, a.Stats().PeakUsedBytes, a.Used())
	require.Equal(t, int64(3), a.Stats().Allocations)
}

func TestReset(t *testing.T) {
	t.Parallel()
	a := New(1024, 8)
	_, err := a.Allocate(100, 8)
	require.NoError(t, err)
	require.NotZero(t, a.Used())

	a.Reset()
	require.Zero(t, a.Used())
	require.Zero(t, a.Stats().Allocations)
	require.Zero(t, a.Stats().PeakUsedBytes)
}

func TestOwns(t *testing.T) {
	t.Parallel()
	a := New(1024, 8)
	buf, err := a.Allocate(32, 8)
	require.NoError(t, err)
	require.True(t, a.Owns(buf))

	other := New(1024, 8)
	otherBuf, err := other.Allocate(32, 8)
	require.NoError(t, err)
	require.False(t, a.Owns(otherBuf))
}

func TestFailedAllocationDoesNotAdvanceUsed(t *testing.T) {
	t.Parallel()
	a := New(64, 8)
	_, err := a.Allocate(32, 8)
	require.NoError(t, err)
	used := a.Used()

	_, err = a.Allocate(1000, 8)
	require.Error(t, err)
	require.Equal(t, used, a.Used())
}
