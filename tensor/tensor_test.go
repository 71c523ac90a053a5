package tensor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/shape"
)

func TestNewContiguousStrides(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3)
	tn, err := New(s, dtype.I32)
	require.NoError(t, err)
	require.Equal(t, []int64{12, 4}, tn.Strides())
	require.True(t, tn.IsContiguous())
	require.True(t, tn.OwnsData())
	require.Len(t, tn.Data(), 24)
}

func TestSliceWithNonZeroStart(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3)
	tn, err := Borrow(s, dtype.I32, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23})
	require.NoError(t, err)

	view, err := tn.Slice([]AxisRange{{Start: 0, End: 2}, {Start: 1, End: 3}})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 2}, view.Shape().Dims())
	require.Equal(t, []int64{12, 4}, view.Strides())
	require.False(t, view.IsContiguous())
	require.Equal(t, tn.Data()[4], view.Data()[0])
}

func TestReshapeRequiresContiguous(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)

	reshaped, err := tn.Reshape(shape.MustNew(3, 2))
	require.NoError(t, err)
	require.True(t, reshaped.IsContiguous())

	tn.Data()[0] = 0x7F
	require.Equal(t, byte(0x7F), reshaped.Data()[0], "reshape shares the parent's backing data")
}

func TestReshapeRejectsNonContiguous(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)
	view, err := tn.Slice([]AxisRange{{Start: 0, End: 2}, {Start: 0, End: 2}})
	require.NoError(t, err)

	_, err = view.Reshape(shape.MustNew(4))
	require.Error(t, err)
}

func TestTransposePermutesStrides(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3, 4)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)

	transposed, err := tn.Transpose([]int{2, 0, 1})
	require.NoError(t, err)
	orig := tn.Strides()
	got := transposed.Strides()
	require.Equal(t, orig[2], got[0])
	require.Equal(t, orig[0], got[1])
	require.Equal(t, orig[1], got[2])
}

func TestTransposeRejectsInvalidPermutation(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2, 3)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)

	_, err = tn.Transpose([]int{0, 0})
	require.Error(t, err)
}

func TestCloneDeepCopies(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)
	copy(tn.Data(), []byte{1, 2, 3, 4})

	clone, err := tn.Clone(nil)
	require.NoError(t, err)
	require.Equal(t, tn.Data(), clone.Data())
	clone.Data()[0] = 0xFF
	require.NotEqual(t, tn.Data()[0], clone.Data()[0])
}

func TestValidateRejectsUnknownDType(t *testing.T) {
	t.Parallel()
	tn := &Tensor{shape: shape.MustNew(1), dt: dtype.Unknown}
	require.Error(t, tn.Validate())
}

func TestValidateQuantizedRequiresPositiveScale(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2)
	tn, err := New(s, dtype.I8)
	require.NoError(t, err)
	tn.SetQuantParams(&QuantParams{Scale: 0})
	require.Error(t, tn.Validate())

	tn.SetQuantParams(&QuantParams{Scale: 0.5})
	require.NoError(t, tn.Validate())
}

func TestFloat32TypedAccessor(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(2)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)
	f := tn.Float32()
	require.Len(t, f, 2)
	f[0] = 3.5
	require.Equal(t, float32(3.5), tn.Float32()[0])
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()
	s := shape.MustNew(4)
	tn, err := New(s, dtype.F32)
	require.NoError(t, err)
	tn.Release()
	require.False(t, tn.OwnsData())
	require.NotPanics(t, func() { tn.Release() })
}
