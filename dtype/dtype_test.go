package dtype

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		d    DType
		want int
	}{
		{"unknown", Unknown, 0},
		{"f32", F32, 4},
		{"f16", F16, 2},
		{"i8", I8, 1},
		{"i16", I16, 2},
		{"i32", I32, 4},
		{"i64", I64, 8},
		{"u8", U8, 1},
		{"u16", U16, 2},
		{"u32", U32, 4},
		{"u64", U64, 8},
		{"bool", Bool, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ByteSize(tt.d))
			require.Equal(t, tt.want, tt.d.ByteSize())
		})
	}
}

func TestPredicates(t *testing.T) {
	t.Parallel()
	require.True(t, IsFloating(F32))
	require.True(t, IsFloating(F16))
	require.False(t, IsFloating(I32))

	require.True(t, IsInteger(I8))
	require.True(t, IsInteger(U64))
	require.False(t, IsInteger(Bool))

	require.True(t, IsSigned(I32))
	require.False(t, IsSigned(U32))

	require.True(t, IsUnsigned(U8))
	require.False(t, IsUnsigned(I8))

	require.True(t, IsBool(Bool))
	require.False(t, IsBool(I8))

	require.True(t, IsQuantized(I8))
	require.True(t, IsQuantized(U8))
	require.False(t, IsQuantized(I32))
	require.False(t, IsQuantized(Unknown))
}

func TestPromote(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b DType
		want DType
	}{
		{"f32 beats everything", F32, I64, F32},
		{"f16 beats i64", F16, I64, F16},
		{"i64 beats u64", I64, U64, I64},
		{"symmetric", U16, I16, I16},
		{"unknown absorbs", Unknown, F32, Unknown},
		{"unknown absorbs reversed", F32, Unknown, Unknown},
		{"bool is lowest", Bool, U8, U8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Promote(tt.a, tt.b))
		})
	}
}

func TestCanCast(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		from, to DType
		want     bool
	}{
		{"identity", F32, F32, true},
		{"float to float", F32, F16, true},
		{"int to int", I32, U8, true},
		{"float to int", F32, I32, true},
		{"int to float", I32, F32, true},
		{"bool to any", Bool, F32, true},
		{"any to bool", I32, Bool, true},
		{"unknown never castable", Unknown, F32, false},
		{"never to unknown", F32, Unknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanCast(tt.from, tt.to))
		})
	}
}

func TestQuantizeSymmetricI8(t *testing.T) {
	t.Parallel()
	q, err := QuantizeSymmetricI8(0.7, 0.5)
	require.NoError(t, err)
	require.Equal(t, int8(1), q)

	require.InDelta(t, 0.5, DequantizeSymmetricI8(1, 0.5), 1e-6)

	_, err = QuantizeSymmetricI8(1.0, 0)
	require.Error(t, err)

	clamped, err := QuantizeSymmetricI8(1000, 0.5)
	require.NoError(t, err)
	require.Equal(t, int8(127), clamped)

	clampedNeg, err := QuantizeSymmetricI8(-1000, 0.5)
	require.NoError(t, err)
	require.Equal(t, int8(-128), clampedNeg)
}

func TestQuantizeAsymmetricU8(t *testing.T) {
	t.Parallel()
	q, err := QuantizeAsymmetricU8(10, 1.0, 5)
	require.NoError(t, err)
	require.Equal(t, uint8(15), q)

	require.InDelta(t, 10.0, DequantizeAsymmetricU8(15, 1.0, 5), 1e-6)

	_, err = QuantizeAsymmetricU8(1, -1, 0)
	require.Error(t, err)
}

func TestCalculateSymmetricQuantParams(t *testing.T) {
	t.Parallel()
	p, err := CalculateSymmetricQuantParams(-1.0, 1.0, I8)
	require.NoError(t, err)
	require.InDelta(t, 1.0/127, p.Scale, 1e-6)
	require.Equal(t, int32(0), p.ZeroPoint)

	zero, err := CalculateSymmetricQuantParams(0, 0, I8)
	require.NoError(t, err)
	require.Equal(t, float32(1), zero.Scale)

	_, err = CalculateSymmetricQuantParams(-1, 1, F32)
	require.Error(t, err)
}

func TestCalculateAsymmetricQuantParams(t *testing.T) {
	t.Parallel()
	p, err := CalculateAsymmetricQuantParams(0, 255, U8)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p.Scale, 1e-6)
	require.Equal(t, int32(0), p.ZeroPoint)

	_, err = CalculateAsymmetricQuantParams(5, 5, U8)
	require.Error(t, err, "min must be strictly less than max")

	_, err = CalculateAsymmetricQuantParams(0, 1, I8)
	require.Error(t, err, "only U8 is supported")
}

func TestCalculatePerChannel(t *testing.T) {
	t.Parallel()
	scales, zps, err := CalculatePerChannelSymmetric([]float32{-1, -2}, []float32{1, 2}, I8)
	require.NoError(t, err)
	require.Len(t, scales, 2)
	require.Len(t, zps, 2)
	for _, zp := range zps {
		require.Zero(t, zp)
	}

	_, _, err = CalculatePerChannelSymmetric([]float32{1}, []float32{1, 2}, I8)
	require.Error(t, err)
}

func TestRoundTripQuantizeDequantize(t *testing.T) {
	t.Parallel()
	scale := float32(0.25)
	for _, x := range []float32{-10, -0.3, 0, 0.3, 10, 31.8} {
		q, err := QuantizeSymmetricI8(x, scale)
		require.NoError(t, err)
		deq := DequantizeSymmetricI8(q, scale)
		if q != -128 && q != 127 {
			require.LessOrEqual(t, absF32(deq-x), scale/2+1e-3)
		}
	}
}

func absF32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
