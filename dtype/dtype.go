// Package dtype enumerates the tensor element types the runtime understands
// and provides the pure numeric helpers (byte sizes, trait predicates,
// promotion, cast admissibility, quantize/dequantize) that operate on them.
//
// Everything here is a stateless function or method over the closed DType
// enumeration, with no I/O. The only other package in the module it
// depends on is xerr, for its error values. The per-channel and buffer
// helpers allocate their result slices.
package dtype

import (
	"math"

	"github.com/sbl8/tensorgraph/xerr"
)

// DType is the closed set of tensor element types.
type DType int

const (
	Unknown DType = iota
	F32
	F16
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	Bool
)

// String renders the DType for debug output.
func (d DType) String() string {
	switch d {
	case Unknown:
		return "Unknown"
	case F32:
		return "F32"
	case F16:
		return "F16"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case U8:
		return "U8"
	case U16:
		return "U16"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case Bool:
		return "Bool"
	default:
		return "Invalid"
	}
}

// byteSizes is keyed by DType; Unknown is 0 by the zero value.
var byteSizes = [...]int{
	Unknown: 0,
	F32:     4,
	F16:     2,
	I8:      1,
	I16:     2,
	I32:     4,
	I64:     8,
	U8:      1,
	U16:     2,
	U32:     4,
	U64:     8,
	Bool:    1,
}

// ByteSize returns the fixed per-element byte size of d.
func ByteSize(d DType) int {
	if int(d) < 0 || int(d) >= len(byteSizes) {
		return 0
	}
	return byteSizes[d]
}

// ByteSize is the method form of ByteSize, for call sites that already
// hold a DType value (d.ByteSize() reads like arena.TotalSize()).
func (d DType) ByteSize() int { return ByteSize(d) }

// IsFloating reports whether d is a floating-point type.
func IsFloating(d DType) bool { return d == F32 || d == F16 }

// IsInteger reports whether d is any integer type (signed or unsigned).
func IsInteger(d DType) bool {
	switch d {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether d is a signed integer type.
func IsSigned(d DType) bool {
	switch d {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether d is an unsigned integer type.
func IsUnsigned(d DType) bool {
	switch d {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// IsBool reports whether d is the boolean type.
func IsBool(d DType) bool { return d == Bool }

// IsQuantized reports whether d is one of the two quantized element types.
func IsQuantized(d DType) bool { return d == I8 || d == U8 }

// precedence ranks DTypes for Promote; higher value wins.
var precedence = map[DType]int{
	F32:  10,
	F16:  9,
	I64:  8,
	U64:  7,
	I32:  6,
	U32:  5,
	I16:  4,
	U16:  3,
	I8:   2,
	U8:   1,
	Bool: 0,
}

// Promote returns the higher-precedence DType of a and b following
// F32 > F16 > I64 > U64 > I32 > U32 > I16 > U16 > I8 > U8 > Bool.
// Promoting with Unknown always yields Unknown.
func Promote(a, b DType) DType {
	if a == Unknown || b == Unknown {
		return Unknown
	}
	if precedence[a] >= precedence[b] {
		return a
	}
	return b
}

// CanCast reports whether a value of type from may be cast to type to:
// identity, float<->float, int<->int, float<->int, and Bool<->any
// non-Unknown type are all admissible.
func CanCast(from, to DType) bool {
	if from == Unknown || to == Unknown {
		return false
	}
	if from == to {
		return true
	}
	if from == Bool || to == Bool {
		return true
	}
	fromNumeric := IsFloating(from) || IsInteger(from)
	toNumeric := IsFloating(to) || IsInteger(to)
	return fromNumeric && toNumeric
}

// QuantizeSymmetricI8 rounds x/scale and clamps to [-128, 127].
// Fails with xerr.InvalidArgument if scale <= 0.
func QuantizeSymmetricI8(x, scale float32) (int8, error) {
	if scale <= 0 {
		return 0, xerr.New(xerr.InvalidArgument, "dtype.QuantizeSymmetricI8", "scale must be positive")
	}
	v := math.Round(float64(x / scale))
	if v < -128 {
		v = -128
	} else if v > 127 {
		v = 127
	}
	return int8(v), nil
}

// DequantizeSymmetricI8 is the linear inverse of QuantizeSymmetricI8; it
// never fails.
func DequantizeSymmetricI8(q int8, scale float32) float32 {
	return float32(q) * scale
}

// QuantizeAsymmetricU8 rounds x/scale + zp and clamps to [0, 255].
// Fails with xerr.InvalidArgument if scale <= 0.
func QuantizeAsymmetricU8(x, scale float32, zp int32) (uint8, error) {
	if scale <= 0 {
		return 0, xerr.New(xerr.InvalidArgument, "dtype.QuantizeAsymmetricU8", "scale must be positive")
	}
	v := math.Round(float64(x/scale)) + float64(zp)
	if v < 0 {
		v = 0
	} else if v > 255 {
		v = 255
	}
	return uint8(v), nil
}

// DequantizeAsymmetricU8 is the linear inverse of QuantizeAsymmetricU8; it
// never fails.
func DequantizeAsymmetricU8(q uint8, scale float32, zp int32) float32 {
	return (float32(q) - float32(zp)) * scale
}

// SymmetricQuantParams is the result of CalculateSymmetricQuantParams.
type SymmetricQuantParams struct {
	Scale     float32
	ZeroPoint int32
}

// CalculateSymmetricQuantParams derives a symmetric scale for target from
// the observed [min, max] range. abs_max < 1e-8 collapses to scale = 1 to
// avoid division by a near-zero range.
func CalculateSymmetricQuantParams(min, max float32, target DType) (SymmetricQuantParams, error) {
	if target != I8 && target != U8 {
		return SymmetricQuantParams{}, xerr.New(xerr.InvalidArgument, "dtype.CalculateSymmetricQuantParams", "target must be I8 or U8")
	}
	absMax := float32(math.Max(math.Abs(float64(min)), math.Abs(float64(max))))
	if absMax < 1e-8 {
		return SymmetricQuantParams{Scale: 1, ZeroPoint: 0}, nil
	}
	var scale float32
	if target == I8 {
		scale = absMax / 127
	} else {
		scale = absMax / 255
	}
	return SymmetricQuantParams{Scale: scale, ZeroPoint: 0}, nil
}

// AsymmetricQuantParams is the result of CalculateAsymmetricQuantParams.
type AsymmetricQuantParams struct {
	Scale     float32
	ZeroPoint int32
}

// CalculateAsymmetricQuantParams derives an asymmetric scale/zero-point
// pair for U8 from the observed [min, max) range. Requires min < max and
// target == U8.
func CalculateAsymmetricQuantParams(min, max float32, target DType) (AsymmetricQuantParams, error) {
	if target != U8 {
		return AsymmetricQuantParams{}, xerr.New(xerr.InvalidArgument, "dtype.CalculateAsymmetricQuantParams", "target must be U8")
	}
	if !(min < max) {
		return AsymmetricQuantParams{}, xerr.New(xerr.InvalidArgument, "dtype.CalculateAsymmetricQuantParams", "min must be less than max")
	}
	scale := (max - min) / 255
	zp := math.Round(float64(-min / scale))
	if zp < 0 {
		zp = 0
	} else if zp > 255 {
		zp = 255
	}
	return AsymmetricQuantParams{Scale: scale, ZeroPoint: int32(zp)}, nil
}

// CalculatePerChannelSymmetric applies CalculateSymmetricQuantParams across
// parallel min/max slices, one channel at a time.
func CalculatePerChannelSymmetric(mins, maxs []float32, target DType) ([]float32, []int32, error) {
	if len(mins) != len(maxs) {
		return nil, nil, xerr.New(xerr.InvalidArgument, "dtype.CalculatePerChannelSymmetric", "mins and maxs must have equal length")
	}
	scales := make([]float32, len(mins))
	zeroPoints := make([]int32, len(mins))
	for i := range mins {
		p, err := CalculateSymmetricQuantParams(mins[i], maxs[i], target)
		if err != nil {
			return nil, nil, err
		}
		scales[i] = p.Scale
		zeroPoints[i] = p.ZeroPoint
	}
	return scales, zeroPoints, nil
}

// CalculatePerChannelAsymmetric applies CalculateAsymmetricQuantParams
// across parallel min/max slices; zero points are only meaningful because
// the caller's QuantizationParams is non-symmetric when this is used.
func CalculatePerChannelAsymmetric(mins, maxs []float32, target DType) ([]float32, []int32, error) {
	if len(mins) != len(maxs) {
		return nil, nil, xerr.New(xerr.InvalidArgument, "dtype.CalculatePerChannelAsymmetric", "mins and maxs must have equal length")
	}
	scales := make([]float32, len(mins))
	zeroPoints := make([]int32, len(mins))
	for i := range mins {
		p, err := CalculateAsymmetricQuantParams(mins[i], maxs[i], target)
		if err != nil {
			return nil, nil, err
		}
		scales[i] = p.Scale
		zeroPoints[i] = p.ZeroPoint
	}
	return scales, zeroPoints, nil
}
