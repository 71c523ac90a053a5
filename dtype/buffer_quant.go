package dtype

// QuantizeSymmetricI8Buffer quantizes every element of xs with the same
// scale. The scale is checked once up front; no individual element can
// fail afterward (clamping absorbs out-of-range values).
func QuantizeSymmetricI8Buffer(xs []float32, scale float32) ([]int8, error) {
	if _, err := QuantizeSymmetricI8(0, scale); err != nil {
		return nil, err
	}
	out := make([]int8, len(xs))
	for i, x := range xs {
		out[i], _ = QuantizeSymmetricI8(x, scale)
	}
	return out, nil
}

// DequantizeSymmetricI8Buffer is the linear inverse of
// QuantizeSymmetricI8Buffer; it never fails.
func DequantizeSymmetricI8Buffer(qs []int8, scale float32) []float32 {
	out := make([]float32, len(qs))
	for i, q := range qs {
		out[i] = DequantizeSymmetricI8(q, scale)
	}
	return out
}

// QuantizeAsymmetricU8Buffer quantizes every element of xs with the same
// scale and zero point.
func QuantizeAsymmetricU8Buffer(xs []float32, scale float32, zp int32) ([]uint8, error) {
	if _, err := QuantizeAsymmetricU8(0, scale, zp); err != nil {
		return nil, err
	}
	out := make([]uint8, len(xs))
	for i, x := range xs {
		out[i], _ = QuantizeAsymmetricU8(x, scale, zp)
	}
	return out, nil
}

// DequantizeAsymmetricU8Buffer is the linear inverse of
// QuantizeAsymmetricU8Buffer; it never fails.
func DequantizeAsymmetricU8Buffer(qs []uint8, scale float32, zp int32) []float32 {
	out := make([]float32, len(qs))
	for i, q := range qs {
		out[i] = DequantizeAsymmetricU8(q, scale, zp)
	}
	return out
}
