// Package tensor implements the typed multi-dimensional array at the
// center of the runtime: shape, dtype, byte strides, and storage, plus
// the non-owning view operations (slice/reshape/transpose) that let
// operators read and write sub-regions without copying.
package tensor

import (
	"unsafe"

	"github.com/sbl8/tensorgraph/allocator"
	"github.com/sbl8/tensorgraph/buffer"
	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/shape"
	"github.com/sbl8/tensorgraph/xerr"
)

// QuantParams holds either per-tensor or per-channel quantization
// parameters. PerChannel selects which form is populated.
type QuantParams struct {
	Symmetric  bool
	PerChannel bool

	Scale     float32
	ZeroPoint int32

	Axis                 int
	PerChannelScales     []float32
	PerChannelZeroPoints []int32
}

// Tensor is shape + dtype + byte strides over a backing byte buffer.
// Copying a Tensor value is shallow: the copy shares the same backing
// bytes, and it also carries over the ownership flag and buffer, so
// Release on either copy frees the storage the other still points at.
// The view operations (Slice, Reshape, Transpose) return non-owning
// Tensors. Use Clone for an explicit deep copy.
type Tensor struct {
	shape   shape.Shape
	dt      dtype.DType
	strides []int64
	data    []byte

	ownsData bool
	buf      *buffer.Buffer

	quant *QuantParams
}

// New allocates a contiguous Tensor of the given shape and dtype using
// platform-aligned heap memory (no allocator, no canary).
func New(s shape.Shape, dt dtype.DType) (*Tensor, error) {
	return NewWithAllocator(s, dt, nil, false)
}

// NewWithAllocator allocates a contiguous Tensor via alloc (nil for
// direct platform allocation), optionally canary-guarded.
func NewWithAllocator(s shape.Shape, dt dtype.DType, alloc allocator.Allocator, useCanary bool) (*Tensor, error) {
	if dt == dtype.Unknown {
		return nil, xerr.New(xerr.InvalidArgument, "tensor.New", "dtype must not be Unknown")
	}
	n := s.NumElements()
	byteLen := int(n) * dt.ByteSize()

	t := &Tensor{shape: s, dt: dt}
	t.strides = computeStrides(s, dt)

	if byteLen == 0 {
		return t, nil
	}

	buf, err := buffer.Allocate(byteLen, dt.ByteSize(), alloc, useCanary)
	if err != nil {
		return nil, xerr.Wrap(xerr.OutOfMemory, "tensor.New", "backing allocation failed", err)
	}
	t.buf = buf
	t.data = buf.Data()
	t.ownsData = true
	return t, nil
}

// Borrow wraps externally-owned memory as a non-owning Tensor with
// freshly computed row-major strides. The caller remains responsible
// for data's lifetime.
func Borrow(s shape.Shape, dt dtype.DType, data []byte) (*Tensor, error) {
	if dt == dtype.Unknown {
		return nil, xerr.New(xerr.InvalidArgument, "tensor.Borrow", "dtype must not be Unknown")
	}
	n := s.NumElements()
	want := int(n) * dt.ByteSize()
	if len(data) < want {
		return nil, xerr.New(xerr.InvalidArgument, "tensor.Borrow", "data shorter than shape requires")
	}
	return &Tensor{
		shape:   s,
		dt:      dt,
		strides: computeStrides(s, dt),
		data:    data[:want:want],
	}, nil
}

func computeStrides(s shape.Shape, dt dtype.DType) []int64 {
	rank := s.Rank()
	strides := make([]int64, rank)
	acc := int64(dt.ByteSize())
	dims := s.Dims()
	for i := rank - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= dims[i]
	}
	return strides
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() shape.Shape { return t.shape }

// DType returns the tensor's element type.
func (t *Tensor) DType() dtype.DType { return t.dt }

// Strides returns the tensor's byte strides, one per axis.
func (t *Tensor) Strides() []int64 {
	out := make([]int64, len(t.strides))
	copy(out, t.strides)
	return out
}

// Data returns the tensor's raw backing bytes (the whole view region,
// not necessarily the whole underlying allocation).
func (t *Tensor) Data() []byte { return t.data }

// OwnsData reports whether this Tensor is responsible for releasing its
// backing storage.
func (t *Tensor) OwnsData() bool { return t.ownsData }

// QuantParams returns the tensor's quantization parameters, or nil if
// unquantized.
func (t *Tensor) QuantParams() *QuantParams { return t.quant }

// SetQuantParams attaches quantization parameters to the tensor.
func (t *Tensor) SetQuantParams(q *QuantParams) { t.quant = q }

// IsContiguous reports whether strides match the row-major layout
// derived from shape and element size. Rank 0 or zero-size tensors are
// always contiguous.
func (t *Tensor) IsContiguous() bool {
	rank := t.shape.Rank()
	if rank == 0 || t.shape.NumElements() == 0 {
		return true
	}
	expected := int64(t.dt.ByteSize())
	dims := t.shape.Dims()
	for i := rank - 1; i >= 0; i-- {
		if t.strides[i] != expected {
			return false
		}
		expected *= dims[i]
	}
	return true
}

// ComputeStrides resets the tensor's strides to the row-major byte
// layout derived from its current shape and dtype.
func (t *Tensor) ComputeStrides() {
	t.strides = computeStrides(t.shape, t.dt)
}

// Validate checks the invariants spec'd for a usable Tensor: non-empty
// tensors must have non-nil data, dtype must not be Unknown, strides
// must match rank, and a quantized dtype must carry a positive scale.
func (t *Tensor) Validate() error {
	if t.dt == dtype.Unknown {
		return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "dtype is Unknown")
	}
	if t.shape.NumElements() > 0 && t.data == nil {
		return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "non-empty tensor has nil data")
	}
	if len(t.strides) != t.shape.Rank() {
		return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "strides length does not match rank")
	}
	if dtype.IsQuantized(t.dt) {
		if t.quant == nil {
			return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "quantized dtype requires quant params")
		}
		if !t.quant.PerChannel && t.quant.Scale <= 0 {
			return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "quant scale must be positive")
		}
		if t.quant.PerChannel {
			for _, sc := range t.quant.PerChannelScales {
				if sc <= 0 {
					return xerr.New(xerr.InvalidArgument, "Tensor.Validate", "per-channel scale must be positive")
				}
			}
		}
	}
	return nil
}

// AxisRange is an inclusive-exclusive [start, end) range on one axis.
type AxisRange struct {
	Start, End int64
}

// Slice returns a non-owning view covering one AxisRange per axis.
// Negative bounds are resolved by adding the axis's dim size. The
// returned view retains the parent's strides, so it is generally
// non-contiguous.
func (t *Tensor) Slice(ranges []AxisRange) (*Tensor, error) {
	rank := t.shape.Rank()
	if len(ranges) != rank {
		return nil, xerr.New(xerr.InvalidArgument, "Tensor.Slice", "range count must equal rank")
	}
	dims := t.shape.Dims()
	newDims := make([]int64, rank)
	var byteOffset int64
	for i, r := range ranges {
		dimSize := dims[i]
		start, end := r.Start, r.End
		if start < 0 {
			start += dimSize
		}
		if end < 0 {
			end += dimSize
		}
		if start < 0 || end < start || end > dimSize {
			return nil, xerr.New(xerr.InvalidArgument, "Tensor.Slice", "range out of bounds")
		}
		newDims[i] = end - start
		byteOffset += start * t.strides[i]
	}

	newShape, err := shape.New(newDims...)
	if err != nil {
		return nil, err
	}
	view := &Tensor{
		shape:   newShape,
		dt:      t.dt,
		strides: append([]int64(nil), t.strides...),
		quant:   t.quant,
	}
	view.data = t.data[byteOffset:len(t.data):len(t.data)]
	return view, nil
}

// Reshape returns a new contiguous view over the same data. Requires
// the tensor to currently be contiguous and the element counts to
// match.
func (t *Tensor) Reshape(newShape shape.Shape) (*Tensor, error) {
	if !t.IsContiguous() {
		return nil, xerr.New(xerr.RuntimeError, "Tensor.Reshape", "reshape requires a contiguous tensor")
	}
	if !shape.CanReshape(t.shape, newShape) {
		return nil, xerr.New(xerr.InvalidArgument, "Tensor.Reshape", "element count mismatch")
	}
	view := &Tensor{
		shape: newShape,
		dt:    t.dt,
		data:  t.data,
		quant: t.quant,
	}
	view.ComputeStrides()
	return view, nil
}

// Transpose returns a view with dims and strides permuted by axes, a
// permutation of [0, rank).
func (t *Tensor) Transpose(axes []int) (*Tensor, error) {
	rank := t.shape.Rank()
	if len(axes) != rank {
		return nil, xerr.New(xerr.InvalidArgument, "Tensor.Transpose", "axes length must equal rank")
	}
	seen := make([]bool, rank)
	dims := t.shape.Dims()
	newDims := make([]int64, rank)
	newStrides := make([]int64, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			return nil, xerr.New(xerr.InvalidArgument, "Tensor.Transpose", "axes is not a valid permutation")
		}
		seen[ax] = true
		newDims[i] = dims[ax]
		newStrides[i] = t.strides[ax]
	}
	newShape, err := shape.New(newDims...)
	if err != nil {
		return nil, err
	}
	return &Tensor{
		shape:   newShape,
		dt:      t.dt,
		strides: newStrides,
		data:    t.data,
		quant:   t.quant,
	}, nil
}

// Clone performs a deep copy: a freshly allocated, owning Tensor with
// its own contiguous copy of the data. Only contiguous tensors can be
// cloned; a non-contiguous view returns a NotImplemented error. A plain
// Go copy of a Tensor value is shallow (see Tensor); Clone is the
// explicit deep-copy escape hatch.
func (t *Tensor) Clone(alloc allocator.Allocator) (*Tensor, error) {
	clone, err := NewWithAllocator(t.shape, t.dt, alloc, false)
	if err != nil {
		return nil, err
	}
	clone.quant = t.quant
	if t.IsContiguous() {
		copy(clone.data, t.data)
		return clone, nil
	}
	return nil, xerr.New(xerr.NotImplemented, "Tensor.Clone", "cloning a non-contiguous view is not supported")
}

// Release deallocates the tensor's backing storage if it owns it. Safe
// to call more than once.
func (t *Tensor) Release() {
	if !t.ownsData {
		return
	}
	if t.buf != nil {
		t.buf.Deallocate()
	}
	t.ownsData = false
	t.data = nil
}

// Float32 reinterprets the tensor's data as a []float32. Returns nil if
// the byte length isn't a multiple of 4 bytes or the data is empty.
func (t *Tensor) Float32() []float32 {
	if len(t.data) == 0 || len(t.data)%4 != 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), len(t.data)/4)
}

// Int32 reinterprets the tensor's data as a []int32.
func (t *Tensor) Int32() []int32 {
	if len(t.data) == 0 || len(t.data)%4 != 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.data[0])), len(t.data)/4)
}

// Uint8 reinterprets the tensor's data as a []uint8 (an alias view;
// always valid since the element stride is 1 byte).
func (t *Tensor) Uint8() []uint8 {
	return t.data
}

// Int8 reinterprets the tensor's data as a []int8.
func (t *Tensor) Int8() []int8 {
	if len(t.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&t.data[0])), len(t.data))
}
