// Package shape implements the dimension-vector algebra used throughout
// the tensor layer: rank, element count, broadcast, squeeze/unsqueeze,
// reshape compatibility, and stride derivation. A Shape is an ordered,
// immutable sequence of non-negative dimensions (rank 0 is the scalar
// shape and has one element).
package shape

import (
	"fmt"

	"github.com/sbl8/tensorgraph/xerr"
)

// Shape is an ordered sequence of dimension sizes.
type Shape struct {
	dims []int64
}

// New builds a Shape from the given dimensions. Negative dimensions are
// rejected; a nil or empty slice yields the rank-0 (scalar) Shape.
func New(dims ...int64) (Shape, error) {
	for _, d := range dims {
		if d < 0 {
			return Shape{}, xerr.New(xerr.InvalidArgument, "shape.New", "dimension must be non-negative")
		}
	}
	cp := make([]int64, len(dims))
	copy(cp, dims)
	return Shape{dims: cp}, nil
}

// MustNew is New but panics on error; intended for tests and constant
// shape literals.
func MustNew(dims ...int64) Shape {
	s, err := New(dims...)
	if err != nil {
		panic(err)
	}
	return s
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s.dims) }

// Dims returns a copy of the dimension slice; callers may not mutate the
// Shape through it.
func (s Shape) Dims() []int64 {
	cp := make([]int64, len(s.dims))
	copy(cp, s.dims)
	return cp
}

// Dim returns the size of axis i. Negative i resolves from the end
// (-1 is the last axis).
func (s Shape) Dim(i int) (int64, error) {
	idx, err := s.resolveAxis(i)
	if err != nil {
		return 0, err
	}
	return s.dims[idx], nil
}

func (s Shape) resolveAxis(axis int) (int, error) {
	r := s.Rank()
	resolved := axis
	if resolved < 0 {
		resolved += r
	}
	if resolved < 0 || resolved >= r {
		return 0, xerr.New(xerr.InvalidArgument, "shape", fmt.Sprintf("axis %d out of range for rank %d", axis, r))
	}
	return resolved, nil
}

// NumElements returns the product of all dimensions; rank 0 is defined
// to have exactly 1 element.
func (s Shape) NumElements() int64 {
	if len(s.dims) == 0 {
		return 1
	}
	n := int64(1)
	for _, d := range s.dims {
		n *= d
	}
	return n
}

// Equal reports whether s and t have identical dimensions.
func (s Shape) Equal(t Shape) bool {
	if len(s.dims) != len(t.dims) {
		return false
	}
	for i := range s.dims {
		if s.dims[i] != t.dims[i] {
			return false
		}
	}
	return true
}

// String renders the Shape as e.g. "[2 3 4]".
func (s Shape) String() string {
	return fmt.Sprintf("%v", s.dims)
}

// Squeeze drops size-1 axes. If axis == -1 it drops every size-1 axis;
// otherwise axis is resolved (negative indices count from the end) and
// must name a dimension of size 1.
func (s Shape) Squeeze(axis int) (Shape, error) {
	if axis == -1 {
		out := make([]int64, 0, len(s.dims))
		for _, d := range s.dims {
			if d != 1 {
				out = append(out, d)
			}
		}
		return Shape{dims: out}, nil
	}
	idx, err := s.resolveAxis(axis)
	if err != nil {
		return Shape{}, xerr.Wrap(xerr.InvalidArgument, "shape.Squeeze", "axis out of range", err)
	}
	if s.dims[idx] != 1 {
		return Shape{}, xerr.New(xerr.InvalidArgument, "shape.Squeeze", fmt.Sprintf("axis %d has size %d, not 1", axis, s.dims[idx]))
	}
	out := make([]int64, 0, len(s.dims)-1)
	out = append(out, s.dims[:idx]...)
	out = append(out, s.dims[idx+1:]...)
	return Shape{dims: out}, nil
}

// Unsqueeze inserts a size-1 axis at position axis. The valid range is
// [-(rank+1), rank]; negative values resolve from the end of the
// resulting (rank+1)-sized shape.
func (s Shape) Unsqueeze(axis int) (Shape, error) {
	r := s.Rank()
	resolved := axis
	if resolved < 0 {
		resolved += r + 1
	}
	if resolved < 0 || resolved > r {
		return Shape{}, xerr.New(xerr.InvalidArgument, "shape.Unsqueeze", fmt.Sprintf("axis %d out of range for rank %d", axis, r))
	}
	out := make([]int64, 0, r+1)
	out = append(out, s.dims[:resolved]...)
	out = append(out, 1)
	out = append(out, s.dims[resolved:]...)
	return Shape{dims: out}, nil
}

// CanReshape reports whether a and b hold the same number of elements.
func CanReshape(a, b Shape) bool {
	return a.NumElements() == b.NumElements()
}

// Broadcast computes the NumPy-style broadcast shape of a and b:
// dimensions are right-aligned and each axis pair must satisfy
// a_i == b_i, a_i == 1, or b_i == 1; the output takes the max of each pair.
func Broadcast(a, b Shape) (Shape, error) {
	ra, rb := a.Rank(), b.Rank()
	r := ra
	if rb > r {
		r = rb
	}
	out := make([]int64, r)
	for i := 0; i < r; i++ {
		ai := int64(1)
		if idx := ra - r + i; idx >= 0 {
			ai = a.dims[idx]
		}
		bi := int64(1)
		if idx := rb - r + i; idx >= 0 {
			bi = b.dims[idx]
		}
		switch {
		case ai == bi:
			out[i] = ai
		case ai == 1:
			out[i] = bi
		case bi == 1:
			out[i] = ai
		default:
			return Shape{}, xerr.New(xerr.InvalidArgument, "shape.Broadcast", fmt.Sprintf("incompatible dimensions %d and %d at axis %d", ai, bi, i))
		}
	}
	return Shape{dims: out}, nil
}

// Strides returns row-major element-count strides (not bytes), derived
// right-to-left: stride[rank-1] = 1, stride[i] = stride[i+1] * dim[i+1].
func (s Shape) Strides() []int64 {
	r := len(s.dims)
	strides := make([]int64, r)
	acc := int64(1)
	for i := r - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s.dims[i]
	}
	return strides
}

// Flatten collapses the Shape to a single axis holding NumElements.
func (s Shape) Flatten() Shape {
	return Shape{dims: []int64{s.NumElements()}}
}

// Flatten2D collapses the Shape into [batch, numElements/batch]. Fails if
// NumElements is not evenly divisible by batch.
func (s Shape) Flatten2D(batch int64) (Shape, error) {
	n := s.NumElements()
	if batch <= 0 || n%batch != 0 {
		return Shape{}, xerr.New(xerr.InvalidArgument, "shape.Flatten2D", fmt.Sprintf("num_elements %d not divisible by batch %d", n, batch))
	}
	return Shape{dims: []int64{batch, n / batch}}, nil
}
