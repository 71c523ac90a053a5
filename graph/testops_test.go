package graph

import (
	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/tensor"
	"github.com/sbl8/tensorgraph/xerr"
)

// identityOp copies its single input tensor into a freshly owned output
// tensor. Used across the package's tests as the simplest possible
// producer/consumer wiring.
type identityOp struct {
	in, out *Value
	owned   *tensor.Tensor
}

func newIdentityOp(in, out *Value) *identityOp {
	return &identityOp{in: in, out: out}
}

func (o *identityOp) TypeTag() string          { return "Identity" }
func (o *identityOp) Inputs() []*Value         { return []*Value{o.in} }
func (o *identityOp) Outputs() []*Value        { return []*Value{o.out} }
func (o *identityOp) Attributes() AttributeMap { return nil }
func (o *identityOp) Validate() error          { return ValidateIO(o) }

func (o *identityOp) Execute() error {
	in := o.in.Tensor()
	if in == nil {
		return xerr.New(xerr.RuntimeError, "identityOp.Execute", "input has no bound tensor")
	}
	out, err := tensor.New(in.Shape(), in.DType())
	if err != nil {
		return err
	}
	copy(out.Data(), in.Data())
	o.owned = out
	o.out.SetTensor(out)
	return nil
}

func (o *identityOp) Clone() Operator            { return newIdentityOp(o.in, o.out) }
func (o *identityOp) EstimateMemoryBytes() int64 { return 0 }

// reluOp applies max(0, x) element-wise to a float32 input, grounded on
// the same in-place clamp loop used throughout the kernel catalog this
// package's operators stand in for.
type reluOp struct {
	in, out *Value
	owned   *tensor.Tensor
}

func newReluOp(in, out *Value) *reluOp {
	return &reluOp{in: in, out: out}
}

func (o *reluOp) TypeTag() string          { return "Relu" }
func (o *reluOp) Inputs() []*Value         { return []*Value{o.in} }
func (o *reluOp) Outputs() []*Value        { return []*Value{o.out} }
func (o *reluOp) Attributes() AttributeMap { return nil }
func (o *reluOp) Validate() error          { return ValidateIO(o) }

func (o *reluOp) Execute() error {
	in := o.in.Tensor()
	if in == nil {
		return xerr.New(xerr.RuntimeError, "reluOp.Execute", "input has no bound tensor")
	}
	if in.DType() != dtype.F32 {
		return xerr.New(xerr.InvalidArgument, "reluOp.Execute", "relu requires F32 input")
	}
	out, err := tensor.New(in.Shape(), dtype.F32)
	if err != nil {
		return err
	}
	src := in.Float32()
	dst := out.Float32()
	for i, x := range src {
		if x < 0 {
			x = 0
		}
		dst[i] = x
	}
	o.owned = out
	o.out.SetTensor(out)
	return nil
}

func (o *reluOp) Clone() Operator            { return newReluOp(o.in, o.out) }
func (o *reluOp) EstimateMemoryBytes() int64 { return 0 }

// addOp performs element-wise addition of two equally-shaped float32
// inputs, grounded on the kernel catalog's vectorAdd layout (two equal
// halves summed into a freshly owned output instead of in place).
type addOp struct {
	a, b, out *Value
	owned     *tensor.Tensor
}

func newAddOp(a, b, out *Value) *addOp {
	return &addOp{a: a, b: b, out: out}
}

func (o *addOp) TypeTag() string          { return "Add" }
func (o *addOp) Inputs() []*Value         { return []*Value{o.a, o.b} }
func (o *addOp) Outputs() []*Value        { return []*Value{o.out} }
func (o *addOp) Attributes() AttributeMap { return nil }
func (o *addOp) Validate() error          { return ValidateIO(o) }

func (o *addOp) Execute() error {
	ta, tb := o.a.Tensor(), o.b.Tensor()
	if ta == nil || tb == nil {
		return xerr.New(xerr.RuntimeError, "addOp.Execute", "input has no bound tensor")
	}
	if !ta.Shape().Equal(tb.Shape()) {
		return xerr.New(xerr.InvalidArgument, "addOp.Execute", "operand shapes do not match")
	}
	out, err := tensor.New(ta.Shape(), dtype.F32)
	if err != nil {
		return err
	}
	af, bf, of := ta.Float32(), tb.Float32(), out.Float32()
	for i := range of {
		of[i] = af[i] + bf[i]
	}
	o.owned = out
	o.out.SetTensor(out)
	return nil
}

func (o *addOp) Clone() Operator            { return newAddOp(o.a, o.b, o.out) }
func (o *addOp) EstimateMemoryBytes() int64 { return 0 }

var (
	_ Operator = (*identityOp)(nil)
	_ Operator = (*reluOp)(nil)
	_ Operator = (*addOp)(nil)
)
