package main

import (
	"fmt"

	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/graph"
	"github.com/sbl8/tensorgraph/tensor"
)

func buildOperator(name string, in, out *graph.Value) (graph.Operator, error) {
	switch name {
	case "relu":
		return &reluOperator{in: in, out: out}, nil
	case "identity":
		return &identityOperator{in: in, out: out}, nil
	default:
		return nil, fmt.Errorf("supported operators are relu, identity")
	}
}

// reluOperator clamps every element of a float32 tensor to [0, inf).
type reluOperator struct {
	in, out *graph.Value
}

func (o *reluOperator) TypeTag() string                { return "Relu" }
func (o *reluOperator) Inputs() []*graph.Value         { return []*graph.Value{o.in} }
func (o *reluOperator) Outputs() []*graph.Value        { return []*graph.Value{o.out} }
func (o *reluOperator) Attributes() graph.AttributeMap { return nil }
func (o *reluOperator) Validate() error                { return graph.ValidateIO(o) }
func (o *reluOperator) EstimateMemoryBytes() int64     { return 0 }

func (o *reluOperator) Execute() error {
	in := o.in.Tensor()
	out, err := tensor.New(in.Shape(), dtype.F32)
	if err != nil {
		return err
	}
	src, dst := in.Float32(), out.Float32()
	for i, x := range src {
		if x < 0 {
			x = 0
		}
		dst[i] = x
	}
	o.out.SetTensor(out)
	return nil
}

func (o *reluOperator) Clone() graph.Operator {
	return &reluOperator{in: o.in, out: o.out}
}

// identityOperator copies its input tensor to a freshly owned output.
type identityOperator struct {
	in, out *graph.Value
}

func (o *identityOperator) TypeTag() string                { return "Identity" }
func (o *identityOperator) Inputs() []*graph.Value         { return []*graph.Value{o.in} }
func (o *identityOperator) Outputs() []*graph.Value        { return []*graph.Value{o.out} }
func (o *identityOperator) Attributes() graph.AttributeMap { return nil }
func (o *identityOperator) Validate() error                { return graph.ValidateIO(o) }
func (o *identityOperator) EstimateMemoryBytes() int64     { return 0 }

func (o *identityOperator) Execute() error {
	in := o.in.Tensor()
	out, err := tensor.New(in.Shape(), in.DType())
	if err != nil {
		return err
	}
	copy(out.Data(), in.Data())
	o.out.SetTensor(out)
	return nil
}

func (o *identityOperator) Clone() graph.Operator {
	return &identityOperator{in: o.in, out: o.out}
}

var (
	_ graph.Operator = (*reluOperator)(nil)
	_ graph.Operator = (*identityOperator)(nil)
)
