package graph

import (
	"sync/atomic"

	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/shape"
	"github.com/sbl8/tensorgraph/tensor"
)

var nextValueID uint64

func allocValueID() uint64 {
	return atomic.AddUint64(&nextValueID, 1)
}

// Value is a symbolic tensor handle: metadata plus producer/consumer
// edges, owned by exactly one Graph for its whole lifetime. Its bound
// tensor is a non-owning runtime binding: Graph.Execute binds the graph's
// single input, operators bind their outputs, and callers may bind any
// Value directly. Execute does not clear these bindings when it returns.
type Value struct {
	id    uint64
	shape shape.Shape
	dt    dtype.DType
	quant *tensor.QuantParams
	name  string

	producer  *Node
	consumers []*Node

	boundTensor *tensor.Tensor
}

// ID returns the value's process-wide monotonically increasing id.
func (v *Value) ID() uint64 { return v.id }

// Name returns the value's display name.
func (v *Value) Name() string { return v.name }

// Shape returns the value's declared shape.
func (v *Value) Shape() shape.Shape { return v.shape }

// DType returns the value's declared element type.
func (v *Value) DType() dtype.DType { return v.dt }

// QuantParams returns the value's declared quantization parameters, if
// any.
func (v *Value) QuantParams() *tensor.QuantParams { return v.quant }

// Producer returns the node that writes this value, or nil if none.
func (v *Value) Producer() *Node { return v.producer }

// Consumers returns the nodes that read this value, in insertion order.
func (v *Value) Consumers() []*Node {
	out := make([]*Node, len(v.consumers))
	copy(out, v.consumers)
	return out
}

// Tensor returns the value's transiently bound tensor, or nil if
// unbound.
func (v *Value) Tensor() *tensor.Tensor { return v.boundTensor }

// SetTensor binds t to this value. Binding is non-owning.
func (v *Value) SetTensor(t *tensor.Tensor) { v.boundTensor = t }

// ClearTensor unbinds this value's tensor.
func (v *Value) ClearTensor() { v.boundTensor = nil }

// setProducer overwrites the producer link. Callers are responsible for
// maintaining the inverse link from any previous producer.
func (v *Value) setProducer(n *Node) { v.producer = n }

// addConsumer inserts n into the consumer set if not already present,
// preserving insertion order.
func (v *Value) addConsumer(n *Node) {
	for _, c := range v.consumers {
		if c == n {
			return
		}
	}
	v.consumers = append(v.consumers, n)
}

// removeConsumer removes every occurrence of n from the consumer set.
func (v *Value) removeConsumer(n *Node) {
	out := v.consumers[:0]
	for _, c := range v.consumers {
		if c != n {
			out = append(out, c)
		}
	}
	v.consumers = out
}
