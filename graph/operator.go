package graph

import "github.com/sbl8/tensorgraph/xerr"

// Operator is the capability set every concrete op implements. It
// replaces the class-hierarchy polymorphism a non-Go implementation
// would reach for with a plain interface boundary: concrete operators
// (MatMul, ReLU, Softmax, ...) live outside this package and are plugged
// in at graph-construction time via Graph.AddNode.
type Operator interface {
	// TypeTag identifies the operator kind; must be non-empty.
	TypeTag() string
	// Inputs returns the Values this operator reads.
	Inputs() []*Value
	// Outputs returns the Values this operator writes.
	Outputs() []*Value
	// Attributes returns the operator's static configuration, or nil.
	Attributes() AttributeMap
	// Validate reports whether the operator's wiring is structurally
	// sound. The default behavior concrete ops should fall back on is
	// ValidateIO.
	Validate() error
	// Execute reads bound input tensors and binds output tensors. Every
	// input Value must already have a non-nil bound tensor matching its
	// declared shape and dtype; concrete ops may enforce stricter
	// constraints.
	Execute() error
	// Clone returns an independent copy of the operator with the same
	// configuration, suitable for reuse in a different Node.
	Clone() Operator
	// EstimateMemoryBytes estimates the operator's working-set size in
	// bytes, for memory planning.
	EstimateMemoryBytes() int64
}

// ValidateIO is the default I/O validation every Operator implementation
// can delegate to: it rejects any nil input or output reference.
func ValidateIO(op Operator) error {
	for _, in := range op.Inputs() {
		if in == nil {
			return xerr.New(xerr.RuntimeError, "ValidateIO", "operator "+op.TypeTag()+" has a nil input reference")
		}
	}
	for _, out := range op.Outputs() {
		if out == nil {
			return xerr.New(xerr.RuntimeError, "ValidateIO", "operator "+op.TypeTag()+" has a nil output reference")
		}
	}
	return nil
}
