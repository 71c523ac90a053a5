package graph

import "sync/atomic"

var nextNodeID uint64

func allocNodeID() uint64 {
	return atomic.AddUint64(&nextNodeID, 1)
}

// Node wraps an Operator instance and wires it to Values by reference.
// A Node owns its Operator; it does not own the Graph it belongs to or
// the Values it references.
type Node struct {
	id        uint64
	name      string
	op        Operator
	inputs    []*Value
	outputs   []*Value
	topoIndex int // -1 when unset
	debugInfo string

	ready     bool
	scheduled bool
	executed  bool

	graph *Graph
}

// ID returns the node's process-wide monotonically increasing id.
func (n *Node) ID() uint64 { return n.id }

// Name returns the node's display name.
func (n *Node) Name() string { return n.name }

// Operator returns the node's wrapped operator.
func (n *Node) Operator() Operator { return n.op }

// Inputs returns the node's input Values, in order.
func (n *Node) Inputs() []*Value {
	out := make([]*Value, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Outputs returns the node's output Values, in order.
func (n *Node) Outputs() []*Value {
	out := make([]*Value, len(n.outputs))
	copy(out, n.outputs)
	return out
}

// TopoIndex returns the node's position in the last successful
// topological sort, or -1 if unset.
func (n *Node) TopoIndex() int { return n.topoIndex }

// DebugInfo returns arbitrary caller-attached debugging text.
func (n *Node) DebugInfo() string { return n.debugInfo }

// SetDebugInfo attaches arbitrary debugging text to the node.
func (n *Node) SetDebugInfo(s string) { n.debugInfo = s }

// Ready, Scheduled, Executed report the node's advisory execution-state
// flags. They are not consulted by Graph.Execute's own sequential
// ordering — they exist for schedulers built on top of this package.
func (n *Node) Ready() bool     { return n.ready }
func (n *Node) Scheduled() bool { return n.scheduled }
func (n *Node) Executed() bool  { return n.executed }

// SetReady, SetScheduled, SetExecuted set the corresponding flag.
func (n *Node) SetReady(v bool)     { n.ready = v }
func (n *Node) SetScheduled(v bool) { n.scheduled = v }
func (n *Node) SetExecuted(v bool)  { n.executed = v }

// ResetExecutionState clears all three advisory flags.
func (n *Node) ResetExecutionState() {
	n.ready = false
	n.scheduled = false
	n.executed = false
}

// setInputs replaces the node's inputs, removing self from the consumer
// set of every old input and adding self to every new input's consumer
// set.
func (n *Node) setInputs(newInputs []*Value) {
	for _, old := range n.inputs {
		old.removeConsumer(n)
	}
	n.inputs = append([]*Value(nil), newInputs...)
	for _, in := range n.inputs {
		in.addConsumer(n)
	}
}

// setOutputs replaces the node's outputs, clearing producer on every old
// output whose producer is self, and setting producer on every new
// output.
func (n *Node) setOutputs(newOutputs []*Value) {
	for _, old := range n.outputs {
		if old.producer == n {
			old.setProducer(nil)
		}
	}
	n.outputs = append([]*Value(nil), newOutputs...)
	for _, out := range n.outputs {
		out.setProducer(n)
	}
}

// detach removes self from every input's consumer set and clears
// producer on every output whose producer is self, equivalent to what a
// destructor would do before the node goes away.
func (n *Node) detach() {
	for _, in := range n.inputs {
		in.removeConsumer(n)
	}
	for _, out := range n.outputs {
		if out.producer == n {
			out.setProducer(nil)
		}
	}
}
