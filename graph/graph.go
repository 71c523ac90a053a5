// Package graph implements the dataflow graph intermediate
// representation: Values (typed tensor handles with producer/consumer
// edges), Nodes (operator instances), and the Graph that owns both,
// topologically sorts them, validates their structural invariants,
// plans memory lifetimes, and drives sequential execution.
package graph

import (
	"strconv"

	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/shape"
	"github.com/sbl8/tensorgraph/tensor"
	"github.com/sbl8/tensorgraph/xerr"
)

// Graph owns every Value and Node created through it. Values and Nodes
// are stable for the Graph's lifetime: RemoveNode erases a Node, but no
// other Node or Value is ever relocated or renumbered.
type Graph struct {
	values []*Value
	nodes  []*Node

	inputs  []*Value
	outputs []*Value

	modelName    string
	modelVersion string
	attributes   AttributeMap
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{attributes: AttributeMap{}}
}

// ModelName returns the graph's model name.
func (g *Graph) ModelName() string { return g.modelName }

// SetModelName sets the graph's model name.
func (g *Graph) SetModelName(name string) { g.modelName = name }

// ModelVersion returns the graph's model version string.
func (g *Graph) ModelVersion() string { return g.modelVersion }

// SetModelVersion sets the graph's model version string.
func (g *Graph) SetModelVersion(v string) { g.modelVersion = v }

// Attributes returns the graph-level attribute map.
func (g *Graph) Attributes() AttributeMap { return g.attributes }

// Values returns every Value owned by this graph, in creation order.
func (g *Graph) Values() []*Value {
	out := make([]*Value, len(g.values))
	copy(out, g.values)
	return out
}

// Nodes returns every Node owned by this graph, in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Inputs returns the graph's declared input Values.
func (g *Graph) Inputs() []*Value {
	out := make([]*Value, len(g.inputs))
	copy(out, g.inputs)
	return out
}

// Outputs returns the graph's declared output Values.
func (g *Graph) Outputs() []*Value {
	out := make([]*Value, len(g.outputs))
	copy(out, g.outputs)
	return out
}

// SetInputs replaces the graph's declared input list.
func (g *Graph) SetInputs(vs []*Value) { g.inputs = append([]*Value(nil), vs...) }

// SetOutputs replaces the graph's declared output list.
func (g *Graph) SetOutputs(vs []*Value) { g.outputs = append([]*Value(nil), vs...) }

// CreateValue mints a new Value owned by this graph.
func (g *Graph) CreateValue(s shape.Shape, dt dtype.DType, quant *tensor.QuantParams, name string) *Value {
	v := &Value{
		id:    allocValueID(),
		shape: s,
		dt:    dt,
		quant: quant,
		name:  name,
	}
	g.values = append(g.values, v)
	return v
}

// AddNode wraps op in a new Node owned by this graph. An empty name is
// replaced with a generated "node_<id>" name.
func (g *Graph) AddNode(op Operator, name string) *Node {
	n := &Node{
		id:        allocNodeID(),
		op:        op,
		topoIndex: -1,
		graph:     g,
	}
	if name == "" {
		name = "node_" + strconv.FormatUint(n.id, 10)
	}
	n.name = name
	n.setInputs(op.Inputs())
	n.setOutputs(op.Outputs())
	g.nodes = append(g.nodes, n)
	return n
}

// RemoveNode detaches n's producer/consumer edges and erases it from the
// graph. Removing a node not owned by this graph is a no-op.
func (g *Graph) RemoveNode(n *Node) {
	idx := -1
	for i, candidate := range g.nodes {
		if candidate == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	n.detach()
	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
}

// SetNodeInputs rewires n's inputs, maintaining consumer-set invariants.
// This only touches the node's own edge list; n's operator still reports
// whatever Values it was constructed with, so callers that rewire a
// node's inputs must give the operator a matching replacement (typically
// by calling AddNode again with a freshly constructed operator) or
// Validate will reject the node for diverged I/O.
func (g *Graph) SetNodeInputs(n *Node, newInputs []*Value) {
	n.setInputs(newInputs)
}

// SetNodeOutputs rewires n's outputs, maintaining producer-link
// invariants. See SetNodeInputs for the same operator-divergence caveat.
func (g *Graph) SetNodeOutputs(n *Node, newOutputs []*Value) {
	n.setOutputs(newOutputs)
}

// TopologicalSort computes in-degree for each node as the count of its
// input Values with a non-nil producer, then runs Kahn's algorithm. On
// full coverage every node's topoIndex is set and the full order is
// returned. On a cycle, topoIndex is cleared on every node and the
// partial order computed so far is returned.
func (g *Graph) TopologicalSort() []*Node {
	inDegree := make(map[*Node]int, len(g.nodes))
	for _, n := range g.nodes {
		count := 0
		for _, in := range n.inputs {
			if in.producer != nil {
				count++
			}
		}
		inDegree[n] = count
	}

	var queue []*Node
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, out := range n.outputs {
			for _, c := range out.consumers {
				inDegree[c]--
				if inDegree[c] == 0 {
					queue = append(queue, c)
				}
			}
		}
	}

	if len(order) != len(g.nodes) {
		for _, n := range g.nodes {
			n.topoIndex = -1
		}
		return order
	}

	for i, n := range order {
		n.topoIndex = i
	}
	return order
}

// sameValues reports whether a and b contain the same Value pointers in
// the same order.
func sameValues(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate checks the graph's structural invariants: every node belongs
// to this graph, every non-nil operator validates, every input/output
// Value referenced by a node is owned by this graph, producer/consumer
// back-references are consistent, declared graph inputs/outputs are
// owned and non-nil, a node's operator reports the same I/O the node is
// wired with, and the graph is acyclic.
func (g *Graph) Validate() error {
	owned := make(map[*Value]bool, len(g.values))
	for _, v := range g.values {
		owned[v] = true
	}

	for _, n := range g.nodes {
		if n.graph != g {
			return xerr.New(xerr.RuntimeError, "Graph.Validate", "node "+n.name+" does not belong to this graph")
		}
		if n.op != nil {
			if err := n.op.Validate(); err != nil {
				return xerr.Wrap(xerr.RuntimeError, "Graph.Validate", "node "+n.name+" operator failed validation", err)
			}
			if !sameValues(n.op.Inputs(), n.inputs) || !sameValues(n.op.Outputs(), n.outputs) {
				return xerr.New(xerr.RuntimeError, "Graph.Validate", "node "+n.name+" operator I/O has diverged from the node's wiring")
			}
		}
		for _, in := range n.inputs {
			if in == nil || !owned[in] {
				return xerr.New(xerr.RuntimeError, "Graph.Validate", "node "+n.name+" references an input not owned by this graph")
			}
		}
		for _, out := range n.outputs {
			if out == nil || !owned[out] {
				return xerr.New(xerr.RuntimeError, "Graph.Validate", "node "+n.name+" references an output not owned by this graph")
			}
			if out.producer != n {
				return xerr.New(xerr.RuntimeError, "Graph.Validate", "output "+out.name+" producer does not point back to node "+n.name)
			}
		}
		for _, in := range n.inputs {
			found := false
			for _, c := range in.consumers {
				if c == n {
					found = true
					break
				}
			}
			if !found {
				return xerr.New(xerr.RuntimeError, "Graph.Validate", "input "+in.name+" does not list node "+n.name+" as a consumer")
			}
		}
	}

	for _, v := range g.inputs {
		if v == nil || !owned[v] {
			return xerr.New(xerr.RuntimeError, "Graph.Validate", "graph input is nil or not owned by this graph")
		}
	}
	for _, v := range g.outputs {
		if v == nil || !owned[v] {
			return xerr.New(xerr.RuntimeError, "Graph.Validate", "graph output is nil or not owned by this graph")
		}
	}

	order := g.TopologicalSort()
	if len(order) != len(g.nodes) {
		return xerr.New(xerr.RuntimeError, "Graph.Validate", "graph contains a cycle")
	}
	return nil
}

// Execute binds input to the graph's single declared input Value (if
// any), validates the graph, runs every node's operator in topological
// order, and returns a copy of the single declared output's tensor
// handle if one is bound. A graph with no nodes returns input
// unchanged. Validate rejects any node whose operator I/O has diverged
// from the node's own wiring, so by the time the execution loop below
// calls n.op.Execute() the operator is guaranteed to read/write the
// same Values as n.Inputs()/n.Outputs().
func (g *Graph) Execute(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(g.nodes) == 0 {
		return input, nil
	}

	if len(g.inputs) == 1 {
		g.inputs[0].SetTensor(input)
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	order := g.TopologicalSort()
	if len(order) != len(g.nodes) {
		return nil, xerr.New(xerr.RuntimeError, "Graph.Execute", "graph contains a cycle")
	}

	for _, n := range order {
		if n.op == nil {
			continue
		}
		if err := n.op.Execute(); err != nil {
			return nil, xerr.Wrap(xerr.RuntimeError, "Graph.Execute", "node "+n.name+" execution failed", err)
		}
		n.SetExecuted(true)
	}

	if len(g.outputs) == 1 {
		return g.outputs[0].Tensor(), nil
	}
	return input, nil
}

// ApplyPass runs a user-provided transformation over the graph. The
// pass is responsible for leaving the graph in a valid state; ApplyPass
// performs no validity checks of its own.
func (g *Graph) ApplyPass(pass func(*Graph) error) error {
	return pass(g)
}
