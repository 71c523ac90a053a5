package graph

import "github.com/sbl8/tensorgraph/dtype"

// Lifetime records the topological window a Value's backing bytes must
// stay live across, and the byte size it contributes while live.
type Lifetime struct {
	FirstIndex int
	LastIndex  int
	Bytes      int64
}

// MemoryPlan is the output of Graph.PlanMemory: the peak concurrently
// live byte count, and each owned Value's lifetime window.
type MemoryPlan struct {
	PeakBytes int64
	Lifetimes map[uint64]Lifetime
}

// PlanMemory runs a topological sort and, for every owned Value,
// computes the topological index window across which its bytes must
// stay live: from its producer's index (0 if it has none) to the
// latest index among its consumers, extended to the last node index if
// the Value is a declared graph output. Peak bytes is the maximum, over
// every topological index, of the sum of bytes of every Value live at
// that index. If the graph contains a cycle, PlanMemory returns an
// empty plan.
func (g *Graph) PlanMemory() MemoryPlan {
	order := g.TopologicalSort()
	if len(order) != len(g.nodes) {
		return MemoryPlan{Lifetimes: map[uint64]Lifetime{}}
	}
	lastNodeIndex := len(order) - 1

	outputSet := make(map[*Value]bool, len(g.outputs))
	for _, v := range g.outputs {
		outputSet[v] = true
	}

	lifetimes := make(map[uint64]Lifetime, len(g.values))
	for _, v := range g.values {
		first := 0
		if v.producer != nil {
			first = v.producer.topoIndex
		}
		last := first
		for _, c := range v.consumers {
			if c.topoIndex > last {
				last = c.topoIndex
			}
		}
		if outputSet[v] && lastNodeIndex > last {
			last = lastNodeIndex
		}

		bytes := int64(0)
		if v.dt != dtype.Unknown {
			n := v.shape.NumElements()
			if n > 0 {
				bytes = n * int64(v.dt.ByteSize())
			}
		}
		lifetimes[v.id] = Lifetime{FirstIndex: first, LastIndex: last, Bytes: bytes}
	}

	scanEnd := lastNodeIndex
	if scanEnd < 0 {
		scanEnd = 0
	}
	var peak int64
	for i := 0; i <= scanEnd; i++ {
		var sum int64
		for _, lt := range lifetimes {
			if lt.FirstIndex <= i && i <= lt.LastIndex {
				sum += lt.Bytes
			}
		}
		if sum > peak {
			peak = sum
		}
	}

	return MemoryPlan{PeakBytes: peak, Lifetimes: lifetimes}
}
