// Package tensorgraph is the in-memory runtime foundation of a neural-
// network inference engine: a typed multi-dimensional tensor layer with
// views, a dataflow graph intermediate representation, and arena-backed
// memory management with pluggable allocator backends.
//
// # Architecture Overview
//
// Three layers build on each other:
//
//   - Memory: arena (bump allocation), allocator (pluggable system/arena
//     backends with optional tracking), buffer (owned/borrowed memory
//     with canary guards), and memalign (shared alignment arithmetic).
//   - Data: dtype (element types, quantization) and shape (dimension
//     vectors, broadcast, stride derivation) compose into tensor (the
//     typed array with view operations: slice, reshape, transpose).
//   - Graph: graph.Value (producer/consumer-tracked tensor handles),
//     graph.Node (operator instances), graph.Operator (the capability
//     set concrete ops implement), and graph.Graph (ownership, topo
//     sort, structural validation, memory lifetime planning, sequential
//     execution).
//
// # Basic Usage
//
//	g := graph.New()
//	x := g.CreateValue(shape.MustNew(2, 2), dtype.F32, nil, "x")
//	y := g.CreateValue(shape.MustNew(2, 2), dtype.F32, nil, "y")
//	g.AddNode(myReluOperator(x, y), "relu")
//	g.SetInputs([]*graph.Value{x})
//	g.SetOutputs([]*graph.Value{y})
//
//	input, _ := tensor.New(shape.MustNew(2, 2), dtype.F32)
//	out, err := g.Execute(input)
//
// # Package Structure
//
//   - dtype: element type enumeration, promotion, quantize/dequantize
//   - shape: dimension vectors, broadcast, stride derivation
//   - memalign: shared alignment arithmetic
//   - arena: bump allocator over a pre-allocated aligned buffer
//   - allocator: pluggable allocate/deallocate/reallocate backends
//   - buffer: owned or borrowed raw memory with canary guards
//   - tensor: shape+dtype+stride+storage, view operations
//   - graph: Value/Node/Operator/Graph dataflow IR
//   - cmd/graphrun: demonstration CLI driving Graph.Execute end to end
package tensorgraph
