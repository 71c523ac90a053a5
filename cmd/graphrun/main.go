// Command graphrun is a thin demonstration CLI for the graph runtime: it
// builds a single-operator graph, binds a caller-supplied input tensor,
// executes it, and prints the result. It exists to exercise Graph.Execute
// end to end; real frontends (an ONNX loader, for instance) build graphs
// programmatically against the same package API.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/sbl8/tensorgraph/dtype"
	"github.com/sbl8/tensorgraph/graph"
	"github.com/sbl8/tensorgraph/shape"
	"github.com/sbl8/tensorgraph/tensor"
)

func main() {
	var (
		op      = flag.String("op", "relu", "operator to run: relu or identity")
		dims    = flag.String("shape", "", "comma-separated shape dims, e.g. 2,2 (inferred from input length if omitted)")
		verbose = flag.Bool("verbose", false, "enable verbose output")
		version = flag.Bool("version", false, "show version information")
	)
	flag.Parse()

	if *version {
		fmt.Println("graphrun - tensorgraph runtime demo v1.0.0")
		return
	}

	args := flag.Args()
	var values []float32
	var err error
	if len(args) > 0 {
		values, err = parseFloats(args[0])
	} else {
		values, err = readStdinFloats()
	}
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	s, err := resolveShape(*dims, len(values))
	if err != nil {
		log.Fatalf("invalid shape: %v", err)
	}

	g := graph.New()
	x := g.CreateValue(s, dtype.F32, nil, "x")
	y := g.CreateValue(s, dtype.F32, nil, "y")

	opInstance, err := buildOperator(*op, x, y)
	if err != nil {
		log.Fatalf("unknown operator %q: %v", *op, err)
	}
	g.AddNode(opInstance, "")
	g.SetInputs([]*graph.Value{x})
	g.SetOutputs([]*graph.Value{y})

	input, err := tensor.New(s, dtype.F32)
	if err != nil {
		log.Fatalf("failed to allocate input tensor: %v", err)
	}
	copy(input.Float32(), values)

	if *verbose {
		fmt.Printf("running %s over shape %s\n", *op, s.String())
	}

	out, err := g.Execute(input)
	if err != nil {
		log.Fatalf("graph execution failed: %v", err)
	}

	printFloats(out.Float32())
}

func parseFloats(csv string) ([]float32, error) {
	fields := strings.Split(csv, ",")
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func readStdinFloats() ([]float32, error) {
	var raw []byte
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		raw = append(raw, scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return parseFloats(string(raw))
}

func resolveShape(dims string, numValues int) (shape.Shape, error) {
	if dims == "" {
		return shape.New(int64(numValues))
	}
	fields := strings.Split(dims, ",")
	ds := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return shape.Shape{}, err
		}
		ds = append(ds, v)
	}
	return shape.New(ds...)
}

func printFloats(vals []float32) {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	fmt.Println(strings.Join(parts, ","))
}
