// Package netlist builds the gate-level HWGraph (component A) from an
// already-parsed netlist AST. The netlist parser itself is an external
// collaborator out of scope (spec.md §1) — this package only consumes its
// output, shaped as the types below.
package netlist

import "github.com/sarchlab/bee-compiler/hwgraph"

// Module is a single flattened netlist module: its port lists and its body
// elements, the Go analogue of the external parser's
// `ParsedPrimitive::Module { name, inputs, outputs, elems }` variant.
type Module struct {
	Name    string
	Inputs  []string
	Outputs []string
	Elems   []hwgraph.NodePrimitive
}

// File is the top-level parse result: every module the parser found. A
// well-formed flattened design has exactly one.
type File struct {
	Modules []Module
}
