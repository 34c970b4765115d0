package netlist

import (
	"encoding/json"
	"os"
)

// LoadFile reads a File from path. The external netlist parser
// (SystemVerilog/BLIF ingestion) is out of scope for this repo (spec.md
// §1/§6): `beec`'s CLI instead takes the parser's output already
// flattened into this package's own File/Module shape, serialized as
// JSON, which is what this reads.
func LoadFile(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, &ParseFailure{Path: path, Err: err}
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return File{}, &ParseFailure{Path: path, Err: err}
	}
	return f, nil
}
