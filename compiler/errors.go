package compiler

import "fmt"

// InvariantViolation reports that the graph's shape no longer matches one
// of spec.md §3/§8's structural invariants after a pass ran (e.g. a LUT
// node's fan-in count doesn't match its truth table's column count). Fatal:
// callers should treat this as a compiler bug, not a recoverable input
// error, mirroring the original's assert!/panic! precondition checks.
type InvariantViolation struct {
	Pass    string
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("compiler: invariant violated after %s: %s", e.Pass, e.Message)
}

// IoError wraps any external read/write failure (loading a config file,
// writing an artifact) so callers can distinguish it from the compiler's
// own structural errors by type, per spec.md §7.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("compiler: io error during %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
