package schedule

// NetworkAvailability is a ring buffer of per-processor busy flags, one row
// per future cycle the scheduler can still reserve against, mirroring
// NetworkAvailability (original_source/compiler/src/passes/inst_schedule.rs).
// No bitset library appears anywhere in the example pack (fixedbitset is
// Rust-only), and a plain `[]bool` row is the idiomatic Go shape for a
// small per-cycle occupancy flag set, so this stays on the standard library.
type NetworkAvailability struct {
	busy [][]bool
	ptr  int
	size int
}

// NewNetworkAvailability allocates a ring of nentries+1 rows of nbits flags.
func NewNetworkAvailability(nbits, nentries uint32) *NetworkAvailability {
	size := int(nentries) + 1
	busy := make([][]bool, size)
	for i := range busy {
		busy[i] = make([]bool, nbits)
	}
	return &NetworkAvailability{busy: busy, size: size}
}

// Step clears the row about to scroll out and advances the ring pointer,
// mirroring NetworkAvailability::step (one call per scheduled host cycle).
func (n *NetworkAvailability) Step() {
	row := n.busy[n.ptr]
	for i := range row {
		row[i] = false
	}
	n.ptr = (n.ptr + 1) % n.size
}

// IsBusy reports whether idx is reserved `step` cycles from now.
func (n *NetworkAvailability) IsBusy(idx, step uint32) bool {
	return n.busy[(n.ptr+int(step))%n.size][idx]
}

// SetBusy reserves idx `step` cycles from now.
func (n *NetworkAvailability) SetBusy(idx, step uint32) {
	n.busy[(n.ptr+int(step))%n.size][idx] = true
}
