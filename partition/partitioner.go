package partition

import (
	"fmt"
	"math/rand"
	"sort"
)

// PartitionerFailure reports that a Partitioner could not produce a balanced
// assignment, mirroring the original's `Err(_) => println!(...)` path in
// kaminpar_partition/partition — surfaced here as an error instead of
// silently leaving the assignment incomplete.
type PartitionerFailure struct {
	NumPartitions uint32
	Err           error
}

func (e *PartitionerFailure) Error() string {
	return fmt.Sprintf("partition: partitioner failed for %d partitions: %v", e.NumPartitions, e.Err)
}

func (e *PartitionerFailure) Unwrap() error { return e.Err }

// Partitioner assigns every register group in cg to one of numPartitions
// balanced parts, returning a map from group id to partition id. No Go
// binding for KaMinPar (the original's real partitioner) exists in the
// example pack, so this is the seam the original's commented-out
// `kaminpar::PartitionerBuilder` call sat behind.
type Partitioner interface {
	Partition(cg *CondensationGraph, numPartitions uint32, seed uint64) (map[uint32]uint32, error)
}

// GreedyPartitioner is the shipped default Partitioner: a deterministic-
// given-seed greedy load-balancing pass. Groups are visited in a seed-
// shuffled order and each is assigned to whichever partition currently
// holds the least total weight, which keeps partitions close to balanced
// without needing an external multilevel partitioning library.
type GreedyPartitioner struct{}

func (GreedyPartitioner) Partition(cg *CondensationGraph, numPartitions uint32, seed uint64) (map[uint32]uint32, error) {
	if numPartitions == 0 {
		return nil, fmt.Errorf("partition: numPartitions must be > 0")
	}

	order := make([]uint32, len(cg.Groups))
	copy(order, cg.Groups)
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	load := make([]int, numPartitions)
	assignment := make(map[uint32]uint32, len(order))
	for _, grp := range order {
		best := uint32(0)
		for p := uint32(1); p < numPartitions; p++ {
			if load[p] < load[best] {
				best = p
			}
		}
		assignment[grp] = best
		load[best] += cg.Sizes[grp]
	}

	return assignment, nil
}
