package tacos

// reachability.go answers whether a postcondition can ever be satisfied
// over a topology at all, independent of timing: every chunk a
// destination needs must be reachable, over connected links, from some
// NPU that already holds it. Without this check a disconnected topology
// makes the synthesis event loop spin forever; Engine/Beam fall back on a
// maxEvents backstop regardless, but this check gives a precise error
// instead of a budget-exhaustion one.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Reachable returns an error naming the first (chunk, destination) pair in
// postcondition for which no NPU holding that chunk in precondition has a
// path to the destination over topology's connected links.
func Reachable(topology *Topology, precondition, postcondition map[NpuID]map[ChunkID]struct{}) error {
	n := topology.GetNpusCount()

	g := simple.NewWeightedDirectedGraph(0, math.Inf(1))
	for npu := 0; npu < n; npu++ {
		g.AddNode(simple.Node(int64(npu)))
	}
	for src := 0; src < n; src++ {
		for dest := 0; dest < n; dest++ {
			if topology.IsConnected(NpuID(src), NpuID(dest)) {
				g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(int64(src)), T: simple.Node(int64(dest)), W: 1})
			}
		}
	}

	trees := make(map[NpuID]path.Shortest)
	treeFrom := func(src NpuID) path.Shortest {
		if tree, ok := trees[src]; ok {
			return tree
		}
		tree := path.DijkstraFrom(simple.Node(int64(src)), g)
		trees[src] = tree
		return tree
	}

	holders := make(map[ChunkID][]NpuID)
	for npu, chunks := range precondition {
		for chunk := range chunks {
			holders[chunk] = append(holders[chunk], npu)
		}
	}

	for dest, chunks := range postcondition {
		for chunk := range chunks {
			reachable := false
			for _, src := range holders[chunk] {
				if src == dest {
					reachable = true
					break
				}
				_, weight := treeFrom(src).To(int64(dest))
				if !math.IsInf(weight, 1) {
					reachable = true
					break
				}
			}
			if !reachable {
				return fmt.Errorf("tacos: chunk %d required by npu %d is unreachable from any npu holding it", chunk, dest)
			}
		}
	}
	return nil
}
