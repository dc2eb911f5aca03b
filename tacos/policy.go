package tacos

import "sort"

// SourceSelectionPolicy picks one NPU from candidates to serve dest next.
// Engine is parameterized by a policy rather than by an inheritance
// hierarchy: Random and Greedy are the same matching loop with a different
// closure plugged in (per the design note on tagged-variant policies
// instead of subclassing). Beam takes no policy; every beam uses
// RandomPolicy.
type SourceSelectionPolicy func(topology *Topology, candidates []NpuID, dest NpuID, rng *RNG) NpuID

// RandomPolicy draws uniformly among candidates.
func RandomPolicy(topology *Topology, candidates []NpuID, dest NpuID, rng *RNG) NpuID {
	idx := rng.Intn(len(candidates))
	return candidates[idx]
}

// GreedyPolicy orders candidates by descending link delay into dest
// (ties broken by ascending NpuID) and returns the second entry: the
// second-slowest candidate, not the slowest. This is the original
// algorithm's behavior, preserved verbatim; for exactly two candidates it
// happens to pick the faster one, which looks like a bug but is not one
// this implementation introduces or corrects.
func GreedyPolicy(topology *Topology, candidates []NpuID, dest NpuID, rng *RNG) NpuID {
	if len(candidates) == 1 {
		return candidates[0]
	}

	sorted := make([]NpuID, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		di := topology.GetLinkDelay(sorted[i], dest)
		dj := topology.GetLinkDelay(sorted[j], dest)
		if di != dj {
			return di > dj
		}
		return sorted[i] < sorted[j]
	})
	return sorted[1]
}
