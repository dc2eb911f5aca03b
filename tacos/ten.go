package tacos

// ten.go implements the time-expanded network: the "backtracking" query
// that, given a destination and an arrival time t, finds every source
// that could have started a transmission landing exactly at t. A
// transmission over link src->dest that arrives at t must have started at
// t - delay(src,dest); that start time must be non-negative (nothing can
// be scheduled before the synthesis begins) and the link must have been
// free to begin a new transmission at that moment.
type TimeExpandedNetwork struct {
	topology  *Topology
	npusCount int

	// linkFreeAt[s][d] is the earliest time link s->d may start a new
	// transmission. A link is free from t=0 until its first use.
	linkFreeAt [][]Time
}

// NewTimeExpandedNetwork returns a TEN over topology with every link free
// from time 0.
func NewTimeExpandedNetwork(topology *Topology) *TimeExpandedNetwork {
	n := topology.GetNpusCount()
	ten := &TimeExpandedNetwork{
		topology:   topology,
		npusCount:  n,
		linkFreeAt: make([][]Time, n),
	}
	for i := 0; i < n; i++ {
		ten.linkFreeAt[i] = make([]Time, n)
	}
	return ten
}

// BacktrackTEN returns, in ascending NpuID order, every source able to
// deliver a chunk to dest arriving exactly at currentTime: connected to
// dest, with enough elapsed time since t=0 for the full link delay to have
// passed, and with its link free at the backtracked start time.
func (ten *TimeExpandedNetwork) BacktrackTEN(dest NpuID, currentTime Time) []NpuID {
	sources := make([]NpuID, 0)
	for s := 0; s < ten.npusCount; s++ {
		src := NpuID(s)
		if !ten.topology.IsConnected(src, dest) {
			continue
		}
		startTime := currentTime - ten.topology.GetLinkDelay(src, dest)
		if startTime < 0 {
			continue
		}
		if ten.linkFreeAt[src][dest] <= startTime {
			sources = append(sources, src)
		}
	}
	return sources
}

// MarkLinkOccupied records that src->dest has just delivered a chunk
// arriving at currentTime: the link cannot start another transmission
// before currentTime.
func (ten *TimeExpandedNetwork) MarkLinkOccupied(src, dest NpuID, currentTime Time) {
	ten.linkFreeAt[src][dest] = currentTime
}
