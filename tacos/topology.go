// Package tacos synthesizes a topology-aware All-Gather transmission
// schedule for a point-to-point NPU interconnect, using a time-expanded
// network abstraction and a choice of link-chunk matching strategies.
package tacos

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// NpuID identifies a compute endpoint in the topology.
type NpuID int

// ChunkID identifies an atomic unit of collective data.
type ChunkID int

// Time is a point in simulated time, in picoseconds.
type Time int64

// Topology holds the connectivity, per-link latency/bandwidth, and derived
// per-link delay of a point-to-point interconnect. Construction happens in
// two phases: SetNpusCount allocates the adjacency tables, then any number
// of Connect calls populate them; SetChunkSize freezes the chunk size and
// computes every connected link's delay. Queries before the relevant phase
// has completed, or with an out-of-range NpuID, are programmer errors and
// panic.
type Topology struct {
	npusCount    int
	npusCountSet bool
	chunkSize    int64
	chunkSizeSet bool

	connected     [][]bool
	latencyNs     [][]float64
	bandwidthGBps [][]float64
	linkDelay     [][]Time

	distinctLinkDelays map[Time]struct{}
	linksCount         int
}

// NewTopology returns an empty Topology awaiting SetNpusCount.
func NewTopology() *Topology {
	return &Topology{}
}

// SetNpusCount allocates the n×n adjacency tables. Callable once.
func (t *Topology) SetNpusCount(n int) {
	if t.npusCountSet {
		panic("tacos: SetNpusCount called more than once")
	}
	if n <= 0 {
		panic(fmt.Errorf("tacos: npusCount must be positive, got %d", n))
	}

	t.npusCount = n
	t.npusCountSet = true

	t.connected = make([][]bool, n)
	t.latencyNs = make([][]float64, n)
	t.bandwidthGBps = make([][]float64, n)
	t.linkDelay = make([][]Time, n)
	for i := 0; i < n; i++ {
		t.connected[i] = make([]bool, n)
		t.latencyNs[i] = make([]float64, n)
		t.bandwidthGBps[i] = make([]float64, n)
		t.linkDelay[i] = make([]Time, n)
		for j := 0; j < n; j++ {
			t.latencyNs[i][j] = -1
			t.bandwidthGBps[i][j] = -1
		}
	}
}

// Connect adds a directed link src->dest with the given latency (ns) and
// bandwidth (GB/s). If bidirectional, the reverse link is added with the
// same attributes. src and dest must differ, an edge may not be connected
// twice, and no edge may be added after SetChunkSize.
func (t *Topology) Connect(src, dest NpuID, latencyNs, bandwidthGBps float64, bidirectional bool) {
	t.requireNpusCountSet()
	if t.chunkSizeSet {
		panic("tacos: Connect called after SetChunkSize")
	}
	t.requireValidNpu(src)
	t.requireValidNpu(dest)
	if src == dest {
		panic(fmt.Errorf("tacos: cannot connect npu %d to itself", src))
	}
	if latencyNs < 0 {
		panic(fmt.Errorf("tacos: latency must be non-negative, got %g", latencyNs))
	}
	if bandwidthGBps <= 0 {
		panic(fmt.Errorf("tacos: bandwidth must be positive, got %g", bandwidthGBps))
	}
	if t.connected[src][dest] {
		panic(fmt.Errorf("tacos: duplicate edge %d -> %d", src, dest))
	}

	t.connected[src][dest] = true
	t.latencyNs[src][dest] = latencyNs
	t.bandwidthGBps[src][dest] = bandwidthGBps
	t.linksCount++

	if bidirectional {
		t.Connect(dest, src, latencyNs, bandwidthGBps, false)
	}
}

// IsConnected reports whether a directed link src->dest exists.
func (t *Topology) IsConnected(src, dest NpuID) bool {
	t.requireNpusCountSet()
	t.requireValidNpu(src)
	t.requireValidNpu(dest)
	return t.connected[src][dest]
}

// SetChunkSize freezes the chunk size and computes linkDelay (in
// picoseconds) for every connected pair using the alpha-beta model:
// delay_ns = latency_ns + chunkSize / (bandwidth_GBps * 2^30/1e9). Callable
// once, after all Connect calls.
func (t *Topology) SetChunkSize(bytes int64) {
	t.requireNpusCountSet()
	if t.chunkSizeSet {
		panic("tacos: SetChunkSize called more than once")
	}
	if bytes <= 0 {
		panic(fmt.Errorf("tacos: chunkSize must be positive, got %d", bytes))
	}

	t.chunkSize = bytes
	t.chunkSizeSet = true
	t.distinctLinkDelays = make(map[Time]struct{})

	for s := 0; s < t.npusCount; s++ {
		for d := 0; d < t.npusCount; d++ {
			if !t.connected[s][d] {
				continue
			}
			delay := t.computeLinkDelay(NpuID(s), NpuID(d))
			t.linkDelay[s][d] = delay
			t.distinctLinkDelays[delay] = struct{}{}
		}
	}
}

func (t *Topology) computeLinkDelay(src, dest NpuID) Time {
	bandwidthBytesPerNs := t.bandwidthGBps[src][dest] * (1 << 30) / 1e9
	delayNs := t.latencyNs[src][dest] + float64(t.chunkSize)/bandwidthBytesPerNs
	delayPs := delayNs * 1e3
	return Time(delayPs)
}

// GetNpusCount returns the number of NPUs in the topology.
func (t *Topology) GetNpusCount() int {
	t.requireNpusCountSet()
	return t.npusCount
}

// GetLinkDelay returns the picosecond delay of the connected link src->dest.
func (t *Topology) GetLinkDelay(src, dest NpuID) Time {
	t.requireChunkSizeSet()
	t.requireValidNpu(src)
	t.requireValidNpu(dest)
	return t.linkDelay[src][dest]
}

// GetLatency returns the nanosecond latency of src->dest.
func (t *Topology) GetLatency(src, dest NpuID) float64 {
	t.requireNpusCountSet()
	t.requireValidNpu(src)
	t.requireValidNpu(dest)
	return t.latencyNs[src][dest]
}

// GetBandwidth returns the GB/s bandwidth of src->dest.
func (t *Topology) GetBandwidth(src, dest NpuID) float64 {
	t.requireNpusCountSet()
	t.requireValidNpu(src)
	t.requireValidNpu(dest)
	return t.bandwidthGBps[src][dest]
}

// GetLinksCount returns the number of directed links connected so far.
func (t *Topology) GetLinksCount() int {
	return t.linksCount
}

// GetDistinctLinkDelays returns the distinct linkDelay values over all
// connected pairs, sorted ascending.
func (t *Topology) GetDistinctLinkDelays() []Time {
	t.requireChunkSizeSet()
	delays := make([]Time, 0, len(t.distinctLinkDelays))
	for d := range t.distinctLinkDelays {
		delays = append(delays, d)
	}
	slices.Sort(delays)
	return delays
}

func (t *Topology) requireNpusCountSet() {
	if !t.npusCountSet {
		panic("tacos: topology queried before SetNpusCount")
	}
}

func (t *Topology) requireChunkSizeSet() {
	if !t.chunkSizeSet {
		panic("tacos: topology queried before SetChunkSize")
	}
}

func (t *Topology) requireValidNpu(npu NpuID) {
	if npu < 0 || int(npu) >= t.npusCount {
		panic(fmt.Errorf("tacos: npu id %d out of range [0,%d)", npu, t.npusCount))
	}
}
