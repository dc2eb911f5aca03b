package tacos

import "fmt"

// noDependency marks a chunk with no recorded ingress yet. An int sentinel
// is used instead of *int: dependencyInfo is read far more often than it is
// written, and a sentinel avoids a pointer indirection and nil-check at
// every read site.
const noDependency = -1

// ingressEntry records one chunk arriving at an NPU over one link.
type ingressEntry struct {
	Chunk                 ChunkID
	ArrivalTime           Time
	TransmissionStartTime Time
}

// egressEntry records one chunk leaving an NPU over one link.
type egressEntry struct {
	Chunk                 ChunkID
	ArrivalTime           Time
	TransmissionStartTime Time
}

// NpuResult holds one NPU's per-peer ingress/egress logs and, for every
// chunk, the index into its own ingress log that produced that chunk
// locally (noDependency if the chunk was never received, e.g. it was
// already owned at t=0).
type NpuResult struct {
	npu             NpuID
	ingressLinksInfo map[NpuID][]ingressEntry
	egressLinksInfo  map[NpuID][]egressEntry
	dependencyInfo   map[ChunkID]int
}

func newNpuResult(npu NpuID, topology *Topology, collective *Collective) *NpuResult {
	r := &NpuResult{
		npu:              npu,
		ingressLinksInfo: make(map[NpuID][]ingressEntry),
		egressLinksInfo:  make(map[NpuID][]egressEntry),
		dependencyInfo:   make(map[ChunkID]int),
	}
	n := topology.GetNpusCount()
	for peer := 0; peer < n; peer++ {
		if NpuID(peer) == npu {
			continue
		}
		if topology.IsConnected(NpuID(peer), npu) {
			r.ingressLinksInfo[NpuID(peer)] = nil
		}
		if topology.IsConnected(npu, NpuID(peer)) {
			r.egressLinksInfo[NpuID(peer)] = nil
		}
	}
	for chunk := 0; chunk < collective.GetChunksCount(); chunk++ {
		r.dependencyInfo[ChunkID(chunk)] = noDependency
	}
	return r
}

func (r *NpuResult) addIngress(src NpuID, chunk ChunkID, arrival, transmissionStart Time) {
	entries := r.ingressLinksInfo[src]
	entries = append(entries, ingressEntry{Chunk: chunk, ArrivalTime: arrival, TransmissionStartTime: transmissionStart})
	r.ingressLinksInfo[src] = entries
	r.dependencyInfo[chunk] = len(entries) - 1
}

func (r *NpuResult) addEgress(dest NpuID, chunk ChunkID, arrival, transmissionStart Time) {
	entries := r.egressLinksInfo[dest]
	entries = append(entries, egressEntry{Chunk: chunk, ArrivalTime: arrival, TransmissionStartTime: transmissionStart})
	r.egressLinksInfo[dest] = entries
}

// IngressLinkInfo returns the ingress log for chunks received from src.
func (r *NpuResult) IngressLinkInfo(src NpuID) []ingressEntry {
	return r.ingressLinksInfo[src]
}

// EgressLinkInfo returns the egress log for chunks sent to dest.
func (r *NpuResult) EgressLinkInfo(dest NpuID) []egressEntry {
	return r.egressLinksInfo[dest]
}

// Npu returns the NPU this result describes.
func (r *NpuResult) Npu() NpuID { return r.npu }

// SynthesisResult is the output of a synthesis run: per-NPU ingress/egress
// logs plus the collective's overall makespan.
type SynthesisResult struct {
	npuResults     []*NpuResult
	collectiveTime Time
}

// NewSynthesisResult allocates an empty per-NPU result set.
func NewSynthesisResult(topology *Topology, collective *Collective) *SynthesisResult {
	n := topology.GetNpusCount()
	sr := &SynthesisResult{npuResults: make([]*NpuResult, n)}
	for npu := 0; npu < n; npu++ {
		sr.npuResults[npu] = newNpuResult(NpuID(npu), topology, collective)
	}
	return sr
}

// MarkLinkChunkMatch records chunk's transfer over src->dest: an egress
// entry on src's result and an ingress entry on dest's result, both
// stamped with the same arrival time and transmission start time.
func (sr *SynthesisResult) MarkLinkChunkMatch(chunk ChunkID, src, dest NpuID, arrival, transmissionStart Time) {
	sr.npuResults[src].addEgress(dest, chunk, arrival, transmissionStart)
	sr.npuResults[dest].addIngress(src, chunk, arrival, transmissionStart)
}

// SetCollectiveTime records the makespan of the collective.
func (sr *SynthesisResult) SetCollectiveTime(t Time) { sr.collectiveTime = t }

// CollectiveTime returns the recorded makespan.
func (sr *SynthesisResult) CollectiveTime() Time { return sr.collectiveTime }

// NpuResult returns the result for one NPU.
func (sr *SynthesisResult) NpuResult(npu NpuID) *NpuResult {
	if npu < 0 || int(npu) >= len(sr.npuResults) {
		panic(fmt.Errorf("tacos: npu id %d out of range [0,%d)", npu, len(sr.npuResults)))
	}
	return sr.npuResults[npu]
}

// NpusCount returns the number of NPUs described by this result.
func (sr *SynthesisResult) NpusCount() int { return len(sr.npuResults) }
