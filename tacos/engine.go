package tacos

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// defaultMaxEventMultiplier bounds how many events a single synthesis run
// may process before it gives up, as a multiple of npusCount*chunksCount.
// It exists purely as a backstop against a postcondition that Reachable
// failed to flag as unreachable (e.g. a topology check skipped by a
// caller) looping the event queue forever.
const defaultMaxEventMultiplier = 64

// Engine drives link-chunk matching to completion for one synthesis run.
// Random and Greedy are the same Engine with RandomPolicy or GreedyPolicy
// plugged in; there is no separate type per strategy.
type Engine struct {
	topology   *Topology
	collective *Collective
	policy     SourceSelectionPolicy
	rng        *RNG
	verbose    bool
	maxEvents  int

	ten                *TimeExpandedNetwork
	eventQueue         *EventQueue
	precondition       map[NpuID]map[ChunkID]struct{}
	postcondition      map[NpuID]map[ChunkID]struct{}
	result             *SynthesisResult
	distinctLinkDelays []Time
}

// NewEngine builds an Engine ready to Synthesize a schedule for collective
// over topology, selecting among candidate sources with policy, driven by
// the named RNG seed.
func NewEngine(topology *Topology, collective *Collective, policy SourceSelectionPolicy, seed string, verbose bool) *Engine {
	e := &Engine{
		topology:           topology,
		collective:         collective,
		policy:             policy,
		rng:                NewRNG(seed),
		verbose:            verbose,
		ten:                NewTimeExpandedNetwork(topology),
		eventQueue:         NewEventQueue(),
		precondition:       collective.GetPrecondition(),
		postcondition:      collective.GetPostcondition(),
		result:             NewSynthesisResult(topology, collective),
		distinctLinkDelays: topology.GetDistinctLinkDelays(),
	}
	pruneEmpty(e.precondition)
	pruneEmpty(e.postcondition)
	e.maxEvents = defaultMaxEventMultiplier * (topology.GetNpusCount()*collective.GetChunksCount() + 1)
	traceLinkDelays(verbose, e.distinctLinkDelays)
	return e
}

// Synthesize runs the link-chunk matching loop to completion and returns
// the resulting schedule, or an error if the postcondition cannot be
// satisfied (disconnected topology, or the event budget is exhausted
// first).
func (e *Engine) Synthesize() (SynthesisResult, error) {
	if len(e.postcondition) == 0 {
		e.result.SetCollectiveTime(0)
		return *e.result, nil
	}
	if len(e.distinctLinkDelays) == 0 {
		return SynthesisResult{}, fmt.Errorf("tacos: postcondition is non-empty but topology has no connected links")
	}

	e.eventQueue.Schedule(0)
	events := 0
	for !e.eventQueue.Empty() {
		events++
		if events > e.maxEvents {
			return SynthesisResult{}, fmt.Errorf("tacos: exceeded event budget (%d); postcondition is likely unreachable", e.maxEvents)
		}

		t := e.eventQueue.Pop()
		matchLinksAtTime(e.topology, e.ten, e.precondition, e.postcondition, e.rng, e.policy, e.result, t, e.verbose)

		if len(e.postcondition) == 0 {
			e.result.SetCollectiveTime(t)
			return *e.result, nil
		}
		scheduleNextEvents(e.eventQueue, t, e.distinctLinkDelays)
	}

	return SynthesisResult{}, fmt.Errorf("tacos: event queue drained with %d destination(s) still unsatisfied", len(e.postcondition))
}

// scheduleNextEvents schedules t+d for every distinct link delay d: the
// set of future times at which some link could next become free.
func scheduleNextEvents(eq *EventQueue, t Time, distinctLinkDelays []Time) {
	for _, d := range distinctLinkDelays {
		eq.Schedule(t + d)
	}
}

// matchLinksAtTime resolves as many link-chunk matches as possible at the
// TEN's current time. Candidate-source checks use a snapshot of
// precondition taken at the start of this tick, so a chunk that arrives
// during this tick cannot be forwarded again in the same tick; matches
// themselves mutate the live precondition/postcondition directly.
func matchLinksAtTime(
	topology *Topology,
	ten *TimeExpandedNetwork,
	precondition, postcondition map[NpuID]map[ChunkID]struct{},
	rng *RNG,
	policy SourceSelectionPolicy,
	result *SynthesisResult,
	currentTime Time,
	verbose bool,
) {
	snapshot := deepCopyChunkSets(precondition)
	working := deepCopyChunkSets(postcondition)
	pruneEmpty(working)

	for len(working) > 0 {
		dest, chunk := selectPostcondition(working, rng)

		candidates := candidateSources(topology, ten, snapshot, dest, chunk, currentTime)
		if len(candidates) == 0 {
			removeChunk(working, dest, chunk)
			continue
		}

		src := policy(topology, candidates, dest, rng)
		markLinkChunkMatch(topology, ten, precondition, postcondition, result, src, dest, chunk, currentTime, verbose)
		removeChunk(working, dest, chunk)
	}
}

// candidateSources returns, in ascending NpuID order, every source able to
// deliver chunk to dest right now: it holds chunk as of the tick-start
// snapshot, and it has a currently available link into dest.
func candidateSources(topology *Topology, ten *TimeExpandedNetwork, snapshotPrecondition map[NpuID]map[ChunkID]struct{}, dest NpuID, chunk ChunkID, currentTime Time) []NpuID {
	backtrack := ten.BacktrackTEN(dest, currentTime)
	candidates := make([]NpuID, 0, len(backtrack))
	for _, src := range backtrack {
		if _, ok := snapshotPrecondition[src][chunk]; ok {
			candidates = append(candidates, src)
		}
	}
	return candidates
}

// markLinkChunkMatch commits one link-chunk match: records it in result,
// occupies the link in the TEN, and updates the live precondition and
// postcondition.
func markLinkChunkMatch(
	topology *Topology,
	ten *TimeExpandedNetwork,
	precondition, postcondition map[NpuID]map[ChunkID]struct{},
	result *SynthesisResult,
	src, dest NpuID,
	chunk ChunkID,
	currentTime Time,
	verbose bool,
) {
	delay := topology.GetLinkDelay(src, dest)
	transmissionStart := currentTime - delay

	result.MarkLinkChunkMatch(chunk, src, dest, currentTime, transmissionStart)
	ten.MarkLinkOccupied(src, dest, currentTime)
	traceMatch(verbose, currentTime, chunk, src, dest)

	if precondition[dest] == nil {
		precondition[dest] = make(map[ChunkID]struct{})
	}
	precondition[dest][chunk] = struct{}{}
	removeChunk(postcondition, dest, chunk)
}

func removeChunk(m map[NpuID]map[ChunkID]struct{}, npu NpuID, chunk ChunkID) {
	chunks, ok := m[npu]
	if !ok {
		return
	}
	delete(chunks, chunk)
	if len(chunks) == 0 {
		delete(m, npu)
	}
}

// selectPostcondition draws one (dest, chunk) pair from working uniformly
// at random. Go's map iteration order is randomized, so both the dest keys
// and the chosen dest's chunk keys are sorted ascending before indexing
// with the RNG draw, matching an ordered-map's deterministic iteration and
// keeping a fixed seed reproducible.
func selectPostcondition(working map[NpuID]map[ChunkID]struct{}, rng *RNG) (NpuID, ChunkID) {
	dests := make([]NpuID, 0, len(working))
	for npu := range working {
		dests = append(dests, npu)
	}
	slices.Sort(dests)
	dest := dests[rng.Intn(len(dests))]

	chunkSet := working[dest]
	chunks := make([]ChunkID, 0, len(chunkSet))
	for c := range chunkSet {
		chunks = append(chunks, c)
	}
	slices.Sort(chunks)
	chunk := chunks[rng.Intn(len(chunks))]

	return dest, chunk
}
