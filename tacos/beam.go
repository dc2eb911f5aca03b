package tacos

import "fmt"

// beamState is one beam's independent view of the synthesis: its own TEN,
// its own live precondition/postcondition, its own RNG stream, and its own
// result log. Only the EventQueue is shared across beams.
type beamState struct {
	rng           *RNG
	ten           *TimeExpandedNetwork
	precondition  map[NpuID]map[ChunkID]struct{}
	postcondition map[NpuID]map[ChunkID]struct{}
	result        *SynthesisResult
	done          bool
}

// Beam advances k independently-seeded states in lockstep against one
// shared event queue, and returns whichever beam finished with the
// smallest collective time.
type Beam struct {
	topology   *Topology
	collective *Collective
	k          int
	verbose    bool
	baseSeed   string

	distinctLinkDelays []Time
	maxEvents          int
}

// NewBeam builds a Beam ready to Synthesize k parallel schedules for
// collective over topology.
func NewBeam(topology *Topology, collective *Collective, k int, baseSeed string, verbose bool) *Beam {
	return &Beam{
		topology:           topology,
		collective:         collective,
		k:                  k,
		verbose:            verbose,
		baseSeed:           baseSeed,
		distinctLinkDelays: topology.GetDistinctLinkDelays(),
		maxEvents:          defaultMaxEventMultiplier * (topology.GetNpusCount()*collective.GetChunksCount() + 1),
	}
}

// Synthesize runs all k beams to completion (or failure) and returns the
// best result.
func (b *Beam) Synthesize() (SynthesisResult, error) {
	if b.k < 1 {
		return SynthesisResult{}, fmt.Errorf("tacos: Beam requires k >= 1, got %d", b.k)
	}

	beams := make([]*beamState, b.k)
	for i := 0; i < b.k; i++ {
		precondition := b.collective.GetPrecondition()
		postcondition := b.collective.GetPostcondition()
		pruneEmpty(precondition)
		pruneEmpty(postcondition)

		bs := &beamState{
			rng:           NewRNG(fmt.Sprintf("%s#beam%d", b.baseSeed, i)),
			ten:           NewTimeExpandedNetwork(b.topology),
			precondition:  precondition,
			postcondition: postcondition,
			result:        NewSynthesisResult(b.topology, b.collective),
		}
		if len(bs.postcondition) == 0 {
			bs.result.SetCollectiveTime(0)
			bs.done = true
		}
		beams[i] = bs
	}

	if allBeamsDone(beams) {
		return *bestBeam(beams).result, nil
	}
	if len(b.distinctLinkDelays) == 0 {
		return SynthesisResult{}, fmt.Errorf("tacos: postcondition is non-empty but topology has no connected links")
	}

	eventQueue := NewEventQueue()
	eventQueue.Schedule(0)

	events := 0
	for !eventQueue.Empty() {
		events++
		if events > b.maxEvents {
			return SynthesisResult{}, fmt.Errorf("tacos: exceeded event budget (%d); postcondition is likely unreachable", b.maxEvents)
		}

		t := eventQueue.Pop()
		for _, bs := range beams {
			if bs.done {
				continue
			}
			matchLinksAtTime(b.topology, bs.ten, bs.precondition, bs.postcondition, bs.rng, RandomPolicy, bs.result, t, b.verbose)
			if len(bs.postcondition) == 0 {
				bs.result.SetCollectiveTime(t)
				bs.done = true
			}
		}

		if allBeamsDone(beams) {
			return *bestBeam(beams).result, nil
		}
		scheduleNextEvents(eventQueue, t, b.distinctLinkDelays)
	}

	unfinished := 0
	for _, bs := range beams {
		if !bs.done {
			unfinished++
		}
	}
	return SynthesisResult{}, fmt.Errorf("tacos: event queue drained with %d of %d beam(s) unfinished", unfinished, len(beams))
}

func allBeamsDone(beams []*beamState) bool {
	for _, bs := range beams {
		if !bs.done {
			return false
		}
	}
	return true
}

func bestBeam(beams []*beamState) *beamState {
	best := beams[0]
	for _, bs := range beams[1:] {
		if bs.result.CollectiveTime() < best.result.CollectiveTime() {
			best = bs
		}
	}
	return best
}
