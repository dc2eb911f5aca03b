package tacos

import "testing"

func TestEngineTwoNpuRing(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(2)
	top.Connect(0, 1, 500, 50, true)
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(2, 1, 1<<20)

	engine := NewEngine(top, collective, GreedyPolicy, "s1", false)
	result, err := engine.Synthesize()
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}

	want := top.GetLinkDelay(0, 1)
	if result.CollectiveTime() != want {
		t.Fatalf("CollectiveTime() = %d, want %d", result.CollectiveTime(), want)
	}

	if len(result.NpuResult(1).IngressLinkInfo(0)) != 1 {
		t.Fatalf("npu 1 should have received exactly one chunk from npu 0")
	}
	if len(result.NpuResult(0).IngressLinkInfo(1)) != 1 {
		t.Fatalf("npu 0 should have received exactly one chunk from npu 1")
	}
}

func TestEngineUnidirectionalRingTakesFourHops(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(5)
	for i := 0; i < 5; i++ {
		top.Connect(NpuID(i), NpuID((i+1)%5), 500, 50, false)
	}
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(5, 1, 1<<20)
	engine := NewEngine(top, collective, GreedyPolicy, "s2", false)
	result, err := engine.Synthesize()
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}

	delay := top.GetLinkDelay(0, 1)
	want := 4 * delay
	if result.CollectiveTime() != want {
		t.Fatalf("CollectiveTime() = %d, want %d (4 hops)", result.CollectiveTime(), want)
	}
}

func TestEngineFullyConnectedFinishesInOneRound(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if i != j {
				top.Connect(NpuID(i), NpuID(j), 100, 100, false)
			}
		}
	}
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(4, 1, 1<<20)
	engine := NewEngine(top, collective, GreedyPolicy, "s3", false)
	result, err := engine.Synthesize()
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}

	want := top.GetLinkDelay(0, 1)
	if result.CollectiveTime() != want {
		t.Fatalf("CollectiveTime() = %d, want %d", result.CollectiveTime(), want)
	}
}

func TestGreedyMatchesRandomWhenOnlyOneCandidate(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(5)
	for i := 0; i < 5; i++ {
		top.Connect(NpuID(i), NpuID((i+1)%5), 500, 50, false)
	}
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(5, 1, 1<<20)

	greedyResult, err := NewEngine(top, collective, GreedyPolicy, "s4", false).Synthesize()
	if err != nil {
		t.Fatalf("greedy Synthesize() error: %v", err)
	}
	randomResult, err := NewEngine(top, collective, RandomPolicy, "s4", false).Synthesize()
	if err != nil {
		t.Fatalf("random Synthesize() error: %v", err)
	}

	if greedyResult.CollectiveTime() != randomResult.CollectiveTime() {
		t.Fatalf("with a single candidate per hop, greedy (%d) and random (%d) should match",
			greedyResult.CollectiveTime(), randomResult.CollectiveTime())
	}
}

func TestSynthesisIsDeterministicUnderFixedSeed(t *testing.T) {
	buildTopology := func() *Topology {
		top := NewTopology()
		top.SetNpusCount(5)
		for i := 0; i < 5; i++ {
			top.Connect(NpuID(i), NpuID((i+1)%5), 500, 50, false)
		}
		top.SetChunkSize(1 << 20)
		return top
	}

	collective1 := NewAllGather(5, 1, 1<<20)
	result1, err := NewEngine(buildTopology(), collective1, RandomPolicy, "determinism", false).Synthesize()
	if err != nil {
		t.Fatalf("run 1 error: %v", err)
	}

	collective2 := NewAllGather(5, 1, 1<<20)
	result2, err := NewEngine(buildTopology(), collective2, RandomPolicy, "determinism", false).Synthesize()
	if err != nil {
		t.Fatalf("run 2 error: %v", err)
	}

	if result1.CollectiveTime() != result2.CollectiveTime() {
		t.Fatalf("same seed produced different collective times: %d vs %d", result1.CollectiveTime(), result2.CollectiveTime())
	}
	for npu := 0; npu < 5; npu++ {
		for peer := 0; peer < 5; peer++ {
			e1 := result1.NpuResult(NpuID(npu)).EgressLinkInfo(NpuID(peer))
			e2 := result2.NpuResult(NpuID(npu)).EgressLinkInfo(NpuID(peer))
			if len(e1) != len(e2) {
				t.Fatalf("npu %d egress to %d differs in length: %d vs %d", npu, peer, len(e1), len(e2))
			}
			for i := range e1 {
				if e1[i] != e2[i] {
					t.Fatalf("npu %d egress to %d entry %d differs: %+v vs %+v", npu, peer, i, e1[i], e2[i])
				}
			}
		}
	}
}

func TestSingleNpuCollectiveFinishesImmediately(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(1)
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(1, 1, 1<<20)
	result, err := NewEngine(top, collective, GreedyPolicy, "single", false).Synthesize()
	if err != nil {
		t.Fatalf("Synthesize() error: %v", err)
	}
	if result.CollectiveTime() != 0 {
		t.Fatalf("CollectiveTime() = %d, want 0 for a single npu", result.CollectiveTime())
	}
}

func TestUnreachablePostconditionIsAnError(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(2)
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(2, 1, 1<<20)
	_, err := NewEngine(top, collective, GreedyPolicy, "disconnected", false).Synthesize()
	if err == nil {
		t.Fatalf("expected an error for a disconnected topology, got nil")
	}
}
