package tacos

import (
	"fmt"
	"testing"
)

func asymmetricThreeNpuTopology() *Topology {
	top := NewTopology()
	top.SetNpusCount(3)
	top.Connect(0, 1, 100, 100, false) // fast
	top.Connect(1, 0, 2000, 5, false)  // slow
	top.Connect(0, 2, 2000, 5, false)  // slow
	top.Connect(2, 0, 100, 100, false) // fast
	top.Connect(1, 2, 500, 50, true)   // moderate
	top.SetChunkSize(1 << 20)
	return top
}

func TestSynthesizeMultipleReturnsMinimumAcrossTrials(t *testing.T) {
	top := asymmetricThreeNpuTopology()
	collective := NewAllGather(3, 1, 1<<20)

	multiResult, err := SynthesizeMultiple(top, collective, 5, "s5", false)
	if err != nil {
		t.Fatalf("SynthesizeMultiple() error: %v", err)
	}

	for trial := 0; trial < 5; trial++ {
		seed := fmt.Sprintf("s5#trial%d", trial)
		singleResult, err := NewEngine(top, collective, RandomPolicy, seed, false).Synthesize()
		if err != nil {
			t.Fatalf("trial %d Synthesize() error: %v", trial, err)
		}
		if multiResult.CollectiveTime() > singleResult.CollectiveTime() {
			t.Fatalf("SynthesizeMultiple's result (%d) should be <= single random trial %d (%d)",
				multiResult.CollectiveTime(), trial, singleResult.CollectiveTime())
		}
	}
}

func TestSynthesizeMultipleRejectsNonPositiveK(t *testing.T) {
	top := asymmetricThreeNpuTopology()
	collective := NewAllGather(3, 1, 1<<20)

	if _, err := SynthesizeMultiple(top, collective, 0, "s5", false); err == nil {
		t.Fatalf("expected an error for k=0")
	}
}
