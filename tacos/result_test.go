package tacos

import "testing"

func TestMarkLinkChunkMatchUpdatesBothEnds(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(2)
	top.Connect(0, 1, 500, 50, true)
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(2, 1, 1<<20)
	result := NewSynthesisResult(top, collective)

	delay := top.GetLinkDelay(0, 1)
	result.MarkLinkChunkMatch(0, 0, 1, delay, 0)

	egress := result.NpuResult(0).EgressLinkInfo(1)
	if len(egress) != 1 || egress[0].Chunk != 0 || egress[0].ArrivalTime != delay {
		t.Fatalf("unexpected egress log: %+v", egress)
	}

	ingress := result.NpuResult(1).IngressLinkInfo(0)
	if len(ingress) != 1 || ingress[0].Chunk != 0 || ingress[0].ArrivalTime != delay {
		t.Fatalf("unexpected ingress log: %+v", ingress)
	}
}

func TestDependencyInfoTracksLatestIngress(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(3)
	top.Connect(0, 1, 500, 50, true)
	top.Connect(2, 1, 500, 50, true)
	top.SetChunkSize(1 << 20)

	collective := NewAllGather(3, 1, 1<<20)
	result := NewSynthesisResult(top, collective)
	npu1 := result.NpuResult(1)

	if npu1.dependencyInfo[0] != noDependency {
		t.Fatalf("chunk 0 should start with no recorded dependency")
	}

	result.MarkLinkChunkMatch(0, 0, 1, 1000, 500)
	if npu1.dependencyInfo[0] != 0 {
		t.Fatalf("dependencyInfo[0] = %d, want 0 (first ingress entry)", npu1.dependencyInfo[0])
	}
}

func TestCollectiveTimeAccessors(t *testing.T) {
	top := NewTopology()
	top.SetNpusCount(1)
	top.SetChunkSize(1 << 20)
	collective := NewAllGather(1, 1, 1<<20)
	result := NewSynthesisResult(top, collective)

	result.SetCollectiveTime(12345)
	if result.CollectiveTime() != 12345 {
		t.Fatalf("CollectiveTime() = %d, want 12345", result.CollectiveTime())
	}
}
