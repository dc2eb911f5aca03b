package tacos

import (
	"fmt"
	"runtime"
	"sync"
)

// SynthesizeMultiple runs k independent random-policy trials and keeps the
// one with the smallest collective time. Trials are isolated (separate RNG
// stream, separate Engine, separate TEN) so they may run concurrently
// without synchronization beyond collecting results; ties keep the
// earliest-produced (lowest-index) trial.
func SynthesizeMultiple(topology *Topology, collective *Collective, k int, baseSeed string, verbose bool) (SynthesisResult, error) {
	if k < 1 {
		return SynthesisResult{}, fmt.Errorf("tacos: SynthesizeMultiple requires k >= 1, got %d", k)
	}

	results := make([]SynthesisResult, k)
	errs := make([]error, k)

	maxWorkers := runtime.GOMAXPROCS(0)
	if maxWorkers > k {
		maxWorkers = k
	}
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i := 0; i < k; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(trial int) {
			defer wg.Done()
			defer func() { <-sem }()

			engine := NewEngine(topology, collective, RandomPolicy, fmt.Sprintf("%s#trial%d", baseSeed, trial), verbose)
			res, err := engine.Synthesize()
			results[trial] = res
			errs[trial] = err
		}(i)
	}
	wg.Wait()

	best := -1
	for i := 0; i < k; i++ {
		if errs[i] != nil {
			continue
		}
		if best == -1 || results[i].CollectiveTime() < results[best].CollectiveTime() {
			best = i
		}
	}
	if best == -1 {
		return SynthesisResult{}, fmt.Errorf("tacos: all %d trials failed, e.g. %w", k, errs[0])
	}
	return results[best], nil
}
