package tacos

import "fmt"

// traceLinkDelays prints the distinct link delays a run will step through,
// gated by verbose. Grounded on the teacher's AddNetTrace/AddSchedulerTrace
// pattern of timestamped, human-readable, opt-in event lines -- simplified
// here since synthesis needs no persistent trace manager, just stdout.
func traceLinkDelays(verbose bool, delays []Time) {
	if !verbose {
		return
	}
	fmt.Printf("tacos: %d distinct link delay(s): %v\n", len(delays), delays)
}

// traceMatch prints one link-chunk match, gated by verbose.
func traceMatch(verbose bool, t Time, chunk ChunkID, src, dest NpuID) {
	if !verbose {
		return
	}
	fmt.Printf("tacos: t=%d chunk=%d %d->%d\n", t, chunk, src, dest)
}
