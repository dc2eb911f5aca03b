// Command tacos synthesizes an All-Gather transmission schedule for a
// point-to-point NPU interconnect described by a CSV topology file.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tacos-synth/tacos/tacos"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("tacos", flag.ContinueOnError)
	topologyFile := flags.String("topology", "", "CSV topology file (required)")
	chunkSize := flags.Int64("chunk-size", 1<<20, "chunk size in bytes")
	chunksPerNpu := flags.Int("chunks-per-npu", 1, "initial chunks owned by each npu")
	variant := flags.String("variant", "greedy", "synthesis variant: random, greedy, multiple, beam")
	k := flags.Int("k", 1, "trial/beam count, for variant multiple or beam")
	seed := flags.String("seed", "tacos", "RNG seed")
	verbose := flags.Bool("verbose", false, "trace matches as they are made")
	out := flags.String("out", "", "output CSV file (default: derived from the topology file name)")
	config := flags.String("config", "", "read a RunConfig from this file instead of flags")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	rc := tacos.DefaultRunConfig()
	if *config != "" {
		loaded, err := tacos.ReadRunConfig(*config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tacos: reading config: %v\n", err)
			return 1
		}
		rc = loaded
	} else {
		rc.TopologyFile = *topologyFile
		rc.ChunkSize = *chunkSize
		rc.ChunksPerNpu = *chunksPerNpu
		rc.Variant = tacos.Variant(*variant)
		rc.K = *k
		rc.Seed = *seed
		rc.Verbose = *verbose
		rc.OutputFile = *out
	}

	if err := rc.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "tacos: %v\n", err)
		return 1
	}

	fmt.Println("[TACOS]")
	fmt.Println()

	topology, err := tacos.ConnectFromFile(rc.TopologyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tacos: reading topology: %v\n", err)
		return 1
	}
	topology.SetChunkSize(rc.ChunkSize)
	npusCount := topology.GetNpusCount()

	fmt.Println("[Topology Information]")
	fmt.Printf("\t- NPUs Count: %d\n", npusCount)
	fmt.Printf("\t- Links Count: %d\n", topology.GetLinksCount())
	fmt.Println()

	collective := tacos.NewAllGather(npusCount, rc.ChunksPerNpu, rc.ChunkSize)

	fmt.Println("[Collective Information]")
	fmt.Printf("\t- Chunks Count: %d\n", collective.GetChunksCount())
	fmt.Printf("\t- Chunk Size: %d B\n", collective.GetChunkSize())
	fmt.Println()

	if err := tacos.Reachable(topology, collective.GetPrecondition(), collective.GetPostcondition()); err != nil {
		fmt.Fprintf(os.Stderr, "tacos: %v\n", err)
		return 1
	}

	fmt.Println("[Synthesis Process]")
	fmt.Printf("\t- Using %s\n", rc.Variant)
	start := time.Now()

	var result tacos.SynthesisResult
	switch rc.Variant {
	case tacos.VariantRandom:
		result, err = tacos.NewEngine(topology, collective, tacos.RandomPolicy, rc.Seed, rc.Verbose).Synthesize()
	case tacos.VariantGreedy:
		result, err = tacos.NewEngine(topology, collective, tacos.GreedyPolicy, rc.Seed, rc.Verbose).Synthesize()
	case tacos.VariantMultiple:
		result, err = tacos.SynthesizeMultiple(topology, collective, rc.K, rc.Seed, rc.Verbose)
	case tacos.VariantBeam:
		result, err = tacos.NewBeam(topology, collective, rc.K, rc.Seed, rc.Verbose).Synthesize()
	default:
		fmt.Fprintf(os.Stderr, "tacos: unknown variant %q\n", rc.Variant)
		return 1
	}
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tacos: synthesis failed: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Println("[Synthesis Result]")
	fmt.Printf("\t- Time to solve: %s\n", elapsed)
	fmt.Printf("\t- Synthesized Collective Time: %d ps\n", result.CollectiveTime())
	fmt.Println()

	outFile := rc.OutputFile
	if outFile == "" {
		outFile = tacos.ResultFileName(rc.TopologyFile, rc.Variant, rc.K)
	}
	fmt.Println("[Synthesis Result Dump]")
	if err := tacos.WriteResult(outFile, topology, &result); err != nil {
		fmt.Fprintf(os.Stderr, "tacos: writing result: %v\n", err)
		return 1
	}
	fmt.Printf("\t- Wrote %s\n", outFile)
	fmt.Println()

	fmt.Println("[TACOS] Done!")
	return 0
}
