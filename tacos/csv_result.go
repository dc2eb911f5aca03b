package tacos

// csv_result.go writes a SynthesisResult out as a CSV: one row per
// recorded link-chunk match (egress side), plus a trailing summary row
// carrying the collective's overall makespan.

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ResultFileName returns the output file name for a synthesis run over
// topologyFile with the given variant: <basename>_<label>_result.csv,
// where label is "tacos" for VariantRandom (matching the original tool's
// hardcoded tacos_synthesis_result.csv output) or the variant name with k
// trials/beams suffixed for VariantMultiple/VariantBeam.
func ResultFileName(topologyFile string, variant Variant, k int) string {
	base := filepath.Base(topologyFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	label := string(variant)
	switch variant {
	case VariantRandom:
		label = "tacos"
	case VariantMultiple, VariantBeam:
		label = fmt.Sprintf("%s_%d", variant, k)
	}

	return fmt.Sprintf("%s_%s_result.csv", base, label)
}

// WriteResult writes result as a CSV to filename: a header row, one row
// per link-chunk match ordered by source NPU, then by destination NPU, then
// by the order it was recorded, and a trailing "Collective Time" summary
// row.
func WriteResult(filename string, topology *Topology, result *SynthesisResult) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"Src", "Dest", "Chunk", "TransmissionStartTime (ps)", "ArrivalTime (ps)"}); err != nil {
		return err
	}

	n := topology.GetNpusCount()
	for src := 0; src < n; src++ {
		for dest := 0; dest < n; dest++ {
			if src == dest {
				continue
			}
			for _, entry := range result.NpuResult(NpuID(src)).EgressLinkInfo(NpuID(dest)) {
				row := []string{
					strconv.Itoa(src),
					strconv.Itoa(dest),
					strconv.Itoa(int(entry.Chunk)),
					strconv.FormatInt(int64(entry.TransmissionStartTime), 10),
					strconv.FormatInt(int64(entry.ArrivalTime), 10),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	if err := w.Write([]string{"Collective Time (ps)", strconv.FormatInt(int64(result.CollectiveTime()), 10)}); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
