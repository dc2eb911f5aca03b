package tacos

// csv_topology.go loads a Topology from a CSV file: the first line is the
// NPU count, the second is a fixed header, and every line after that is
// one directed link (Src,Dest,Latency (ns),Bandwidth (GB/s)).

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ConnectFromFile builds a Topology from a CSV file in the format
// described above. Each row must be a distinct directed edge; callers
// wanting a bidirectional link encode both directions as separate rows,
// matching the CSV generators the rest of this package's test data
// follows.
func ConnectFromFile(filename string) (*Topology, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	countRow, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("tacos: reading npus count row: %w", err)
	}
	if len(countRow) < 1 {
		return nil, fmt.Errorf("tacos: npus count row is empty")
	}
	npusCount, err := strconv.Atoi(countRow[0])
	if err != nil {
		return nil, fmt.Errorf("tacos: parsing npus count %q: %w", countRow[0], err)
	}
	if npusCount <= 0 {
		return nil, fmt.Errorf("tacos: npus count must be positive, got %d", npusCount)
	}

	if _, err := r.Read(); err != nil {
		return nil, fmt.Errorf("tacos: reading header row: %w", err)
	}

	topology := NewTopology()
	topology.SetNpusCount(npusCount)

	lineNo := 2
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			return nil, fmt.Errorf("tacos: reading row %d: %w", lineNo, err)
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("tacos: row %d has %d fields, want 4", lineNo, len(row))
		}

		src, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("tacos: row %d: parsing Src %q: %w", lineNo, row[0], err)
		}
		dest, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("tacos: row %d: parsing Dest %q: %w", lineNo, row[1], err)
		}
		latencyNs, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("tacos: row %d: parsing Latency %q: %w", lineNo, row[2], err)
		}
		bandwidthGBps, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("tacos: row %d: parsing Bandwidth %q: %w", lineNo, row[3], err)
		}
		if src < 0 || src >= npusCount || dest < 0 || dest >= npusCount || src == dest {
			return nil, fmt.Errorf("tacos: row %d: invalid link %d -> %d for %d npus", lineNo, src, dest, npusCount)
		}
		if latencyNs < 0 || bandwidthGBps <= 0 {
			return nil, fmt.Errorf("tacos: row %d: latency must be >= 0 and bandwidth > 0, got %g and %g", lineNo, latencyNs, bandwidthGBps)
		}
		if topology.IsConnected(NpuID(src), NpuID(dest)) {
			return nil, fmt.Errorf("tacos: row %d: duplicate edge %d -> %d", lineNo, src, dest)
		}

		topology.Connect(NpuID(src), NpuID(dest), latencyNs, bandwidthGBps, false)
	}

	return topology, nil
}
