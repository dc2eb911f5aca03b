package tacos

import "fmt"

// Collective owns the chunk set and the initial precondition/postcondition
// of a collective operation: which NPU holds which chunk, and which NPU
// still requires which chunk. GetPrecondition/GetPostcondition return
// independent copies; callers mutate their own copy freely.
type Collective struct {
	npusCount   int
	chunkSize   int64
	chunksCount int

	precondition  map[NpuID]map[ChunkID]struct{}
	postcondition map[NpuID]map[ChunkID]struct{}
}

func newCollective(npusCount int, chunkSize int64) *Collective {
	if npusCount <= 0 {
		panic(fmt.Errorf("tacos: npusCount must be positive, got %d", npusCount))
	}
	if chunkSize <= 0 {
		panic(fmt.Errorf("tacos: chunkSize must be positive, got %d", chunkSize))
	}

	c := &Collective{
		npusCount:     npusCount,
		chunkSize:     chunkSize,
		precondition:  make(map[NpuID]map[ChunkID]struct{}),
		postcondition: make(map[NpuID]map[ChunkID]struct{}),
	}
	for npu := 0; npu < npusCount; npu++ {
		c.precondition[NpuID(npu)] = make(map[ChunkID]struct{})
		c.postcondition[NpuID(npu)] = make(map[ChunkID]struct{})
	}
	return c
}

// add records that owner holds chunk, and that every other NPU requires it.
func (c *Collective) add(chunk ChunkID, owner NpuID) {
	c.precondition[owner][chunk] = struct{}{}
	for dest := 0; dest < c.npusCount; dest++ {
		if NpuID(dest) == owner {
			continue
		}
		c.postcondition[NpuID(dest)][chunk] = struct{}{}
	}
}

// NewAllGather builds the All-Gather collective over npusCount NPUs: each
// NPU starts owning initChunksPerNpu chunks (NPU i holds chunks
// [i*initChunksPerNpu, (i+1)*initChunksPerNpu)) and must end up holding
// every chunk.
func NewAllGather(npusCount, initChunksPerNpu int, chunkSize int64) *Collective {
	if initChunksPerNpu <= 0 {
		panic(fmt.Errorf("tacos: initChunksPerNpu must be positive, got %d", initChunksPerNpu))
	}

	c := newCollective(npusCount, chunkSize)
	chunk := ChunkID(0)
	for npu := 0; npu < npusCount; npu++ {
		for i := 0; i < initChunksPerNpu; i++ {
			c.add(chunk, NpuID(npu))
			chunk++
		}
	}
	c.chunksCount = int(chunk)
	return c
}

// GetChunkSize returns the fixed size, in bytes, of every chunk.
func (c *Collective) GetChunkSize() int64 { return c.chunkSize }

// GetChunksCount returns the total number of chunks in the collective.
func (c *Collective) GetChunksCount() int { return c.chunksCount }

// GetPrecondition returns an independent copy of the initial precondition.
func (c *Collective) GetPrecondition() map[NpuID]map[ChunkID]struct{} {
	return deepCopyChunkSets(c.precondition)
}

// GetPostcondition returns an independent copy of the initial postcondition.
func (c *Collective) GetPostcondition() map[NpuID]map[ChunkID]struct{} {
	return deepCopyChunkSets(c.postcondition)
}

func deepCopyChunkSets(src map[NpuID]map[ChunkID]struct{}) map[NpuID]map[ChunkID]struct{} {
	dst := make(map[NpuID]map[ChunkID]struct{}, len(src))
	for npu, chunks := range src {
		cp := make(map[ChunkID]struct{}, len(chunks))
		for c := range chunks {
			cp[c] = struct{}{}
		}
		dst[npu] = cp
	}
	return dst
}

// pruneEmpty removes NPU entries whose chunk set is empty, so that
// len(m) == 0 is a correct "nothing left" test. Collective always hands out
// a (possibly empty) map per NPU; the synthesis engine needs the empty ones
// dropped up front.
func pruneEmpty(m map[NpuID]map[ChunkID]struct{}) {
	for npu, chunks := range m {
		if len(chunks) == 0 {
			delete(m, npu)
		}
	}
}
