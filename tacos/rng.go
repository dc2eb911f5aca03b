package tacos

import (
	"fmt"

	"github.com/iti/rngstream"
)

// RNG wraps an rngstream.RngStream, giving the synthesizer the single
// operation it actually needs: drawing a uniformly distributed index into
// a set of candidates. Every RNG used anywhere in a synthesis run is
// constructed from an explicit named seed, so a fixed top-level seed makes
// an entire run byte-reproducible.
type RNG struct {
	stream *rngstream.RngStream
}

// NewRNG returns an RNG whose stream is named seed. Two RNGs built from the
// same seed string draw the same sequence.
func NewRNG(seed string) *RNG {
	return &RNG{stream: rngstream.New(seed)}
}

// Intn returns a uniformly distributed int in [0, n).
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Errorf("tacos: Intn called with non-positive n=%d", n))
	}
	if n == 1 {
		return 0
	}
	return r.stream.RandInt(0, n-1)
}
