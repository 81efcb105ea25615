package nodeset

import (
	"math/rand"
	"sync/atomic"

	"github.com/nodeforge/dsp"
)

// seedCounter is a class-wide counter, shared by every Noise node,
// used to derive fresh seeds for noise generators that don't request
// a specific one.
var seedCounter uint64

// nextSeed derives a fresh seed from the shared counter.
func nextSeed() int64 {
	return int64(atomic.AddUint64(&seedCounter, 1))
}

// Noise is a white-noise generator: zero inputs, one output, each
// sample drawn uniformly from [-1, 1) by a per-node random source.
type Noise struct {
	rng *rand.Rand
}

// NewNoise constructs a Noise node whose seed is derived from the
// shared seed counter.
func NewNoise() *dsp.Node {
	return newNoise(nextSeed())
}

// NewNoiseSeeded constructs a Noise node with an explicit seed,
// bypassing the shared counter — for deterministic tests.
func NewNoiseSeeded(seed int64) *dsp.Node {
	return newNoise(seed)
}

func newNoise(seed int64) *dsp.Node {
	return dsp.NewNode(&Noise{rng: rand.New(rand.NewSource(seed))}, 0, 1)
}

func (g *Noise) Name() string { return "noise" }

func (g *Noise) Prepare(n *dsp.Node) error {
	n.ShouldPerform(true)
	return nil
}

func (g *Noise) Perform(n *dsp.Node) {
	out := n.Output(0)
	for i := range out {
		out[i] = g.rng.Float64()*2 - 1
	}
}

func (g *Noise) Release(n *dsp.Node) {}
