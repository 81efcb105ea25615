package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp"
)

func TestNodePortConnectivity(t *testing.T) {
	_, chain := newChainCtx(t)

	a := newNode("a", 0, 1)
	b := newNode("b", 1, 1)
	assert.NoError(t, chain.Add(a))
	assert.NoError(t, chain.Add(b))

	assert.False(t, a.IsOutputConnected(0))
	assert.False(t, b.IsInputConnected(0))

	assert.NoError(t, chain.AddLink(dsp.NewLink(a, 0, b, 0)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.True(t, a.IsOutputConnected(0))
	assert.True(t, b.IsInputConnected(0))
}

// In-place processing aliases output k's buffer to input k's buffer
// when the node requests it and the input is connected.
func TestNodeInplaceAliasesBuffer(t *testing.T) {
	_, chain := newChainCtx(t)

	source := newNode("source", 0, 1)
	gain := dsp.NewNode(&passthrough{nm: "gain", inplace: true}, 1, 1)
	assert.NoError(t, chain.Add(source))
	assert.NoError(t, chain.Add(gain))
	assert.NoError(t, chain.AddLink(dsp.NewLink(source, 0, gain, 0)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.Same(t, &gain.Input(0)[0], &gain.Output(0)[0])
}

// A non-inplace node gets its own freshly-allocated output buffer,
// distinct from its input buffer.
func TestNodeOutOfPlaceOwnsBuffer(t *testing.T) {
	_, chain := newChainCtx(t)

	source := newNode("source", 0, 1)
	sink := dsp.NewNode(&passthrough{nm: "sink", inplace: false}, 1, 1)
	assert.NoError(t, chain.Add(source))
	assert.NoError(t, chain.Add(sink))
	assert.NoError(t, chain.AddLink(dsp.NewLink(source, 0, sink, 0)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.NotSame(t, &sink.Input(0)[0], &sink.Output(0)[0])
}

func TestNodeStopClearsPorts(t *testing.T) {
	_, chain := newChainCtx(t)

	a := newNode("a", 0, 1)
	assert.NoError(t, chain.Add(a))
	assert.NoError(t, chain.Start())

	chain.Stop()
	assert.Nil(t, a.Output(0))
	assert.False(t, a.Running())
}
