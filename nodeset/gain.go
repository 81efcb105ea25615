package nodeset

import "github.com/nodeforge/dsp"

// Gain multiplies its single input by a scalar factor. It processes
// in place whenever its input is connected.
type Gain struct {
	Factor dsp.Sample
}

// NewGain constructs a Gain node with the given multiplier.
func NewGain(factor dsp.Sample) *dsp.Node {
	return dsp.NewNode(&Gain{Factor: factor}, 1, 1)
}

func (g *Gain) Name() string { return "gain" }

// Prepare requests in-place processing: Gain never needs its
// unmodified input after writing the scaled output.
func (g *Gain) Prepare(n *dsp.Node) error {
	n.SetInplace(true)
	n.ShouldPerform(n.IsInputConnected(0))
	return nil
}

func (g *Gain) Perform(n *dsp.Node) {
	in := n.Input(0)
	out := n.Output(0)
	for i := range out {
		out[i] = in[i] * g.Factor
	}
}

func (g *Gain) Release(n *dsp.Node) {}
