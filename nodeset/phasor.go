package nodeset

import (
	"math"

	"github.com/nodeforge/dsp"
)

// Phasor is a ramp generator: zero inputs, one output, cycling from 0
// to 1 at Frequency Hz. It carries its own phase across blocks.
type Phasor struct {
	Frequency dsp.Sample
	phase     dsp.Sample
	step      dsp.Sample
}

// NewPhasor constructs a Phasor node at the given frequency, starting
// at phase.
func NewPhasor(frequency, phase dsp.Sample) *dsp.Node {
	return dsp.NewNode(&Phasor{Frequency: frequency, phase: phase}, 0, 1)
}

func (p *Phasor) Name() string { return "phasor" }

// Prepare derives the per-sample phase increment from the node's
// compiled sample rate.
func (p *Phasor) Prepare(n *dsp.Node) error {
	p.step = p.Frequency / dsp.Sample(n.SampleRate())
	n.ShouldPerform(true)
	return nil
}

func (p *Phasor) Perform(n *dsp.Node) {
	out := n.Output(0)
	for i := range out {
		out[i] = p.phase
		p.phase += p.step
		if p.phase >= 1 {
			p.phase -= math.Trunc(p.phase)
		} else if p.phase < 0 {
			p.phase -= math.Trunc(p.phase) - 1
		}
	}
}

func (p *Phasor) Release(n *dsp.Node) {}
