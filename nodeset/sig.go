// Package nodeset provides a small library of leaf node
// implementations — the kind of thing spec.md §1 treats as an
// external collaborator — so the core scheduler can be exercised
// end-to-end. None of these types participate in the core's
// compiled/scheduled semantics; they only consume dsp.Node's public
// capability contract.
package nodeset

import "github.com/nodeforge/dsp"

// Sig is a constant-value signal generator: zero inputs, one output,
// every sample of every block equal to Value.
type Sig struct {
	Value dsp.Sample
	name  string
}

// NewSig constructs a Sig node with the given constant value.
func NewSig(value dsp.Sample) *dsp.Node {
	return dsp.NewNode(&Sig{Value: value}, 0, 1)
}

// Name implements dsp.Namer.
func (s *Sig) Name() string {
	if s.name != "" {
		return s.name
	}
	return "sig"
}

// Prepare always runs: a constant generator is cheap regardless of
// whether its output is connected.
func (s *Sig) Prepare(n *dsp.Node) error {
	n.ShouldPerform(true)
	return nil
}

// Perform fills the output buffer with Value.
func (s *Sig) Perform(n *dsp.Node) {
	n.Output(0).Fill(s.Value)
}

// Release is a no-op: Sig holds no node-local resources.
func (s *Sig) Release(n *dsp.Node) {}
