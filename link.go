package dsp

// Link is a directed edge from one node's output to another node's
// input. Links are immutable once constructed.
type Link struct {
	id       ID
	from     *Node
	outIndex int
	to       *Node
	inIndex  int
}

// NewLink constructs a Link from (from, outIndex) to (to, inIndex).
// The link is not wired into the graph until the owning Chain
// compiles it with start; construction alone performs no mutation.
func NewLink(from *Node, outIndex int, to *Node, inIndex int) *Link {
	return &Link{
		id:       newID(),
		from:     from,
		outIndex: outIndex,
		to:       to,
		inIndex:  inIndex,
	}
}

// isValid reports whether the link connects two distinct, non-nil
// nodes at indices within each node's declared arity.
func (l *Link) isValid() bool {
	if l == nil || l.from == nil || l.to == nil || l.from == l.to {
		return false
	}
	if l.outIndex < 0 || l.outIndex >= l.from.nouts {
		return false
	}
	if l.inIndex < 0 || l.inIndex >= l.to.nins {
		return false
	}
	return true
}

// start reifies the link inside the ports of its two endpoint nodes:
// the producer's output port records the consumer, and the
// consumer's input port records the producer.
func (l *Link) start() {
	if !l.isValid() {
		return
	}
	l.from.AddOutput(l.to, l.outIndex)
	l.to.AddInput(l.from, l.inIndex)
}
