package dsp

import (
	"github.com/nodeforge/dsp/internal/bufpool"
	"github.com/nodeforge/dsp/internal/dsplog"
	"github.com/nodeforge/dsp/internal/rtcheck"
	"github.com/nodeforge/dsp/internal/weakref"
)

// NodeImpl is the capability contract every leaf node type implements.
// Prepare is called once per compile and must call ShouldPerform and
// may call SetInplace on the Node it is given. Perform is called once
// per block; it must not allocate, lock, or panic. Release is called
// on stop and frees any node-local state.
type NodeImpl interface {
	Prepare(n *Node) error
	Perform(n *Node)
	Release(n *Node)
}

// Namer is an optional capability a NodeImpl can implement to give
// itself a human-readable identifier; the default is empty.
type Namer interface {
	Name() string
}

// Node is the polymorphic signal-processing unit. Its arity is fixed
// at construction; its port set is owned for its lifetime.
type Node struct {
	id   ID
	impl NodeImpl

	nins, nouts int
	inputs      []*Input
	outputs     []*Output

	inplace bool
	running bool

	// index is the transient topological-sort position; 0 means
	// unvisited.
	index int

	sampleRate int
	blockSize  int

	inBufs  []Buffer
	outBufs []Buffer

	arena *weakref.Arena[*Node]
	ref   weakref.Ref[*Node]

	allocFunc func(size int) (Buffer, error)
}

// NewNode constructs a Node around impl with the given input/output
// arity.
func NewNode(impl NodeImpl, nins, nouts int) *Node {
	n := &Node{
		id:      newID(),
		impl:    impl,
		nins:    nins,
		nouts:   nouts,
		inplace: true,
	}
	n.inputs = make([]*Input, nins)
	for i := range n.inputs {
		n.inputs[i] = newInput(i)
	}
	n.outputs = make([]*Output, nouts)
	for i := range n.outputs {
		n.outputs[i] = newOutput(i)
	}
	n.allocFunc = defaultAllocate
	return n
}

func defaultAllocate(size int) (Buffer, error) {
	p := bufpool.Get(size)
	buf := Buffer(p.Get().([]float64))
	buf.Clear()
	return buf, nil
}

// SetAllocator overrides the buffer allocator used by this node's
// ports, for fault-injection testing of the Alloc error path.
func (n *Node) SetAllocator(f func(size int) (Buffer, error)) {
	n.allocFunc = f
}

func (n *Node) allocate() (Buffer, error) {
	return n.allocFunc(n.blockSize)
}

// ID returns the node's identity.
func (n *Node) ID() ID { return n.id }

// Name returns the NodeImpl's name if it implements Namer, else "".
func (n *Node) Name() string {
	if namer, ok := n.impl.(Namer); ok {
		return namer.Name()
	}
	return ""
}

// Nins returns the node's input arity.
func (n *Node) Nins() int { return n.nins }

// Nouts returns the node's output arity.
func (n *Node) Nouts() int { return n.nouts }

// SampleRate returns the sample rate captured at the last start.
func (n *Node) SampleRate() int { return n.sampleRate }

// BlockSize returns the block size captured at the last start.
func (n *Node) BlockSize() int { return n.blockSize }

// Running reports whether this node contributes to the current tick.
func (n *Node) Running() bool { return n.running }

// Inplace reports the node's current in-place flag.
func (n *Node) Inplace() bool { return n.inplace }

// SetInplace configures whether output k may alias input k. Called
// from Prepare.
func (n *Node) SetInplace(v bool) { n.inplace = v }

// ShouldPerform configures whether this node contributes to the tick.
// Called from Prepare.
func (n *Node) ShouldPerform(v bool) { n.running = v }

// AddInput registers producer as a source of input idx. Out-of-range
// idx is a silent no-op: indices are validated at link creation, not
// here.
func (n *Node) AddInput(producer *Node, idx int) {
	if idx < 0 || idx >= len(n.inputs) || producer == nil {
		return
	}
	n.inputs[idx].addProducer(producer.ref)
}

// AddOutput registers consumer as a sink of output idx.
func (n *Node) AddOutput(consumer *Node, idx int) {
	if idx < 0 || idx >= len(n.outputs) || consumer == nil {
		return
	}
	n.outputs[idx].addConsumer(consumer.ref)
}

// RemoveInput unregisters producer from input idx.
func (n *Node) RemoveInput(producer *Node, idx int) {
	if idx < 0 || idx >= len(n.inputs) || producer == nil {
		return
	}
	n.inputs[idx].removeProducer(producer.ref)
}

// RemoveOutput unregisters consumer from output idx.
func (n *Node) RemoveOutput(consumer *Node, idx int) {
	if idx < 0 || idx >= len(n.outputs) || consumer == nil {
		return
	}
	n.outputs[idx].removeConsumer(consumer.ref)
}

// IsInputConnected reports whether input idx has at least one
// producer.
func (n *Node) IsInputConnected(idx int) bool {
	if idx < 0 || idx >= len(n.inputs) {
		return false
	}
	return n.inputs[idx].connected()
}

// IsOutputConnected reports whether output idx has at least one
// consumer.
func (n *Node) IsOutputConnected(idx int) bool {
	if idx < 0 || idx >= len(n.outputs) {
		return false
	}
	return len(n.outputs[idx].consumers) > 0
}

// Input returns the resolved input buffer for index i, valid only
// while the node is running.
func (n *Node) Input(i int) Buffer {
	if i < 0 || i >= len(n.inBufs) {
		return nil
	}
	return n.inBufs[i]
}

// Output returns the resolved output buffer for index i, valid only
// while the node is running.
func (n *Node) Output(i int) Buffer {
	if i < 0 || i >= len(n.outBufs) {
		return nil
	}
	return n.outBufs[i]
}

// bind attaches this node to an arena so its ports can resolve weak
// producer/consumer references. Called once, when the node is added
// to a chain.
func (n *Node) bind(arena *weakref.Arena[*Node]) {
	n.arena = arena
	n.ref = arena.Put(n)
}

// unbind frees the node's slot in the arena, invalidating every weak
// reference other nodes still hold to it.
func (n *Node) unbind() {
	if n.arena != nil {
		n.arena.Delete(n.ref)
	}
}

// start is the per-node compile phase: capture rate/size, run
// Prepare, then — if still running — bind every port's buffers.
func (n *Node) start(sampleRate, blockSize int) error {
	if n.running {
		n.stop()
	}
	n.sampleRate = sampleRate
	n.blockSize = blockSize

	if err := n.impl.Prepare(n); err != nil {
		return err
	}

	if !n.running {
		return nil
	}

	n.inBufs = make([]Buffer, n.nins)
	for i, in := range n.inputs {
		if err := in.start(n); err != nil {
			n.running = false
			return err
		}
		n.inBufs[i] = in.buffer
	}

	n.outBufs = make([]Buffer, n.nouts)
	for i, out := range n.outputs {
		if err := out.start(n); err != nil {
			n.running = false
			return err
		}
		n.outBufs[i] = out.buffer
	}
	return nil
}

// stop clears the running flag, releases node-local state and clears
// every port.
func (n *Node) stop() {
	n.running = false
	n.impl.Release(n)
	for _, in := range n.inputs {
		in.clear()
	}
	for _, out := range n.outputs {
		out.clear()
	}
	n.inBufs = nil
	n.outBufs = nil
}

// tick sums fan-in into every input, then runs Perform. Invoked by
// the owning Chain, never by the node itself.
func (n *Node) tick() {
	for _, in := range n.inputs {
		in.perform()
	}
	rtcheck.Guard(n.Name(), func() { n.impl.Perform(n) }, func(name string) {
		dsplog.Get().WithField("node", name).Warn("perform allocated on the audio thread")
	})
}
