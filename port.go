package dsp

import "github.com/nodeforge/dsp/internal/weakref"

// Input is one input port of a Node. It owns a weak set of producer
// nodes, an owned input Buffer, and — once started — the resolved
// source buffer pointers gathered from those producers' output ports.
type Input struct {
	index     int
	producers []weakref.Ref[*Node]
	buffer    Buffer
	sources   []Buffer
}

// Output is one output port of a Node. It owns a weak set of consumer
// nodes and a Buffer that is either owned (freshly allocated for this
// port) or borrowed (aliased to an input buffer of the same node, for
// in-place processing).
type Output struct {
	index     int
	consumers []weakref.Ref[*Node]
	buffer    Buffer
	owned     bool
	borrowed  bool
}

func newInput(index int) *Input   { return &Input{index: index} }
func newOutput(index int) *Output { return &Output{index: index} }

// addProducer adds ref to the producer set if not already present,
// implementing the set semantics behind P5 (edit idempotence).
func (in *Input) addProducer(ref weakref.Ref[*Node]) {
	for _, r := range in.producers {
		if r == ref {
			return
		}
	}
	in.producers = append(in.producers, ref)
}

func (in *Input) removeProducer(ref weakref.Ref[*Node]) {
	for i, r := range in.producers {
		if r == ref {
			in.producers = append(in.producers[:i], in.producers[i+1:]...)
			return
		}
	}
}

func (in *Input) connected() bool { return len(in.producers) > 0 }

func (out *Output) addConsumer(ref weakref.Ref[*Node]) {
	for _, r := range out.consumers {
		if r == ref {
			return
		}
	}
	out.consumers = append(out.consumers, ref)
}

func (out *Output) removeConsumer(ref weakref.Ref[*Node]) {
	for i, r := range out.consumers {
		if r == ref {
			out.consumers = append(out.consumers[:i], out.consumers[i+1:]...)
			return
		}
	}
}

// hasConsumer reports whether node (resolved by its own ref) is
// listed among this output's consumers.
func (out *Output) hasConsumer(ref weakref.Ref[*Node]) bool {
	for _, r := range out.consumers {
		if r == ref {
			return true
		}
	}
	return false
}

// start binds this output's buffer. owner is the node that owns this
// port.
func (out *Output) start(owner *Node) error {
	if out.owned {
		out.buffer = nil
	}
	out.owned = false
	out.borrowed = false

	if owner.inplace && out.index < owner.nins {
		in := owner.inputs[out.index]
		if !in.connected() {
			return newDspError(Inplace, owner)
		}
		out.buffer = in.buffer
		out.borrowed = true
		return nil
	}

	buf, err := owner.allocate()
	if err != nil {
		return newDspError(Alloc, owner)
	}
	out.buffer = buf
	out.owned = true
	return nil
}

// clear drops the consumer set and frees an owned buffer.
func (out *Output) clear() {
	out.consumers = nil
	out.buffer = nil
	out.owned = false
	out.borrowed = false
}

// start resolves producers into source-buffer pointers and allocates
// this input's own buffer.
func (in *Input) start(owner *Node) error {
	in.buffer = nil
	in.sources = nil

	live := in.producers[:0]
	for _, ref := range in.producers {
		if ref.IsZero() {
			// Never bound to any chain: the link referenced a node
			// that was never registered, so the producer side of the
			// wiring never happened. This is a structurally broken
			// link, not a dead (removed) producer.
			return newDspError(Recopy, owner)
		}
		if node, ok := owner.arena.Resolve(ref); ok && node != nil {
			live = append(live, ref)
		}
	}
	in.producers = live

	sources := make([]Buffer, 0, len(in.producers))
	for _, ref := range in.producers {
		producer, _ := owner.arena.Resolve(ref)
		var found *Output
		for _, o := range producer.outputs {
			if o.hasConsumer(owner.ref) {
				found = o
				break
			}
		}
		if found == nil {
			return newDspError(Recopy, owner)
		}
		sources = append(sources, found.buffer)
	}
	in.sources = sources

	buf, err := owner.allocate()
	if err != nil {
		return newDspError(Alloc, owner)
	}
	in.buffer = buf
	return nil
}

func (in *Input) clear() {
	in.buffer = nil
	in.sources = nil
}

// perform sums fan-in into the input buffer: P3.
func (in *Input) perform() {
	switch len(in.sources) {
	case 0:
		return
	case 1:
		in.buffer.CopyFrom(in.sources[0])
	default:
		in.buffer.CopyFrom(in.sources[0])
		for _, src := range in.sources[1:] {
			in.buffer.AddFrom(src)
		}
	}
}
