package dsp

import (
	"errors"
	"fmt"
)

// errNoContext is returned by Chain.Start when the chain has not yet
// been attached to a Context. Start does not check whether that
// Context is bound to a DeviceManager, nor whether its sample rate
// and block size are valid.
var errNoContext = errors.New("dsp: chain has no context")

// Kind identifies one of the four failure modes a chain compile can
// raise. All of them are discovered during Chain.Start; none of them
// can occur once a chain is running.
type Kind int

const (
	// Recopy indicates that an input's declared producer has no output
	// port that lists the consumer among its consumers: the link is
	// structurally broken.
	Recopy Kind = iota
	// Inplace indicates a node requested in-place output k, but input k
	// has no resolved buffer (the input is unconnected).
	Inplace
	// Alloc indicates a buffer allocation failed.
	Alloc
	// Loop indicates the topological sort found a cycle through this
	// node.
	Loop
)

func (k Kind) String() string {
	switch k {
	case Recopy:
		return "recopy"
	case Inplace:
		return "inplace"
	case Alloc:
		return "alloc"
	case Loop:
		return "loop"
	default:
		return "unknown"
	}
}

// sentinel errors, so callers can test kind with errors.Is(err,
// dsp.ErrLoop) without reaching into DspError.
var (
	ErrRecopy  = errors.New("dsp: recopy")
	ErrInplace = errors.New("dsp: inplace")
	ErrAlloc   = errors.New("dsp: alloc")
	ErrLoop    = errors.New("dsp: loop")
)

func sentinelFor(k Kind) error {
	switch k {
	case Recopy:
		return ErrRecopy
	case Inplace:
		return ErrInplace
	case Alloc:
		return ErrAlloc
	case Loop:
		return ErrLoop
	default:
		return errors.New("dsp: unknown error kind")
	}
}

// DspError is raised during chain compilation and carries a
// back-reference to the offending node.
type DspError struct {
	Kind Kind
	Node *Node
}

func newDspError(kind Kind, node *Node) *DspError {
	return &DspError{Kind: kind, Node: node}
}

func (e *DspError) Error() string {
	name := "<anonymous>"
	if e.Node != nil {
		name = e.Node.Name()
	}
	return fmt.Sprintf("dsp: %s error on node %s", e.Kind, name)
}

// Is lets callers match against the package sentinel errors via
// errors.Is(err, dsp.ErrLoop).
func (e *DspError) Is(target error) bool {
	return errors.Is(sentinelFor(e.Kind), target)
}

