package dsp

import (
	"sync"
	"sync/atomic"

	"github.com/nodeforge/dsp/internal/dsplog"
	"github.com/nodeforge/dsp/internal/weakref"
)

// Chain is an independent DAG of nodes and links. It holds its
// membership in insertion order; compiling it builds a separate,
// topologically ordered node list (CompiledOrder), leaving the
// membership order unchanged. A Chain owns its nodes and
// links; user code may hold additional references to them, but the
// chain's membership vector pins them for as long as the chain lives.
type Chain struct {
	id ID

	mu     sync.Mutex
	nodes  []*Node
	links  []*Link
	arena  *weakref.Arena[*Node]
	compiled []*Node // topologically ordered, valid only while running

	running int32 // atomic bool

	sampleRate int
	blockSize  int

	context *Context
}

// NewChain constructs an empty, stopped chain.
func NewChain() *Chain {
	return &Chain{
		id:    newID(),
		arena: weakref.NewArena[*Node](),
	}
}

// ID returns the chain's identity.
func (c *Chain) ID() ID { return c.id }

// IsRunning reports the chain's running state without taking the
// chain mutex, per spec.md's atomic-flag requirement.
func (c *Chain) IsRunning() bool { return atomic.LoadInt32(&c.running) == 1 }

func (c *Chain) setRunning(v bool) {
	if v {
		atomic.StoreInt32(&c.running, 1)
	} else {
		atomic.StoreInt32(&c.running, 0)
	}
}

// Add registers node with the chain, following the suspend-edit-resume
// protocol: any running chain is stopped before the mutation and
// recompiled (if it was running) after. Adding the same node twice
// (by identity) is a no-op on the second call: P5.
func (c *Chain) Add(node *Node) error {
	if node == nil {
		return nil
	}
	wasRunning := c.suspend()

	c.mu.Lock()
	found := false
	for _, n := range c.nodes {
		if n == node {
			found = true
			break
		}
	}
	if !found {
		node.bind(c.arena)
		c.nodes = append(c.nodes, node)
	}
	c.mu.Unlock()

	return c.resume(wasRunning)
}

// Remove unregisters node from the chain. Removing a node that is not
// a member is a no-op: P5.
func (c *Chain) Remove(node *Node) error {
	if node == nil {
		return nil
	}
	wasRunning := c.suspend()

	c.mu.Lock()
	for i, n := range c.nodes {
		if n == node {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			node.unbind()
			break
		}
	}
	c.mu.Unlock()

	return c.resume(wasRunning)
}

// AddLink registers link with the chain. A link that fails its
// validity check (distinct, in-range endpoints) is silently rejected,
// per spec.md §4.3.
func (c *Chain) AddLink(link *Link) error {
	if link == nil || !link.isValid() {
		return nil
	}
	wasRunning := c.suspend()

	c.mu.Lock()
	found := false
	for _, l := range c.links {
		if l == link {
			found = true
			break
		}
	}
	if !found {
		c.links = append(c.links, link)
	}
	c.mu.Unlock()

	return c.resume(wasRunning)
}

// RemoveLink unregisters link from the chain. A no-op if absent: P5.
func (c *Chain) RemoveLink(link *Link) error {
	if link == nil {
		return nil
	}
	wasRunning := c.suspend()

	c.mu.Lock()
	for i, l := range c.links {
		if l == link {
			c.links = append(c.links[:i], c.links[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	return c.resume(wasRunning)
}

// suspend atomically records whether the chain was running and stops
// it if so, so the control thread never mutates membership underneath
// a tick in progress.
func (c *Chain) suspend() bool {
	wasRunning := c.IsRunning()
	if wasRunning {
		c.Stop()
	}
	return wasRunning
}

// resume recompiles and restarts the chain if it was running before
// the edit, propagating any compile error.
func (c *Chain) resume(wasRunning bool) error {
	if !wasRunning {
		return nil
	}
	return c.Start()
}

// attach binds this chain to its owning context, capturing the
// context's sample rate and block size.
func (c *Chain) attach(ctx *Context) {
	c.context = ctx
	c.sampleRate = ctx.sampleRate
	c.blockSize = ctx.blockSize
}

// Start compiles the chain: wires every link, topologically sorts the
// node graph with cycle detection, binds every node's port buffers in
// compiled order, then commits the running flag. It is executed under
// the chain mutex and fails fast on the first error, leaving the
// partial state for a subsequent Stop to reclaim.
func (c *Chain) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.context == nil {
		return errNoContext
	}
	c.sampleRate = c.context.sampleRate
	c.blockSize = c.context.blockSize

	log := dsplog.Get()

	// Step 1 — wire edges.
	for _, l := range c.links {
		l.start()
	}

	// Step 2 — topological sort with cycle detection.
	for _, n := range c.nodes {
		n.index = 0
	}
	next := 1
	onPath := map[*Node]bool{}
	for _, n := range c.nodes {
		if err := sortVisit(n, onPath, &next); err != nil {
			log.WithField("chain", c.id).Debug("compile failed: ", err)
			return err
		}
	}

	order := make([]*Node, len(c.nodes))
	for _, n := range c.nodes {
		order[n.index-1] = n
	}

	// Step 3 — per-node preparation and buffer binding, in compiled
	// order.
	for _, n := range order {
		if err := n.start(c.sampleRate, c.blockSize); err != nil {
			log.WithField("chain", c.id).Debug("compile failed: ", err)
			return err
		}
	}

	// Step 4 — commit.
	c.compiled = order
	c.setRunning(true)
	log.WithField("chain", c.id).Info("chain compiled: ", len(order), " nodes")
	return nil
}

// sortVisit performs one depth-first visit rooted at node, assigning
// topological indices on the way out (post-order), and detects cycles
// via the onPath set. index==0 on a node means "unvisited".
func sortVisit(node *Node, onPath map[*Node]bool, next *int) error {
	if node.index != 0 {
		return nil
	}
	onPath[node] = true
	for _, in := range node.inputs {
		for _, ref := range in.producers {
			producer, ok := resolveRef(node, ref)
			if !ok || producer.index != 0 {
				continue
			}
			if onPath[producer] {
				return newDspError(Loop, producer)
			}
			if err := sortVisit(producer, onPath, next); err != nil {
				return err
			}
		}
	}
	onPath[node] = false
	node.index = *next
	*next++
	return nil
}

func resolveRef(owner *Node, ref weakref.Ref[*Node]) (*Node, bool) {
	if owner.arena == nil {
		return nil, false
	}
	return owner.arena.Resolve(ref)
}

// Stop halts the chain: clears the running flag and stops every node
// in compiled (or, if never compiled, insertion) order.
func (c *Chain) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRunning(false)
	nodes := c.compiled
	if nodes == nil {
		nodes = c.nodes
	}
	for _, n := range nodes {
		n.stop()
	}
	c.compiled = nil
	dsplog.Get().WithField("chain", c.id).Debug("chain stopped")
}

// Tick runs one block through every running node, strictly in
// compiled topological order: P2. Tick holds the chain mutex for the
// duration; Context.Tick calls it while holding the context mutex.
func (c *Chain) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.IsRunning() {
		return
	}
	for _, n := range c.compiled {
		if n.running {
			n.tick()
		}
	}
}

// Nodes returns a snapshot of the chain's current node membership.
func (c *Chain) Nodes() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Links returns a snapshot of the chain's current link membership.
func (c *Chain) Links() []*Link {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Link, len(c.links))
	copy(out, c.links)
	return out
}

// CompiledOrder returns the chain's topological node order from the
// last successful compile, or an empty slice if the chain is not
// running.
func (c *Chain) CompiledOrder() []*Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Node, len(c.compiled))
	copy(out, c.compiled)
	return out
}
