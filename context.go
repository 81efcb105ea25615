package dsp

import (
	"sync"
	"sync/atomic"
	"time"
)

// Context is a tick domain: a set of chains sharing one sample rate
// and block size, driven once per audio block by its DeviceManager.
type Context struct {
	id ID

	mu     sync.Mutex
	chains []*Chain

	running int32

	sampleRate int
	blockSize  int

	device *DeviceManager

	cpuScale float64
	lastLoad atomic.Value // stores float64
}

// NewContext constructs a stopped context at the given sample rate and
// block size.
func NewContext(sampleRate, blockSize int) *Context {
	c := &Context{
		id:         newID(),
		sampleRate: sampleRate,
		blockSize:  blockSize,
	}
	c.lastLoad.Store(float64(0))
	return c
}

// ID returns the context's identity.
func (c *Context) ID() ID { return c.id }

// IsRunning reports the context's running state without locking.
func (c *Context) IsRunning() bool { return atomic.LoadInt32(&c.running) == 1 }

// SampleRate returns the context's sample rate.
func (c *Context) SampleRate() int { return c.sampleRate }

// BlockSize returns the context's block size.
func (c *Context) BlockSize() int { return c.blockSize }

// AddChain attaches chain to this context. The chain must be started
// explicitly (or via an edit while the context is running, through
// Chain.Add/Remove's suspend-resume protocol); attaching alone does
// not compile it.
func (c *Context) AddChain(chain *Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.chains {
		if existing == chain {
			return
		}
	}
	chain.attach(c)
	c.chains = append(c.chains, chain)
}

// RemoveChain stops and detaches chain from this context.
func (c *Context) RemoveChain(chain *Chain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.chains {
		if existing == chain {
			chain.Stop()
			c.chains = append(c.chains[:i], c.chains[i+1:]...)
			return
		}
	}
}

// Chains returns a snapshot of the context's current chain
// membership.
func (c *Context) Chains() []*Chain {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Chain, len(c.chains))
	copy(out, c.chains)
	return out
}

// Start attaches the context to its device manager, marks it running,
// and computes the CPU-scaling factor used to normalize measured tick
// duration into a percentage of realtime. The scaling constant's
// units are not documented upstream; it is carried opaque, per
// spec.md §9.
func (c *Context) Start(dm *DeviceManager) {
	c.device = dm
	c.cpuScale = 1e-5 * float64(c.sampleRate) / float64(c.blockSize)
	atomic.StoreInt32(&c.running, 1)
}

// Stop stops every chain this context owns, then detaches from its
// device manager.
func (c *Context) Stop() {
	c.mu.Lock()
	chains := make([]*Chain, len(c.chains))
	copy(chains, c.chains)
	c.mu.Unlock()

	for _, chain := range chains {
		chain.Stop()
	}
	atomic.StoreInt32(&c.running, 0)
	c.device = nil
}

// Tick runs one block through every running chain this context owns,
// and records the CPU load it observed.
func (c *Context) Tick() {
	start := time.Now()

	c.mu.Lock()
	chains := c.chains
	for _, chain := range chains {
		if chain.IsRunning() {
			chain.Tick()
		}
	}
	c.mu.Unlock()

	elapsed := time.Since(start)
	c.lastLoad.Store(elapsed.Seconds() * 1e6 * c.cpuScale)
}

// CPULoad returns the most recently measured CPU usage, as a
// percentage of realtime under the opaque scaling convention of
// spec.md §9.
func (c *Context) CPULoad() float64 {
	return c.lastLoad.Load().(float64)
}
