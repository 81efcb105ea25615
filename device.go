package dsp

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nodeforge/dsp/internal/dsplog"
)

// Backend is the contract a concrete audio driver implements and
// DeviceManager consumes, per spec.md §6. A Backend enumerates
// drivers/devices/rates/sizes, opens a device at a given
// configuration, and drives Tick by invoking the supplied callback
// once per audio block after populating input buffers and before
// reading back output buffers.
type Backend interface {
	Drivers() []string
	InputDevices(driver string) []string
	OutputDevices(driver string) []string
	SampleRates(driver string) []int
	BlockSizes(driver string) []int

	// Open configures the backend for the given device settings. It
	// does not start the stream.
	Open(cfg DeviceConfig) error
	// Start begins driving callback once per block until Stop is
	// called. callback receives the per-channel input buffers (already
	// populated) and the per-channel output buffers (to be filled).
	Start(callback func(in, out []Buffer)) error
	Stop() error
	Close() error
}

// DeviceManager owns audio I/O and the tick clock. It holds the list
// of contexts it drives plus the current device/driver state.
type DeviceManager struct {
	id ID

	mu       sync.Mutex
	contexts []*Context

	backend Backend
	config  DeviceConfig

	inChannels, outChannels int
	inBufs, outBufs         []Buffer
}

// NewDeviceManager constructs a manager around backend, applying the
// given options.
func NewDeviceManager(backend Backend, opts ...Option) *DeviceManager {
	dm := &DeviceManager{
		id:      newID(),
		backend: backend,
	}
	for _, opt := range opts {
		opt(dm)
	}
	return dm
}

// ID returns the manager's identity.
func (dm *DeviceManager) ID() ID { return dm.id }

// AddContext attaches ctx to this manager.
func (dm *DeviceManager) AddContext(ctx *Context) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, existing := range dm.contexts {
		if existing == ctx {
			return
		}
	}
	dm.contexts = append(dm.contexts, ctx)
	ctx.Start(dm)
}

// RemoveContext detaches ctx from this manager, stopping it first.
func (dm *DeviceManager) RemoveContext(ctx *Context) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for i, existing := range dm.contexts {
		if existing == ctx {
			ctx.Stop()
			dm.contexts = append(dm.contexts[:i], dm.contexts[i+1:]...)
			return
		}
	}
}

// Contexts returns a snapshot of the manager's current context
// membership.
func (dm *DeviceManager) Contexts() []*Context {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	out := make([]*Context, len(dm.contexts))
	copy(out, dm.contexts)
	return out
}

// Drivers lists the backend's available drivers.
func (dm *DeviceManager) Drivers() []string { return dm.backend.Drivers() }

// InputDevices lists input devices available under driver.
func (dm *DeviceManager) InputDevices(driver string) []string {
	return dm.backend.InputDevices(driver)
}

// OutputDevices lists output devices available under driver.
func (dm *DeviceManager) OutputDevices(driver string) []string {
	return dm.backend.OutputDevices(driver)
}

// SampleRates lists sample rates available under driver.
func (dm *DeviceManager) SampleRates(driver string) []int {
	return dm.backend.SampleRates(driver)
}

// BlockSizes lists block (vector) sizes available under driver.
func (dm *DeviceManager) BlockSizes(driver string) []int {
	return dm.backend.BlockSizes(driver)
}

// IsDriverAvailable reports whether name is among the backend's
// advertised drivers.
func (dm *DeviceManager) IsDriverAvailable(name string) bool {
	for _, d := range dm.Drivers() {
		if d == name {
			return true
		}
	}
	return false
}

// IsInputDeviceAvailable reports whether name is an input device of
// the given driver.
func (dm *DeviceManager) IsInputDeviceAvailable(driver, name string) bool {
	for _, d := range dm.InputDevices(driver) {
		if d == name {
			return true
		}
	}
	return false
}

// IsOutputDeviceAvailable reports whether name is an output device of
// the given driver.
func (dm *DeviceManager) IsOutputDeviceAvailable(driver, name string) bool {
	for _, d := range dm.OutputDevices(driver) {
		if d == name {
			return true
		}
	}
	return false
}

// IsSampleRateAvailable reports whether rate is among the driver's
// advertised sample rates.
func (dm *DeviceManager) IsSampleRateAvailable(driver string, rate int) bool {
	for _, r := range dm.SampleRates(driver) {
		if r == rate {
			return true
		}
	}
	return false
}

// IsBlockSizeAvailable reports whether size is among the driver's
// advertised block sizes.
func (dm *DeviceManager) IsBlockSizeAvailable(driver string, size int) bool {
	for _, s := range dm.BlockSizes(driver) {
		if s == size {
			return true
		}
	}
	return false
}

// Config returns the manager's current device configuration.
func (dm *DeviceManager) Config() DeviceConfig { return dm.config }

// Configure stops active contexts (which stops their chains), applies
// cfg to the backend, then marks every context running again. Chains
// stopped along the way are not recompiled: the caller restarts them.
// It parallelizes the per-context stop with errgroup (a
// control-thread-only operation; the audio thread never sees it).
func (dm *DeviceManager) Configure(cfg DeviceConfig) error {
	dm.mu.Lock()
	contexts := make([]*Context, len(dm.contexts))
	copy(contexts, dm.contexts)
	dm.mu.Unlock()

	var g errgroup.Group
	for _, ctx := range contexts {
		ctx := ctx
		g.Go(func() error {
			ctx.Stop()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := dm.backend.Open(cfg); err != nil {
		return err
	}

	dm.mu.Lock()
	dm.config = cfg
	dm.inChannels = 0
	dm.outChannels = 0
	dm.mu.Unlock()

	dsplog.Get().WithField("device", dm.id).Info("device reconfigured: ", cfg)

	for _, ctx := range contexts {
		ctx.Start(dm)
	}
	return nil
}

// SelectDriver is a convenience setter that reconfigures only the
// driver name.
func (dm *DeviceManager) SelectDriver(name string) error {
	cfg := dm.config
	cfg.DriverName = name
	return dm.Configure(cfg)
}

// SelectInputDevice is a convenience setter that reconfigures only the
// input device.
func (dm *DeviceManager) SelectInputDevice(name string) error {
	cfg := dm.config
	cfg.InputDevice = name
	return dm.Configure(cfg)
}

// SelectOutputDevice is a convenience setter that reconfigures only
// the output device.
func (dm *DeviceManager) SelectOutputDevice(name string) error {
	cfg := dm.config
	cfg.OutputDevice = name
	return dm.Configure(cfg)
}

// SelectSampleRate is a convenience setter that reconfigures only the
// sample rate.
func (dm *DeviceManager) SelectSampleRate(rate int) error {
	cfg := dm.config
	cfg.SampleRate = rate
	return dm.Configure(cfg)
}

// SelectBlockSize is a convenience setter that reconfigures only the
// block (vector) size.
func (dm *DeviceManager) SelectBlockSize(size int) error {
	cfg := dm.config
	cfg.BlockSize = size
	return dm.Configure(cfg)
}

// InputBuffers returns the per-channel input buffer pointers the
// backend most recently populated.
func (dm *DeviceManager) InputBuffers() []Buffer { return dm.inBufs }

// OutputBuffers returns the per-channel output buffer pointers the
// backend will read back after Tick returns.
func (dm *DeviceManager) OutputBuffers() []Buffer { return dm.outBufs }

// Start opens the backend at the manager's current configuration and
// begins driving Tick once per audio block.
func (dm *DeviceManager) Start() error {
	if err := dm.backend.Open(dm.config); err != nil {
		return err
	}
	return dm.backend.Start(dm.Tick)
}

// Tick is called exactly once per audio block by the backend, after
// input buffers have been populated and before output buffers are
// read back. The manager mutex is held for the full duration of the
// tick, per spec.md §5, so a Configure/AddContext/RemoveContext edit
// can never interleave with contexts mid-tick.
func (dm *DeviceManager) Tick(in, out []Buffer) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.inBufs = in
	dm.outBufs = out

	for _, ctx := range dm.contexts {
		if ctx.IsRunning() {
			ctx.Tick()
		}
	}
}

// Close stops every context and closes the backend, detaching all
// contexts from this manager.
func (dm *DeviceManager) Close() error {
	dm.mu.Lock()
	contexts := make([]*Context, len(dm.contexts))
	copy(contexts, dm.contexts)
	dm.contexts = nil
	dm.mu.Unlock()

	var g errgroup.Group
	for _, ctx := range contexts {
		ctx := ctx
		g.Go(func() error {
			ctx.Stop()
			return nil
		})
	}
	_ = g.Wait()

	if err := dm.backend.Stop(); err != nil {
		return err
	}
	return dm.backend.Close()
}
