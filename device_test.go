package dsp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp"
)

type countingBackend struct {
	opens  int
	starts int
	stops  int
	closes int
}

func (b *countingBackend) Drivers() []string                     { return []string{"counting"} }
func (b *countingBackend) InputDevices(string) []string          { return []string{"in"} }
func (b *countingBackend) OutputDevices(string) []string         { return []string{"out"} }
func (b *countingBackend) SampleRates(string) []int              { return []int{44100} }
func (b *countingBackend) BlockSizes(string) []int               { return []int{4} }
func (b *countingBackend) Open(dsp.DeviceConfig) error            { b.opens++; return nil }
func (b *countingBackend) Start(func(in, out []dsp.Buffer)) error { b.starts++; return nil }
func (b *countingBackend) Stop() error                            { b.stops++; return nil }
func (b *countingBackend) Close() error                           { b.closes++; return nil }

func TestDeviceManagerContextMembership(t *testing.T) {
	backend := &countingBackend{}
	dm := dsp.NewDeviceManager(backend)

	ctx := dsp.NewContext(44100, 4)
	dm.AddContext(ctx)
	dm.AddContext(ctx) // idempotent

	assert.Equal(t, 1, len(dm.Contexts()))
	assert.True(t, ctx.IsRunning())

	dm.RemoveContext(ctx)
	assert.Equal(t, 0, len(dm.Contexts()))
	assert.False(t, ctx.IsRunning())
}

func TestDeviceManagerConfigureStopsAndRestartsContexts(t *testing.T) {
	backend := &countingBackend{}
	dm := dsp.NewDeviceManager(backend)
	ctx := dsp.NewContext(44100, 4)
	dm.AddContext(ctx)

	err := dm.Configure(dsp.DeviceConfig{DriverName: "counting", SampleRate: 48000, BlockSize: 8})
	assert.NoError(t, err)
	assert.Equal(t, 1, backend.opens)
	assert.True(t, ctx.IsRunning(), "context must be restarted after Configure")
	assert.Equal(t, 48000, dm.Config().SampleRate)
}

func TestDeviceManagerSelectors(t *testing.T) {
	backend := &countingBackend{}
	dm := dsp.NewDeviceManager(backend, dsp.WithConfig(dsp.DeviceConfig{SampleRate: 44100, BlockSize: 4}))

	assert.NoError(t, dm.SelectSampleRate(48000))
	assert.Equal(t, 48000, dm.Config().SampleRate)

	assert.NoError(t, dm.SelectBlockSize(16))
	assert.Equal(t, 16, dm.Config().BlockSize)

	assert.NoError(t, dm.SelectDriver("counting"))
	assert.Equal(t, "counting", dm.Config().DriverName)
}

func TestDeviceManagerCloseStopsEverything(t *testing.T) {
	backend := &countingBackend{}
	dm := dsp.NewDeviceManager(backend)
	ctx := dsp.NewContext(44100, 4)
	dm.AddContext(ctx)

	assert.NoError(t, dm.Close())
	assert.Equal(t, 1, backend.stops)
	assert.Equal(t, 1, backend.closes)
	assert.Equal(t, 0, len(dm.Contexts()))
}

func TestDeviceManagerAvailabilityChecks(t *testing.T) {
	backend := &countingBackend{}
	dm := dsp.NewDeviceManager(backend)

	assert.True(t, dm.IsDriverAvailable("counting"))
	assert.False(t, dm.IsDriverAvailable("nope"))
	assert.True(t, dm.IsInputDeviceAvailable("counting", "in"))
	assert.True(t, dm.IsOutputDeviceAvailable("counting", "out"))
	assert.True(t, dm.IsSampleRateAvailable("counting", 44100))
	assert.False(t, dm.IsSampleRateAvailable("counting", 96000))
	assert.True(t, dm.IsBlockSizeAvailable("counting", 4))
}

func TestContextCPULoadIsNonNegative(t *testing.T) {
	ctx := dsp.NewContext(44100, 4)
	ctx.Start(nil)
	chain := dsp.NewChain()
	ctx.AddChain(chain)
	assert.NoError(t, chain.Add(newNode("a", 0, 1)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	ctx.Tick()
	assert.GreaterOrEqual(t, ctx.CPULoad(), float64(0))
}
