package nodeset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp"
	"github.com/nodeforge/dsp/nodeset"
)

func newRunningChain(t *testing.T) (*dsp.Context, *dsp.Chain) {
	t.Helper()
	ctx := dsp.NewContext(44100, 4)
	ctx.Start(nil)
	chain := dsp.NewChain()
	ctx.AddChain(chain)
	return ctx, chain
}

func TestSigFillsConstant(t *testing.T) {
	_, chain := newRunningChain(t)
	sig := nodeset.NewSig(0.25)
	assert.NoError(t, chain.Add(sig))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	chain.Tick()
	out := sig.Output(0)
	for _, v := range out {
		assert.Equal(t, dsp.Sample(0.25), v)
	}
}

func TestGainScalesSignal(t *testing.T) {
	_, chain := newRunningChain(t)
	sig := nodeset.NewSig(2)
	gain := nodeset.NewGain(1.5)
	assert.NoError(t, chain.Add(sig))
	assert.NoError(t, chain.Add(gain))
	assert.NoError(t, chain.AddLink(dsp.NewLink(sig, 0, gain, 0)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	chain.Tick()
	for _, v := range gain.Output(0) {
		assert.Equal(t, dsp.Sample(3), v)
	}
}

// A disconnected Gain still requests in-place output, but Prepare
// gates ShouldPerform on IsInputConnected, so the node does not run
// and no port buffer is bound (and no Inplace error is raised).
func TestGainSkipsPerformWhenDisconnected(t *testing.T) {
	_, chain := newRunningChain(t)
	gain := nodeset.NewGain(2)
	assert.NoError(t, chain.Add(gain))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.False(t, gain.Running())
}

func TestPhasorRampsAndWraps(t *testing.T) {
	_, chain := newRunningChain(t)
	phasor := nodeset.NewPhasor(11025, 0) // quarter-cycle per sample at 44100Hz
	assert.NoError(t, chain.Add(phasor))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	chain.Tick()
	out := phasor.Output(0)
	assert.Equal(t, dsp.Sample(0), out[0])
	assert.Equal(t, dsp.Sample(0.25), out[1])
	assert.Equal(t, dsp.Sample(0.5), out[2])
	assert.Equal(t, dsp.Sample(0.75), out[3])
}

func TestNoiseSeededIsDeterministic(t *testing.T) {
	_, chain1 := newRunningChain(t)
	n1 := nodeset.NewNoiseSeeded(42)
	assert.NoError(t, chain1.Add(n1))
	assert.NoError(t, chain1.Start())
	chain1.Tick()
	got1 := append(dsp.Buffer{}, n1.Output(0)...)
	chain1.Stop()

	_, chain2 := newRunningChain(t)
	n2 := nodeset.NewNoiseSeeded(42)
	assert.NoError(t, chain2.Add(n2))
	assert.NoError(t, chain2.Start())
	chain2.Tick()
	got2 := n2.Output(0)

	assert.Equal(t, []dsp.Sample(got1), []dsp.Sample(got2))
}

type fakeBackend struct {
	in, out []dsp.Buffer
}

func (f *fakeBackend) Drivers() []string             { return []string{"fake"} }
func (f *fakeBackend) InputDevices(string) []string  { return nil }
func (f *fakeBackend) OutputDevices(string) []string { return nil }
func (f *fakeBackend) SampleRates(string) []int      { return []int{44100} }
func (f *fakeBackend) BlockSizes(string) []int       { return []int{4} }
func (f *fakeBackend) Open(dsp.DeviceConfig) error   { return nil }
func (f *fakeBackend) Start(cb func(in, out []dsp.Buffer)) error {
	cb(f.in, f.out)
	return nil
}
func (f *fakeBackend) Stop() error  { return nil }
func (f *fakeBackend) Close() error { return nil }

func TestADCReadsDeviceInputBuffer(t *testing.T) {
	in := []dsp.Buffer{{1, 2, 3, 4}}
	out := []dsp.Buffer{dsp.NewBuffer(4)}
	backend := &fakeBackend{in: in, out: out}
	dm := dsp.NewDeviceManager(backend, dsp.WithConfig(dsp.DeviceConfig{SampleRate: 44100, BlockSize: 4}))

	ctx := dsp.NewContext(44100, 4)
	dm.AddContext(ctx)
	chain := dsp.NewChain()
	ctx.AddChain(chain)

	adc := nodeset.NewADC(dm, 0)
	assert.NoError(t, chain.Add(adc))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.NoError(t, dm.Start())
	assert.Equal(t, dsp.Buffer{1, 2, 3, 4}, adc.Output(0))
}

func TestDACWritesDeviceOutputBuffer(t *testing.T) {
	in := []dsp.Buffer{dsp.NewBuffer(4)}
	out := []dsp.Buffer{dsp.NewBuffer(4)}
	backend := &fakeBackend{in: in, out: out}
	dm := dsp.NewDeviceManager(backend, dsp.WithConfig(dsp.DeviceConfig{SampleRate: 44100, BlockSize: 4}))

	ctx := dsp.NewContext(44100, 4)
	dm.AddContext(ctx)
	chain := dsp.NewChain()
	ctx.AddChain(chain)

	sig := nodeset.NewSig(0.5)
	dac := nodeset.NewDAC(dm, 0)
	assert.NoError(t, chain.Add(sig))
	assert.NoError(t, chain.Add(dac))
	assert.NoError(t, chain.AddLink(dsp.NewLink(sig, 0, dac, 0)))
	assert.NoError(t, chain.Start())
	defer chain.Stop()

	assert.NoError(t, dm.Start())
	for _, v := range out[0] {
		assert.Equal(t, dsp.Sample(0.5), v)
	}
}
