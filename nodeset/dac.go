package nodeset

import "github.com/nodeforge/dsp"

// DAC writes its single input directly into one channel of the
// DeviceManager's current output buffers. It has zero outputs: per
// spec.md §6, I/O nodes read/write device channel buffers directly
// and the core never touches them.
type DAC struct {
	device  *dsp.DeviceManager
	channel int
}

// NewDAC constructs a DAC node bound to the given device manager and
// output channel index.
func NewDAC(device *dsp.DeviceManager, channel int) *dsp.Node {
	return dsp.NewNode(&DAC{device: device, channel: channel}, 1, 0)
}

func (d *DAC) Name() string { return "dac" }

func (d *DAC) Prepare(n *dsp.Node) error {
	n.ShouldPerform(n.IsInputConnected(0))
	return nil
}

func (d *DAC) Perform(n *dsp.Node) {
	out := d.device.OutputBuffers()
	if d.channel < 0 || d.channel >= len(out) {
		return
	}
	out[d.channel].CopyFrom(n.Input(0))
}

func (d *DAC) Release(n *dsp.Node) {}

// ADC reads one channel of the DeviceManager's current input buffers
// directly into its single output. It has zero inputs.
type ADC struct {
	device  *dsp.DeviceManager
	channel int
}

// NewADC constructs an ADC node bound to the given device manager and
// input channel index.
func NewADC(device *dsp.DeviceManager, channel int) *dsp.Node {
	return dsp.NewNode(&ADC{device: device, channel: channel}, 0, 1)
}

func (a *ADC) Name() string { return "adc" }

func (a *ADC) Prepare(n *dsp.Node) error {
	n.ShouldPerform(true)
	return nil
}

func (a *ADC) Perform(n *dsp.Node) {
	in := a.device.InputBuffers()
	out := n.Output(0)
	if a.channel < 0 || a.channel >= len(in) {
		out.Clear()
		return
	}
	out.CopyFrom(in[a.channel])
}

func (a *ADC) Release(n *dsp.Node) {}
