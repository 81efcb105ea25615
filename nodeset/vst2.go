package nodeset

import (
	vst2 "github.com/dudk/vst2"

	"github.com/nodeforge/dsp"
)

// VST2 wraps a loaded VST2 plugin as a node: one input and one output
// per channel, processed through the plugin's own buffer-at-a-time
// API, grounded in the teacher's vst2 processor.
type VST2 struct {
	plugin  *vst2.Plugin
	nchans  int
	started bool
}

// NewVST2 constructs a VST2 node around an already-loaded plugin.
func NewVST2(plugin *vst2.Plugin, numChannels int) *dsp.Node {
	return dsp.NewNode(&VST2{plugin: plugin, nchans: numChannels}, numChannels, numChannels)
}

func (v *VST2) Name() string { return "vst2" }

func (v *VST2) Prepare(n *dsp.Node) error {
	v.plugin.SetBufferSize(n.BlockSize())
	v.plugin.SetSampleRate(n.SampleRate())
	v.plugin.SetSpeakerArrangement(v.nchans)
	v.plugin.Resume()
	v.started = true
	n.ShouldPerform(true)
	return nil
}

func (v *VST2) Perform(n *dsp.Node) {
	channels := make([][]float64, v.nchans)
	for ch := 0; ch < v.nchans; ch++ {
		channels[ch] = n.Input(ch)
	}
	processed := v.plugin.Process(channels)
	for ch := 0; ch < v.nchans && ch < len(processed); ch++ {
		n.Output(ch).CopyFrom(processed[ch])
	}
}

func (v *VST2) Release(n *dsp.Node) {
	if v.started {
		v.plugin.Suspend()
		v.started = false
	}
}
