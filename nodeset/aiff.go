package nodeset

import (
	"errors"
	"os"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/nodeforge/dsp"
)

// AiffSource reads an AIFF file and writes one output per channel.
type AiffSource struct {
	file    *os.File
	decoder *aiff.Decoder
	ib      *goaudio.IntBuffer
	nchans  int
	done    bool
}

// NewAiffSource opens path and constructs an AiffSource node.
func NewAiffSource(path string, blockSize int) (*dsp.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, errors.New("nodeset: invalid aiff file")
	}
	nchans := int(dec.NumChans)
	src := &AiffSource{
		file:    f,
		decoder: dec,
		nchans:  nchans,
		ib: &goaudio.IntBuffer{
			Format: &goaudio.Format{NumChannels: nchans, SampleRate: int(dec.SampleRate)},
			Data:   make([]int, blockSize*nchans),
		},
	}
	return dsp.NewNode(src, 0, nchans), nil
}

func (s *AiffSource) Name() string { return "aiff.source" }

func (s *AiffSource) Prepare(n *dsp.Node) error {
	n.ShouldPerform(true)
	return nil
}

func (s *AiffSource) Perform(n *dsp.Node) {
	for ch := 0; ch < s.nchans; ch++ {
		n.Output(ch).Clear()
	}
	if s.done {
		return
	}
	n2, err := s.decoder.PCMBuffer(s.ib)
	if err != nil || n2 == 0 {
		s.done = true
		return
	}
	frames := n2 / s.nchans
	for ch := 0; ch < s.nchans; ch++ {
		out := n.Output(ch)
		for i := 0; i < frames && i < len(out); i++ {
			out[i] = float64(s.ib.Data[i*s.nchans+ch]) / 0x8000
		}
	}
}

func (s *AiffSource) Release(n *dsp.Node) {
	_ = s.file.Close()
}
