package nodeset

import (
	"errors"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nodeforge/dsp"
)

// WavSink writes its inputs — one per channel, interleaved — to a WAV
// file, converting each dsp.Sample in [-1, 1) to a 16-bit PCM frame.
type WavSink struct {
	file    *os.File
	encoder *wav.Encoder
	ib      *goaudio.IntBuffer
	nchans  int
	data    []int
}

// NewWavSink opens path and constructs a WavSink node with the given
// channel count and sample rate.
func NewWavSink(path string, sampleRate, numChannels int) (*dsp.Node, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)
	sink := &WavSink{
		file:    f,
		encoder: enc,
		nchans:  numChannels,
		ib: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: numChannels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
	return dsp.NewNode(sink, numChannels, 0), nil
}

func (s *WavSink) Name() string { return "wav.sink" }

func (s *WavSink) Prepare(n *dsp.Node) error {
	s.data = make([]int, n.BlockSize()*s.nchans)
	s.ib.Data = s.data
	n.ShouldPerform(true)
	return nil
}

func (s *WavSink) Perform(n *dsp.Node) {
	blockSize := n.BlockSize()
	for ch := 0; ch < s.nchans; ch++ {
		in := n.Input(ch)
		for i := 0; i < blockSize; i++ {
			s.data[i*s.nchans+ch] = int(in[i] * 0x7fff)
		}
	}
	_ = s.encoder.Write(s.ib)
}

func (s *WavSink) Release(n *dsp.Node) {
	_ = s.encoder.Close()
	_ = s.file.Close()
}

// WavSource reads a WAV file and writes one output per channel.
// Once the file is exhausted it continues to emit silence rather than
// stopping: a chain's compiled node count is fixed for the life of
// the compile, so "done" is surfaced as silence, not removal.
type WavSource struct {
	file    *os.File
	decoder *wav.Decoder
	ib      *goaudio.IntBuffer
	nchans  int
	done    bool
}

// NewWavSource opens path and constructs a WavSource node.
func NewWavSource(path string, blockSize int) (*dsp.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, errors.New("nodeset: invalid wav file")
	}
	nchans := dec.Format().NumChannels
	src := &WavSource{
		file:    f,
		decoder: dec,
		nchans:  nchans,
		ib: &goaudio.IntBuffer{
			Format:         dec.Format(),
			Data:           make([]int, blockSize*nchans),
			SourceBitDepth: int(dec.BitDepth),
		},
	}
	return dsp.NewNode(src, 0, nchans), nil
}

func (s *WavSource) Name() string { return "wav.source" }

func (s *WavSource) Prepare(n *dsp.Node) error {
	n.ShouldPerform(true)
	return nil
}

func (s *WavSource) Perform(n *dsp.Node) {
	for ch := 0; ch < s.nchans; ch++ {
		n.Output(ch).Clear()
	}
	if s.done {
		return
	}
	read, err := s.decoder.PCMBuffer(s.ib)
	if err != nil || read == 0 {
		s.done = true
		return
	}
	frames := read / s.nchans
	for ch := 0; ch < s.nchans; ch++ {
		out := n.Output(ch)
		for i := 0; i < frames && i < len(out); i++ {
			out[i] = float64(s.ib.Data[i*s.nchans+ch]) / 0x8000
		}
	}
}

func (s *WavSource) Release(n *dsp.Node) {
	_ = s.file.Close()
}
