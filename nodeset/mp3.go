package nodeset

import (
	"encoding/binary"
	"os"

	"github.com/viert/lame"

	"github.com/nodeforge/dsp"
)

// Mp3Sink encodes its inputs — one per channel, interleaved — to an
// MP3 file via liblame, grounded in the teacher's mp3 package.
type Mp3Sink struct {
	file    *os.File
	writer  *lame.LameWriter
	nchans  int
	scratch []byte
}

// NewMp3Sink opens path and constructs an Mp3Sink node.
func NewMp3Sink(path string, sampleRate, numChannels, bitRate, quality int) (*dsp.Node, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := lame.NewWriter(f)
	w.Encoder.SetBitrate(bitRate)
	w.Encoder.SetQuality(quality)
	w.Encoder.SetNumChannels(numChannels)
	w.Encoder.SetInSamplerate(sampleRate)
	w.Encoder.InitParams()

	sink := &Mp3Sink{file: f, writer: w, nchans: numChannels}
	return dsp.NewNode(sink, numChannels, 0), nil
}

func (s *Mp3Sink) Name() string { return "mp3.sink" }

func (s *Mp3Sink) Prepare(n *dsp.Node) error {
	s.scratch = make([]byte, n.BlockSize()*s.nchans*2)
	n.ShouldPerform(true)
	return nil
}

func (s *Mp3Sink) Perform(n *dsp.Node) {
	blockSize := n.BlockSize()
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < s.nchans; ch++ {
			sample := uint16(int16(n.Input(ch)[i] * 0x7fff))
			off := (i*s.nchans + ch) * 2
			binary.LittleEndian.PutUint16(s.scratch[off:], sample)
		}
	}
	_, _ = s.writer.Write(s.scratch)
}

func (s *Mp3Sink) Release(n *dsp.Node) {
	_ = s.writer.Close()
	_ = s.file.Close()
}
