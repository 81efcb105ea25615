// Package filebackend implements a deterministic, file-driven
// dsp.Backend used by the CLI and tests to drive the tick loop from a
// WAV file instead of a live device, and capture the result to
// another WAV file. It is a test/CLI convenience for exercising the
// tick loop deterministically, one block at a time through the same
// DeviceManager.Tick path a live backend would drive — not an
// offline-rendering mode of the core.
package filebackend

import (
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/nodeforge/dsp"
)

// Backend reads an optional input WAV file block by block (or
// synthesizes silence if none is given) and writes the device's
// output buffers to an output WAV file.
type Backend struct {
	inPath, outPath string
	inChannels      int
	outChannels     int

	sampleRate int
	blockSize  int

	inFile  *os.File
	decoder *wav.Decoder
	ib      *goaudio.IntBuffer

	outFile *os.File
	encoder *wav.Encoder
	ob      *goaudio.IntBuffer

	blocks int // number of blocks driven so far, exposed for tests
}

// New constructs a Backend that will read inPath (if non-empty) and
// write outPath.
func New(inPath, outPath string, inChannels, outChannels int) *Backend {
	return &Backend{inPath: inPath, outPath: outPath, inChannels: inChannels, outChannels: outChannels}
}

func (b *Backend) Drivers() []string          { return []string{"file"} }
func (b *Backend) InputDevices(string) []string  { return []string{b.inPath} }
func (b *Backend) OutputDevices(string) []string { return []string{b.outPath} }
func (b *Backend) SampleRates(string) []int   { return []int{8000, 16000, 22050, 44100, 48000, 96000} }
func (b *Backend) BlockSizes(string) []int    { return []int{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024} }

// Open prepares the input decoder (if any) and the output encoder at
// the requested sample rate and block size.
func (b *Backend) Open(cfg dsp.DeviceConfig) error {
	b.sampleRate = cfg.SampleRate
	b.blockSize = cfg.BlockSize

	if b.inPath != "" {
		f, err := os.Open(b.inPath)
		if err != nil {
			return err
		}
		dec := wav.NewDecoder(f)
		if !dec.IsValidFile() {
			f.Close()
			return os.ErrInvalid
		}
		b.inFile = f
		b.decoder = dec
		b.ib = &goaudio.IntBuffer{
			Format:         dec.Format(),
			Data:           make([]int, b.blockSize*b.inChannels),
			SourceBitDepth: int(dec.BitDepth),
		}
	}

	if b.outPath != "" {
		f, err := os.Create(b.outPath)
		if err != nil {
			return err
		}
		b.outFile = f
		b.encoder = wav.NewEncoder(f, b.sampleRate, 16, b.outChannels, 1)
		b.ob = &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: b.outChannels, SampleRate: b.sampleRate},
			SourceBitDepth: 16,
		}
	}
	return nil
}

// Start drives callback once per block until the input file (if any)
// is exhausted, then returns. With no input file, it is a no-op: call
// Tick directly from a test driver loop instead.
func (b *Backend) Start(callback func(in, out []dsp.Buffer)) error {
	if b.decoder == nil {
		return nil
	}
	in := make([]dsp.Buffer, b.inChannels)
	out := make([]dsp.Buffer, b.outChannels)
	for ch := range in {
		in[ch] = dsp.NewBuffer(b.blockSize)
	}
	for ch := range out {
		out[ch] = dsp.NewBuffer(b.blockSize)
	}

	for {
		read, err := b.decoder.PCMBuffer(b.ib)
		if err != nil || read == 0 {
			return nil
		}
		frames := read / b.inChannels
		for ch := 0; ch < b.inChannels; ch++ {
			buf := in[ch]
			buf.Clear()
			for i := 0; i < frames && i < len(buf); i++ {
				buf[i] = float64(b.ib.Data[i*b.inChannels+ch]) / 0x8000
			}
		}
		callback(in, out)
		b.writeBlock(out)
		b.blocks++
	}
}

// Tick drives exactly one block through callback using silence as
// input, for tests that don't need a real input file.
func (b *Backend) Tick(callback func(in, out []dsp.Buffer)) {
	in := make([]dsp.Buffer, b.inChannels)
	out := make([]dsp.Buffer, b.outChannels)
	for ch := range in {
		in[ch] = dsp.NewBuffer(b.blockSize)
	}
	for ch := range out {
		out[ch] = dsp.NewBuffer(b.blockSize)
	}
	callback(in, out)
	b.writeBlock(out)
	b.blocks++
}

// Blocks returns the number of blocks driven so far.
func (b *Backend) Blocks() int { return b.blocks }

func (b *Backend) writeBlock(out []dsp.Buffer) {
	if b.encoder == nil || len(out) == 0 {
		return
	}
	data := make([]int, len(out[0])*b.outChannels)
	for ch := 0; ch < b.outChannels && ch < len(out); ch++ {
		buf := out[ch]
		for i := range buf {
			data[i*b.outChannels+ch] = int(buf[i] * 0x7fff)
		}
	}
	b.ob.Data = data
	_ = b.encoder.Write(b.ob)
}

func (b *Backend) Stop() error { return nil }

func (b *Backend) Close() error {
	if b.decoder != nil && b.inFile != nil {
		b.inFile.Close()
	}
	if b.encoder != nil {
		if err := b.encoder.Close(); err != nil {
			return err
		}
	}
	if b.outFile != nil {
		return b.outFile.Close()
	}
	return nil
}
