// Package portaudio wraps github.com/gordonklaus/portaudio as a live
// dsp.Backend, grounded in the teacher's own portaudio sink.
package portaudio

import (
	"runtime"

	"github.com/gordonklaus/portaudio"
	"golang.org/x/sys/unix"

	"github.com/nodeforge/dsp"
)

// Backend drives a default portaudio duplex stream.
type Backend struct {
	stream *portaudio.Stream

	sampleRate  int
	blockSize   int
	inChannels  int
	outChannels int

	inInterleaved  []float32
	outInterleaved []float32

	stop chan struct{}
	done chan struct{}
}

// New constructs an unopened portaudio Backend with the given
// duplex channel counts.
func New(inChannels, outChannels int) *Backend {
	return &Backend{inChannels: inChannels, outChannels: outChannels}
}

func (b *Backend) Drivers() []string { return []string{"portaudio"} }

func (b *Backend) InputDevices(string) []string {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	var names []string
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names
}

func (b *Backend) OutputDevices(string) []string {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil
	}
	var names []string
	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			names = append(names, d.Name)
		}
	}
	return names
}

func (b *Backend) SampleRates(string) []int { return []int{44100, 48000, 96000} }

func (b *Backend) BlockSizes(string) []int { return []int{64, 128, 256, 512, 1024, 2048} }

// Open initializes portaudio and opens a default duplex stream at the
// requested sample rate and block size.
func (b *Backend) Open(cfg dsp.DeviceConfig) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	b.sampleRate = cfg.SampleRate
	b.blockSize = cfg.BlockSize
	b.inInterleaved = make([]float32, b.blockSize*b.inChannels)
	b.outInterleaved = make([]float32, b.blockSize*b.outChannels)

	stream, err := portaudio.OpenDefaultStream(
		b.inChannels, b.outChannels,
		float64(b.sampleRate), b.blockSize,
		&b.inInterleaved, &b.outInterleaved,
	)
	if err != nil {
		return err
	}
	b.stream = stream
	return nil
}

// Start begins the stream and drives callback once per block from a
// dedicated goroutine locked to its OS thread, with a best-effort
// request for the highest nice priority (see raisePriority).
func (b *Backend) Start(callback func(in, out []dsp.Buffer)) error {
	if err := b.stream.Start(); err != nil {
		return err
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})

	in := make([]dsp.Buffer, b.inChannels)
	out := make([]dsp.Buffer, b.outChannels)
	for ch := range in {
		in[ch] = dsp.NewBuffer(b.blockSize)
	}
	for ch := range out {
		out[ch] = dsp.NewBuffer(b.blockSize)
	}

	go func() {
		defer close(b.done)
		runtime.LockOSThread()
		raisePriority()
		for {
			select {
			case <-b.stop:
				return
			default:
			}
			if err := b.stream.Read(); err != nil {
				return
			}
			deinterleave(b.inInterleaved, in, b.inChannels)
			callback(in, out)
			interleave(out, b.outInterleaved, b.outChannels)
			if err := b.stream.Write(); err != nil {
				return
			}
		}
	}()
	return nil
}

func (b *Backend) Stop() error {
	if b.stop != nil {
		close(b.stop)
		<-b.done
	}
	if b.stream != nil {
		return b.stream.Stop()
	}
	return nil
}

func (b *Backend) Close() error {
	if b.stream != nil {
		if err := b.stream.Close(); err != nil {
			return err
		}
	}
	return portaudio.Terminate()
}

func deinterleave(src []float32, dst []dsp.Buffer, channels int) {
	frames := len(src) / channels
	for ch := 0; ch < channels; ch++ {
		buf := dst[ch]
		for i := 0; i < frames && i < len(buf); i++ {
			buf[i] = dsp.Sample(src[i*channels+ch])
		}
	}
}

func interleave(src []dsp.Buffer, dst []float32, channels int) {
	if len(src) == 0 {
		return
	}
	frames := len(src[0])
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels && ch < len(src); ch++ {
			dst[i*channels+ch] = float32(src[ch][i])
		}
	}
}

// raisePriority best-effort sets the nice value to -20 through
// setpriority(PRIO_PROCESS, 0, -20); it does not change the
// scheduling class. Failure is silently ignored: most environments
// require elevated
// privileges for this, and the engine degrades gracefully to
// whatever scheduling class the OS gives it.
func raisePriority() {
	defer func() { recover() }()
	_ = unix.Setpriority(unix.PRIO_PROCESS, 0, -20)
}
