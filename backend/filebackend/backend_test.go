package filebackend_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp"
	"github.com/nodeforge/dsp/backend/filebackend"
)

func TestBackendTicksSilenceWithoutInputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.wav")
	backend := filebackend.New("", outPath, 1, 1)

	err := backend.Open(dsp.DeviceConfig{SampleRate: 44100, BlockSize: 8})
	assert.NoError(t, err)

	called := false
	backend.Tick(func(in, out []dsp.Buffer) {
		called = true
		assert.Equal(t, 1, len(in))
		assert.Equal(t, 8, len(in[0]))
		out[0].Fill(0.5)
	})
	assert.True(t, called)
	assert.Equal(t, 1, backend.Blocks())

	assert.NoError(t, backend.Close())
}

func TestBackendStartWithoutInputFileIsNoop(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.wav")
	backend := filebackend.New("", outPath, 1, 1)
	assert.NoError(t, backend.Open(dsp.DeviceConfig{SampleRate: 44100, BlockSize: 8}))

	called := false
	err := backend.Start(func(in, out []dsp.Buffer) { called = true })
	assert.NoError(t, err)
	assert.False(t, called, "Start with no input file never invokes callback")
	assert.Equal(t, 0, backend.Blocks())
}
