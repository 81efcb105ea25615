package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpCommandRuns(t *testing.T) {
	cmd := &dumpCommand{sampleRate: 44100, blockSize: 8, gain: 2}
	assert.NoError(t, cmd.Run())
}

func TestRunCommandValidatesFlags(t *testing.T) {
	cmd := &runCommand{}
	assert.Error(t, cmd.Validate())

	cmd.in = "in.wav"
	cmd.out = "out.wav"
	assert.NoError(t, cmd.Validate())
}
