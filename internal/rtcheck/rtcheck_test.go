package rtcheck_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp/internal/rtcheck"
)

func TestGuardRunsFnWhenDisabled(t *testing.T) {
	os.Unsetenv("DSP_RT_CHECK")
	called := false
	violated := false
	rtcheck.Guard("node", func() { called = true }, func(string) { violated = true })
	assert.True(t, called)
	assert.False(t, violated)
}
