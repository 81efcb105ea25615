package bufpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp/internal/bufpool"
)

func TestGetReturnsSameCachedPoolForSize(t *testing.T) {
	bufpool.Wipe()

	p1 := bufpool.Get(64)
	p2 := bufpool.Get(64)
	assert.Same(t, p1, p2)

	p3 := bufpool.Get(128)
	assert.NotSame(t, p1, p3)
}

func TestGetProducesRightSizedBuffers(t *testing.T) {
	bufpool.Wipe()

	buf := bufpool.Get(32).Get().([]float64)
	assert.Equal(t, 32, len(buf))
}
