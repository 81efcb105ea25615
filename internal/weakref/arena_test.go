package weakref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodeforge/dsp/internal/weakref"
)

func TestArenaPutResolve(t *testing.T) {
	a := weakref.NewArena[string]()
	ref := a.Put("hello")

	value, ok := a.Resolve(ref)
	assert.True(t, ok)
	assert.Equal(t, "hello", value)
}

func TestArenaDeleteInvalidatesRef(t *testing.T) {
	a := weakref.NewArena[string]()
	ref := a.Put("hello")
	a.Delete(ref)

	_, ok := a.Resolve(ref)
	assert.False(t, ok)
}

func TestArenaReusesSlotWithNewGeneration(t *testing.T) {
	a := weakref.NewArena[string]()
	first := a.Put("a")
	a.Delete(first)
	second := a.Put("b")

	_, ok := a.Resolve(first)
	assert.False(t, ok, "stale ref into a reused slot must not resolve")

	value, ok := a.Resolve(second)
	assert.True(t, ok)
	assert.Equal(t, "b", value)
}

func TestRefIsZero(t *testing.T) {
	var zero weakref.Ref[string]
	assert.True(t, zero.IsZero())

	a := weakref.NewArena[string]()
	ref := a.Put("x")
	assert.False(t, ref.IsZero())

	a.Delete(ref)
	assert.False(t, ref.IsZero(), "a stale ref is not the same as a never-bound ref")
}
