// Package rtcheck provides a debug-build allocation sentinel: a way
// to flag a node whose Perform call allocated, per spec.md §9's "may
// assert via an allocation sentinel". It is active only when
// DSP_RT_CHECK=1 is set, since runtime.ReadMemStats is too expensive
// to leave on by default.
package rtcheck

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

var (
	once    sync.Once
	enabled bool
)

// Enabled reports whether the allocation sentinel is active.
func Enabled() bool {
	once.Do(func() {
		v, err := strconv.ParseBool(os.Getenv("DSP_RT_CHECK"))
		enabled = err == nil && v
	})
	return enabled
}

// Guard samples heap allocation counts before and after calling fn,
// invoking onViolation(name) if fn allocated. It is a no-op unless
// Enabled(). Guard itself allocates (reading mem stats), so it must
// never run on the audio thread in production — only under the
// DSP_RT_CHECK debug toggle.
func Guard(name string, fn func(), onViolation func(name string)) {
	if !Enabled() {
		fn()
		return
	}
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	if after.Mallocs > before.Mallocs {
		onViolation(name)
	}
}
