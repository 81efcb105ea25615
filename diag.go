package dsp

import (
	"fmt"

	"github.com/nodeforge/dsp/internal/diag"
)

func bufferKey(b Buffer) string {
	if len(b) == 0 {
		return "<nil>"
	}
	return ptrString(&b[0])
}

// Dump renders the chain's compiled schedule — node order, names and
// port buffer aliasing — as a human-readable string, for debugging
// and test failure output.
func (c *Chain) Dump() string {
	return diag.Dump(c.diagRecords())
}

// Fingerprint computes a stable digest of the chain's compiled
// schedule, so operators can confirm two compiles produced an
// identical plan without diffing the whole dump. It is a cheap
// cache/telemetry key, not a contract on schedule content (spec.md
// §9's open-question posture).
func (c *Chain) Fingerprint() (string, error) {
	return diag.Fingerprint(c.diagRecords())
}

// Diff renders a unified diff between this chain's current compiled
// schedule and other's, for use in test failure output when two
// compiles were expected to produce the same plan but didn't.
func (c *Chain) Diff(other *Chain) (string, error) {
	return diag.Diff(c.Dump(), other.Dump())
}

func (c *Chain) diagRecords() []diag.NodeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Buffer keys are numbered in order of first appearance, so the
	// records show aliasing and are identical for identical plans.
	keys := map[string]string{}
	bufferID := func(b Buffer) string {
		k := bufferKey(b)
		if k == "<nil>" {
			return k
		}
		if id, ok := keys[k]; ok {
			return id
		}
		keys[k] = fmt.Sprintf("buf%d", len(keys))
		return keys[k]
	}

	records := make([]diag.NodeRecord, 0, len(c.compiled))
	for i, n := range c.compiled {
		rec := diag.NodeRecord{
			Index:   i + 1,
			Name:    n.Name(),
			Running: n.running,
			Inplace: n.inplace,
		}
		for _, in := range n.inputs {
			rec.Inputs = append(rec.Inputs, diag.BufferRecord{Key: bufferID(in.buffer), Owned: true})
		}
		for _, out := range n.outputs {
			rec.Outputs = append(rec.Outputs, diag.BufferRecord{Key: bufferID(out.buffer), Owned: out.owned})
		}
		records = append(records, rec)
	}
	return records
}
