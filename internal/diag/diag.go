// Package diag renders a compiled chain's schedule for human
// inspection and computes a stable fingerprint of it, so operators
// can confirm two compiles produced an identical plan without diffing
// the whole dump.
package diag

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/crypto/blake2b"
)

// NodeRecord is one entry of a compiled schedule, as seen from
// outside the dsp package (it has no access to *dsp.Node internals).
type NodeRecord struct {
	Index   int
	Name    string
	Running bool
	Inplace bool
	Inputs  []BufferRecord
	Outputs []BufferRecord
}

// BufferRecord identifies a port's buffer by a stable opaque key (the
// caller passes a pointer-derived string), so Dump/Fingerprint can
// show aliasing without exposing real pointers.
type BufferRecord struct {
	Key   string
	Owned bool
}

// Dump renders a compiled schedule with go-spew, one line of summary
// per node followed by its full structure.
func Dump(records []NodeRecord) string {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "#%d %s running=%v inplace=%v\n", r.Index, r.Name, r.Running, r.Inplace)
		b.WriteString(spew.Sdump(r))
	}
	return b.String()
}

// Diff renders a unified diff between two schedule dumps, used in
// test failure output.
func Diff(a, b string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Fingerprint computes a blake2b-256 digest of a compiled schedule's
// shape (node order, names, port buffer aliasing) so two compiles can
// be compared for equality cheaply. This is a diagnostic/telemetry
// key, not a contract on the schedule's content.
func Fingerprint(records []NodeRecord) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for _, r := range records {
		fmt.Fprintf(h, "%d|%s|%v|%v|", r.Index, r.Name, r.Running, r.Inplace)
		for _, in := range r.Inputs {
			fmt.Fprintf(h, "i:%s:%v;", in.Key, in.Owned)
		}
		for _, out := range r.Outputs {
			fmt.Fprintf(h, "o:%s:%v;", out.Key, out.Owned)
		}
		h.Write([]byte("\n"))
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
