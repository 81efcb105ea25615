package dsp

import "github.com/rs/xid"

// ID is a globally ordered identifier assigned to every Node, Link,
// Chain, Context and DeviceManager. Chains and device managers attach
// it to their log entries; it is not used for node names or in
// diagnostics output.
type ID string

// newID mints a fresh, monotonically-sortable ID from xid's
// process-wide counter.
func newID() ID {
	return ID(xid.New().String())
}

func (id ID) String() string { return string(id) }
