package dsp

import "fmt"

// ptrString renders a sample pointer as a stable opaque string, used
// only to show buffer aliasing in diagnostics without leaking real
// addresses into anything but debug output.
func ptrString(p *Sample) string {
	return fmt.Sprintf("%p", p)
}
