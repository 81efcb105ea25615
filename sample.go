package dsp

// Sample is the scalar numeric type the engine computes in, fixed at
// build time. This build selects double precision. Sample is an alias
// of float64, and the buffer pool (internal/bufpool) and several
// nodeset nodes use float64 directly.
type Sample = float64

// Buffer is a contiguous run of Sample of length equal to the owning
// context's block size. Buffers are allocated once, during compile,
// and never resized on the audio thread.
type Buffer []Sample

// NewBuffer allocates a zero-filled Buffer of the given block size.
func NewBuffer(blockSize int) Buffer {
	return make(Buffer, blockSize)
}

// Clear zero-fills the buffer in place. It is the stand-in for the
// opaque vclear SIMD primitive the source treats as external.
func (b Buffer) Clear() {
	for i := range b {
		b[i] = 0
	}
}

// CopyFrom overwrites b with src, the stand-in for vcopy.
func (b Buffer) CopyFrom(src Buffer) {
	copy(b, src)
}

// AddFrom adds src into b pointwise, the stand-in for vadd.
func (b Buffer) AddFrom(src Buffer) {
	n := len(b)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		b[i] += src[i]
	}
}

// Fill sets every sample to v, the stand-in for vfill.
func (b Buffer) Fill(v Sample) {
	for i := range b {
		b[i] = v
	}
}
