// Package dsp implements a realtime digital-signal-processing graph
// runtime: a compiler/scheduler that turns a user-declared network of
// nodes and links into a topologically ordered, buffer-bound execution
// plan, and a tick loop that drives that plan from an audio device
// callback at a fixed block rate.
//
// The containment hierarchy is DeviceManager > Context > Chain > Node >
// Port > Buffer. A Chain is an independent DAG of Nodes; compiling it
// assigns every node a position in a topological order and binds the
// sample Buffers its ports read and write, reusing a node's own input
// buffer as its output buffer wherever in-place processing is legal.
//
// Concrete audio backends, vector-arithmetic kernels, leaf node
// implementations and any patching surface are external collaborators,
// consumed only through the Backend and NodeImpl interfaces.
package dsp
