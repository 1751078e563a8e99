// Package observe provides observability primitives for connector
// operation execution.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers build an Observer once per process and
// hand its Instruments to the execution pipeline.
package observe
