// Package npu implements the NPU-253 pattern coprocessor, a simulated
// memory-mapped hardware device serving query and domain-transformation
// operations over a fixed corpus of 253 design patterns.
//
// This package contains:
//   - Fixed-offset register file with 32/64-bit access
//   - Host-shared memory window for query and result transfer
//   - Command dispatch state machine
//   - Arena-backed pattern store with category and sequence tables
//   - Bounded LRU pattern cache
//   - Telemetry counters and self-test diagnostics
package npu
