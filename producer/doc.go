// Package producer defines the composite (region, sector) key shared by
// every MRIO table axis, and Index, an ordered duplicate-free sequence of
// such keys with O(1) position lookup.
//
// Key equality is exact per component (no case folding, no trimming); the
// ingestion layer is responsible for normalizing labels before building keys.
// Index order is the order keys were supplied in, never map order, so every
// loop over an Index is deterministic.
package producer
