// Package store holds the current price per (instrument, vendor) pair in
// memory.
//
// Each accepted record is indexed three ways:
//   - by instrument, then vendor
//   - by vendor, then instrument
//   - by calendar date of its price timestamp (the eviction index)
//
// A record is in the date index iff it is current in both key indexes.
// Writes to the same pair are serialized by a striped lock; writes to different
// pairs run in parallel. Readers see a per-key snapshot.
package store
