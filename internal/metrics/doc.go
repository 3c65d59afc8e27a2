// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Pipeline message outcomes per vendor
//   - Cache size (instruments, vendors, records, date buckets)
//   - Eviction runs and evicted records
//   - Stream subscribers and dropped deliveries
//   - HTTP request counts and latencies
package metrics
