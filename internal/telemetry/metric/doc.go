// Package metric provides Prometheus metrics for securetoken.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: metric set and HTTP handler
//
// Metrics include:
//
//   - Token generation counters and retry totals
//   - Regeneration success/failure counters
//   - Record operation counters
//
// Metrics are exposed at /metrics in Prometheus format.
//
// @req RQ-0403
// @design DS-0402
package metric
