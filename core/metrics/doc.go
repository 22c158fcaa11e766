// Package metrics exposes Prometheus instruments for synchronization runs.
package metrics
