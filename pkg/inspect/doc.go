// Package inspect exposes a runtime's counters over HTTP for development
// and operations: a JSON snapshot endpoint, a Prometheus scrape endpoint,
// and a WebSocket stream of periodic snapshots.
//
// The reactive graph itself is single-goroutine; inspect only ever calls
// Stats, which is the one safe cross-goroutine read, so the server can run
// beside the graph's owner without coordination.
package inspect
