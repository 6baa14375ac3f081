package inspect

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ripple-dev/ripple/pkg/ripple"
)

// Source is anything that can report runtime counters. *ripple.Runtime
// satisfies it.
type Source interface {
	Stats() ripple.Stats
}

// Collector adapts a Source to the Prometheus collector interface. All
// four counters are read in one Stats call per scrape.
type Collector struct {
	source Source

	flushes        *prometheus.Desc
	watcherRuns    *prometheus.Desc
	notifies       *prometheus.Desc
	circularAborts *prometheus.Desc
}

// NewCollector creates a Collector for source under the given namespace.
// An empty namespace defaults to "ripple".
func NewCollector(source Source, namespace string) *Collector {
	if namespace == "" {
		namespace = "ripple"
	}
	return &Collector{
		source: source,
		flushes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "flushes_total"),
			"Completed scheduler flushes.", nil, nil),
		watcherRuns: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "watcher_runs_total"),
			"Watcher executions performed by flushes.", nil, nil),
		notifies: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "notifies_total"),
			"Dependency notifications triggered by writes.", nil, nil),
		circularAborts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "circular_aborts_total"),
			"Flushes abandoned by the runaway update guard.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.flushes
	ch <- c.watcherRuns
	ch <- c.notifies
	ch <- c.circularAborts
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.flushes, prometheus.CounterValue, float64(s.Flushes))
	ch <- prometheus.MustNewConstMetric(c.watcherRuns, prometheus.CounterValue, float64(s.WatcherRuns))
	ch <- prometheus.MustNewConstMetric(c.notifies, prometheus.CounterValue, float64(s.Notifies))
	ch <- prometheus.MustNewConstMetric(c.circularAborts, prometheus.CounterValue, float64(s.CircularAborts))
}
