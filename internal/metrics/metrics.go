package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultNamespace = "pipelang"

// Collector keeps the counters of a single interpreter.
//
// Each Collector registers its counters on its own registry
// so independent interpreters never mix their numbers.
type Collector struct {
	registry *prometheus.Registry

	// DatumsPushed counts the datums appended to each source.
	DatumsPushed *prometheus.CounterVec
	// DatumsProcessed counts the datums drained from each source.
	DatumsProcessed *prometheus.CounterVec
	// DatumsEmitted counts the datums that made it through the whole pipeline.
	DatumsEmitted *prometheus.CounterVec
	// DatumsSuppressed counts the datums dropped by some filter.
	DatumsSuppressed *prometheus.CounterVec
	// FilterFailures counts the runs aborted by a filter.
	FilterFailures *prometheus.CounterVec
	// QueriesCompiled counts successfully registered queries.
	QueriesCompiled prometheus.Counter
	// QueriesRejected counts queries that failed to compile, by error code.
	QueriesRejected *prometheus.CounterVec
}

func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		DatumsPushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datums_pushed_total",
				Help:      "Total number of datums pushed to a source",
			},
			[]string{"source"},
		),
		DatumsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datums_processed_total",
				Help:      "Total number of datums drained from a source",
			},
			[]string{"source"},
		),
		DatumsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datums_emitted_total",
				Help:      "Total number of datums emitted by a pipeline",
			},
			[]string{"source"},
		),
		DatumsSuppressed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datums_suppressed_total",
				Help:      "Total number of datums dropped by a filter",
			},
			[]string{"source"},
		),
		FilterFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "filter_failures_total",
				Help:      "Total number of processing calls aborted by a filter",
			},
			[]string{"source", "filter"},
		),
		QueriesCompiled: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_compiled_total",
				Help:      "Total number of queries compiled and registered",
			},
		),
		QueriesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_rejected_total",
				Help:      "Total number of queries that failed to compile",
			},
			[]string{"code"},
		),
	}
}

// Gatherer exposes the counters, e.g. to a promhttp handler
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteText writes every gathered sample as a `name{labels} value` line
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("error gathering metrics: %w", err)
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := []string{}
			for _, pair := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", pair.GetName(), pair.GetValue()))
			}

			name := family.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}

			_, err := fmt.Fprintf(w, "%s %v\n", name, m.GetCounter().GetValue())
			if err != nil {
				return err
			}
		}
	}

	return nil
}
