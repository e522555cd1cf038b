package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the fallback machinery. Remote failures are non-fatal by
// design, so these are the main visibility into how often the mirror is
// actually carrying the load.
var (
	RemoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "povarchive_remote_failures_total",
		Help: "Document store operations that failed or timed out.",
	}, []string{"entity", "op"})

	FallbackReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "povarchive_fallback_reads_total",
		Help: "Reads served from the local mirror instead of the document store.",
	}, []string{"entity"})

	MigratedPOVs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "povarchive_migrated_povs_total",
		Help: "POVs moved into the hierarchy by the migration engine.",
	})
)
