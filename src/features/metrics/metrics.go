package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process counters exposed on the metrics listener.
type Metrics struct {
	registry *prometheus.Registry

	SongsCreated   prometheus.Counter
	SongsDeleted   prometheus.Counter
	Reorders       prometheus.Counter
	ReorderReverts prometheus.Counter
	PositionWrites prometheus.Counter
	Enrichments    *prometheus.CounterVec
}

// New creates a Metrics with its own registry plus the standard Go and
// process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		SongsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "setlist_songs_created_total",
			Help: "Number of songs created.",
		}),
		SongsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "setlist_songs_deleted_total",
			Help: "Number of songs deleted.",
		}),
		Reorders: factory.NewCounter(prometheus.CounterOpts{
			Name: "setlist_reorders_total",
			Help: "Number of reorder operations attempted.",
		}),
		ReorderReverts: factory.NewCounter(prometheus.CounterOpts{
			Name: "setlist_reorder_reverts_total",
			Help: "Number of reorders that failed and were reverted from the store.",
		}),
		PositionWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "setlist_position_writes_total",
			Help: "Number of single-song position updates written to the store.",
		}),
		Enrichments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "setlist_enrichments_total",
			Help: "Enrichment lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
	}
}

// Serve exposes the registry on its own listener. It blocks, so callers
// run it in a goroutine.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("Metrics listener starting", "addr", addr)
	return server.ListenAndServe()
}
