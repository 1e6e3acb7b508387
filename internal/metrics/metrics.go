// Package metrics exposes prometheus counters for the platform's few
// interesting events. The API process serves them on /metrics; the worker
// runs its own listener since it is a separate process.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatasetsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slm_datasets_uploaded_total",
		Help: "Number of dataset files accepted by the ingestion service.",
	})

	ExperimentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slm_experiments_created_total",
		Help: "Number of experiments created.",
	})

	ExperimentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slm_experiments_completed_total",
		Help: "Number of simulated training runs that completed successfully.",
	})

	ExperimentsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slm_experiments_failed_total",
		Help: "Number of simulated training runs that ended in failure.",
	})
)

// Handler returns the scrape endpoint for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
