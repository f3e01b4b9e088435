// SPDX-License-Identifier: MIT

package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("mrio.dataset")

var (
	// loadTotal counts loads by origin (csv, store) and result (ok, error).
	loadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mrio_dataset_loads_total",
		Help: "Dataset loads by origin and result",
	}, []string{"origin", "result"})

	// loadDuration tracks load latency by origin.
	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mrio_dataset_load_duration_seconds",
		Help:    "Dataset load duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	}, []string{"origin"})

	invalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mrio_dataset_invalidations_total",
		Help: "Cache invalidations (explicit or file change)",
	})

	producersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mrio_dataset_producers",
		Help: "Producers in the current snapshot",
	})

	stressorsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mrio_dataset_stressors",
		Help: "Stressors in the current snapshot",
	})
)
