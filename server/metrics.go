// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("mrio.server")

// policyInvalid labels requests whose policy did not parse; raw input never becomes a label.
const policyInvalid = "invalid"

var (
	decomposeTotal   metric.Int64Counter
	decomposeLatency metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments on first use, after telemetry.Init
// has had a chance to install the meter provider.
func initMetrics() error {
	metricsOnce.Do(func() {
		decomposeTotal, metricsErr = meter.Int64Counter(
			"mrio_decompose_requests",
			metric.WithDescription("Decompose requests by policy and outcome"),
		)
		if metricsErr != nil {
			return
		}
		decomposeLatency, metricsErr = meter.Float64Histogram(
			"mrio_decompose_duration_seconds",
			metric.WithDescription("Decompose handler latency"),
			metric.WithUnit("s"),
		)
	})

	return metricsErr
}

func recordDecompose(ctx context.Context, policy, outcome string, d time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("policy", policy),
		attribute.String("outcome", outcome),
	)
	decomposeTotal.Add(ctx, 1, attrs)
	decomposeLatency.Record(ctx, d.Seconds(), attrs)
}
