// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package verify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for request verification.
var (
	// verificationDuration tracks the latency of Verify() calls.
	verificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "authkit_verification_duration_seconds",
		Help:    "Histogram of request verification latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// verificationResults counts verifications by result. The result label
	// is "authorized", a stable error id, or "internal-error".
	verificationResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authkit_verification_results_total",
		Help: "Total number of request verifications by result",
	}, []string{"result"})
)

// recordVerification records metrics for one completed verification.
func recordVerification(duration time.Duration, result string) {
	verificationDuration.Observe(duration.Seconds())
	verificationResults.WithLabelValues(result).Inc()
}
