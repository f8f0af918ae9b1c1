// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Wazo Platform Contributors

package renewer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// renewals counts token renewal attempts. The result label is "success"
// or "failure".
var renewals = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authkit_token_renewals_total",
	Help: "Total number of service-token renewal attempts by result",
}, []string{"result"})
