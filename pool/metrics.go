// Copyright 2023 individual contributors. All rights reserved.
// Use of this source code is governed by a Zero-Clause BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

var workerGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "csp_pool_workers",
		Help: "number of running workers per pool",
	},
	[]string{"pool"},
)

var panicTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "csp_pool_task_panics_total",
		Help: "number of recovered task panics per pool",
	},
	[]string{"pool"},
)

func init() {
	prometheus.MustRegister(workerGauge, panicTotal)
}
