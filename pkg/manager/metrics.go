// Copyright 2023 Hedgehog
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manager

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricNamespace = "catalystwan"
	MetricSubsystem = "session"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	autoreg := promauto.With(reg)

	return &metrics{
		requests: autoreg.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "requests_total",
			Help:      "Number of Manager API requests by method and response status",
		}, []string{"method", "status"}),
		duration: autoreg.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Manager API request duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		logins: autoreg.NewCounter(prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "logins_total",
			Help:      "Number of Manager logins including re-logins of the expired sessions",
		}),
	}
}

func (m *metrics) observe(method, status string, start time.Time) {
	m.requests.WithLabelValues(method, status).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
