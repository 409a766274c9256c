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

package ctl

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ftapi "go.githedgehog.com/catalystwan/api/featuretemplate/v1"
	"go.githedgehog.com/catalystwan/pkg/convert"
	"go.githedgehog.com/catalystwan/pkg/util/logutil"
)

const (
	DefaultListen = "127.0.0.1:7080"

	MetricNamespace = "catalystwan"
	MetricSubsystem = "convert"

	maxTemplateSize = 4 << 20
)

type service struct {
	requests *prometheus.CounterVec
	results  *prometheus.CounterVec
	seconds  prometheus.Histogram
}

// NewHandler returns the conversion API handler with its metrics registered in reg
func NewHandler(reg *prometheus.Registry) http.Handler {
	autoreg := promauto.With(reg)

	svc := &service{
		requests: autoreg.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Number of conversion API requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		results: autoreg.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "results_total",
			Help:      "Number of template conversions by template type and status",
		}, []string{"template_type", "status"}),
		seconds: autoreg.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricNamespace,
			Subsystem: MetricSubsystem,
			Name:      "duration_seconds",
			Help:      "Template conversion duration",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(svc.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(requestIDHeader)
	r.Use(middleware.Heartbeat("/healthz"))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/template-types", svc.handleTemplateTypes)
	r.With(middleware.AllowContentType("application/json", "application/yaml")).Post("/convert", svc.handleConvert)

	return r
}

// Serve runs the conversion API until ctx is done
func Serve(ctx context.Context, listen string, reg *prometheus.Registry) error {
	if listen == "" {
		listen = DefaultListen
	}

	srv := &http.Server{
		Addr:              listen,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       90 * time.Second,
		Handler:           NewHandler(reg),
		ErrorLog:          logutil.NewStdLogger(ctx, slog.LevelWarn, "HTTP server: "),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil { //nolint:contextcheck
			slog.Warn("Failed to shutdown server", "err", err)
		}
	}()

	slog.Info("Serving conversion API", "listen", listen)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "error running server")
	}

	return nil
}

func (svc *service) handleTemplateTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, convert.SupportedTemplateTypes())
}

// handleConvert converts templates from the request body, ?vpn= sets the parent VPN id
func (svc *service) handleConvert(w http.ResponseWriter, r *http.Request) {
	l := slog.With("rid", middleware.GetReqID(r.Context()))

	cctx := &convert.Context{}
	if raw := r.URL.Query().Get("vpn"); raw != "" {
		vpn, err := strconv.Atoi(raw)
		if err != nil || vpn < 0 {
			writeError(w, http.StatusBadRequest, "invalid vpn "+raw)

			return
		}
		cctx.ParentVPN = &vpn
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxTemplateSize))
	if err != nil {
		l.Warn("Failed to read request", "err", err)
		writeError(w, http.StatusBadRequest, "failed to read request")

		return
	}

	tmpls, err := ParseFeatureTemplates(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	out := &ConvertOut{}
	for _, tmpl := range tmpls {
		out.Results = append(out.Results, svc.convert(cctx, tmpl))
	}

	writeJSON(w, http.StatusOK, out)
}

func (svc *service) convert(cctx *convert.Context, tmpl *ftapi.FeatureTemplate) *convert.Result {
	start := time.Now()
	res := convert.ParcelFromTemplate(cctx, tmpl)
	svc.seconds.Observe(time.Since(start).Seconds())
	svc.results.WithLabelValues(string(tmpl.TemplateType), string(res.Status)).Inc()

	return res
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
