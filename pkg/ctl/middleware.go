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
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// routeOther labels requests that didn't match any API route (e.g. health checks or 404s)
const routeOther = "other"

// requestIDHeader returns the request id to the caller, it's the one from the request if provided
func requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			w.Header().Set(middleware.RequestIDHeader, rid)
		}

		next.ServeHTTP(w, r)
	})
}

// accessLog logs each conversion API request and counts it by the route pattern and status code. Client errors are
// logged at info level and server errors as warnings.
func (svc *service) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := routeOther
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		svc.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()

		level := slog.LevelDebug
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelWarn
		case status >= http.StatusBadRequest:
			level = slog.LevelInfo
		}

		slog.Log(r.Context(), level, "API request",
			"rid", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"query", r.URL.RawQuery,
			"contentType", r.Header.Get("Content-Type"),
			"from", r.RemoteAddr,
			"status", status,
			"size", ww.BytesWritten(),
			"took", time.Since(start),
		)
	})
}
