package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// instrument counts and logs every request by route template. Client
// errors log at warn, server errors at error.
func (o *ObservabilityServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		o.metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(wrapper.statusCode)).Inc()

		event := o.log.Debug("HTTP request")
		switch {
		case wrapper.statusCode >= http.StatusInternalServerError:
			event = o.log.Error("HTTP request failed")
		case wrapper.statusCode >= http.StatusBadRequest:
			event = o.log.Warn("HTTP request rejected")
		}
		event.
			Str("method", r.Method).
			Str("route", route).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Send()
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
