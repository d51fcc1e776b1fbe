package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/govdash/pkg/metrics"
	"github.com/okian/govdash/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Observe wraps next with a server span, request count and latency metrics,
// and the per-endpoint error counter. endpoint is the metric label, so it
// must be a fixed route name and never the raw request path.
func Observe(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.Tracer().Start(r.Context(), "http."+endpoint,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", endpoint),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r.WithContext(ctx))
		elapsedMs := float64(time.Since(start).Microseconds()) / 1000

		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, elapsedMs)
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))

		if rec.status < http.StatusBadRequest {
			return
		}
		kind := errorKind(rec.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, kind)
		}
	}
}

// errorKind buckets a failing status code into the error_type label.
func errorKind(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusConflict:
		return "superseded"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "client_error"
	}
	return "unknown"
}

// statusRecorder remembers the first status code written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
