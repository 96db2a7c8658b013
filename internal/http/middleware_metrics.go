package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jetonapp/jeton/internal/metrics"
)

// Metrics emits a count and latency timing for every request. Status is
// tagged as the final response code, so gate redirects and auth rejections
// are visible without extra instrumentation.
func Metrics(sink metrics.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)

			tags := map[string]string{
				"method": r.Method,
				"status": strconv.Itoa(ww.status),
			}
			sink.Count("http.request", 1, tags)
			sink.Timing("http.request.duration", time.Since(start), tags)
		})
	}
}
