package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/laberr/internal/metrics"
)

// Metrics records request count, latency and in-flight requests.
// Routes are labeled by chi pattern, not raw path.
func Metrics(c *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			c.InFlightGauge.Inc()
			defer c.InFlightGauge.Dec()

			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			c.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
			c.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
