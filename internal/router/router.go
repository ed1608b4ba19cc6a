package router

import (
	"net/http"

	"github.com/evyataryagoni/publicip-mcp/internal/logger"
	"github.com/evyataryagoni/publicip-mcp/internal/metrics"
	custommiddleware "github.com/evyataryagoni/publicip-mcp/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates the operator endpoint: health check and Prometheus metrics
// The tool itself is served over stdio, never over HTTP.
func SetupRouter(m *metrics.Metrics, log *logger.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(custommiddleware.HTTPLogging(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.HTTPMetrics(m))

	r.Get("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.HandlerFor(m.Gatherer(), promhttp.HandlerOpts{}))

	return r
}

// healthCheckHandler returns 200 OK while the process is running
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
