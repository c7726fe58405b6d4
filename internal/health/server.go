package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the relay's operational HTTP surface: a liveness probe at
// /health, the full report at /health/detailed, and Prometheus metrics
// at /metrics.
type Server struct {
	monitor *Monitor
	server  *http.Server
}

func NewServer(monitor *Monitor, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor: monitor,
		server:  &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start serves HTTP until the listener closes.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop shuts the server down, waiting for in-flight requests until ctx
// expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth answers load-balancer checks. The body carries only the
// aggregate status; anything short of critical is a 200.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	report := s.monitor.Check()

	code := http.StatusOK
	if report.SystemStatus == StatusCritical {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": string(report.SystemStatus)})
}

func (s *Server) handleDetailed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.monitor.Check())
}
