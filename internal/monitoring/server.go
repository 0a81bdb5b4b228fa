// internal/monitoring/server.go
package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oby500/bizinfo-automation-sub001/internal/utils"
)

// Server is the ops endpoint carrier: /metrics and /healthz only.
type Server struct {
	httpServer *http.Server
	logger     utils.Logger
}

// NewServer builds the ops server for the given metric set.
func NewServer(addr string, metrics *Metrics, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewComponentLogger("monitoring")
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background until Shutdown. The ops server is
// best-effort: a bind failure is logged, not fatal to the pipeline.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithField("error", err.Error()).Error("ops server stopped")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
