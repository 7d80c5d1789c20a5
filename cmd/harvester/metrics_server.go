package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samvad-hq/quake-harvester/internal/logger"
)

type healthResponse struct {
	Status string `json:"status"`
}

// startMetricsServer serves /metrics and /health on addr until ctx is cancelled.
func startMetricsServer(ctx context.Context, addr string, gatherer prometheus.Gatherer, log logger.Logger) *http.Server {
	server := &http.Server{
		Addr:         addr,
		Handler:      newMetricsMux(gatherer),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.InfoObj("metrics server starting", "metrics_addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorObj("metrics server error", "error", err.Error())
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.ErrorObj("metrics server shutdown error", "error", err.Error())
			return
		}
		log.InfoObj("metrics server stopped", "metrics_addr", addr)
	}()

	return server
}

func newMetricsMux(gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", healthHandler)
	return mux
}

// healthHandler is the liveness probe.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "healthy"})
}
