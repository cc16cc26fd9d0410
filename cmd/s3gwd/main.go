// s3gwd is the S3-compatible gateway daemon: it wires configuration,
// credentials, storage, the multipart-upload sweeper, and the SigV4
// dispatcher into an HTTP server, and serves Prometheus metrics on a
// second listener. Structurally this mirrors the teacher's
// cmd/synthetics/main.go: load config, build collaborators, start a
// background loop, serve HTTP, wait for a signal, shut down gracefully.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ethanadams/s3core/internal/auth"
	"github.com/ethanadams/s3core/internal/config"
	"github.com/ethanadams/s3core/internal/credstore"
	"github.com/ethanadams/s3core/internal/logging"
	"github.com/ethanadams/s3core/internal/metrics"
	"github.com/ethanadams/s3core/internal/s3api"
	"github.com/ethanadams/s3core/internal/store/memstore"
	"github.com/ethanadams/s3core/internal/sweeper"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logging.SetLevel(cfg.Logging.Level)
	log.Printf("Starting s3gwd: region=%s listen=%s credentials=%d",
		cfg.Server.Region, cfg.Server.ListenAddr, len(cfg.Credentials))

	keys := make(map[string]string, len(cfg.Credentials))
	for _, c := range cfg.Credentials {
		keys[c.AccessKeyID] = c.SecretKey
	}
	creds := credstore.NewStatic(keys)
	authPipeline := auth.New(creds)

	st := memstore.New()
	log.Printf("Initialized in-memory storage backend")

	collector := metrics.NewCollector()
	log.Printf("Initialized metrics collector")

	sw, err := sweeper.New(st, collector, cfg.Sweeper.Schedule, cfg.Sweeper.MaxAgeDuration(), parseJitter(cfg.Sweeper.JitterMax))
	if err != nil {
		log.Fatalf("Failed to build sweeper: %v", err)
	}
	sw.Start()
	defer sw.Stop()
	log.Printf("Started multipart-upload sweeper: schedule=%q maxAge=%s", cfg.Sweeper.Schedule, cfg.Sweeper.MaxAgeDuration())

	dispatcher := s3api.New(st, authPipeline, collector)

	server := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      dispatcher,
		ReadTimeout:  0, // streaming uploads/downloads set their own pace; spec.md §5 leaves timeouts to the deployer
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
	metricsMux.HandleFunc("/health", healthHandler)
	metricsServer := &http.Server{
		Addr:         cfg.Metrics.ListenAddr,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting S3 listener on %s", server.Addr)
		if err := runTLSOrPlain(server, cfg.Server.TLSCert, cfg.Server.TLSKey); err != nil && err != http.ErrServerClosed {
			log.Fatalf("S3 listener failed: %v", err)
		}
	}()

	go func() {
		log.Printf("Starting metrics listener on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics listener failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("S3 listener shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics listener shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

func runTLSOrPlain(server *http.Server, certFile, keyFile string) error {
	if certFile != "" && keyFile != "" {
		return server.ListenAndServeTLS(certFile, keyFile)
	}
	return server.ListenAndServe()
}

func parseJitter(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid sweeper jitter_max %q, disabling jitter: %v", raw, err)
		return 0
	}
	return d
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK\n")
}
