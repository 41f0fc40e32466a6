// Copyright 2025 KASPER
// SPDX-License-Identifier: BUSL-1.1

package engine

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"kasper/engine/providers/base"
	"kasper/engine/providers/biometrics"
	"kasper/engine/providers/content"
	"kasper/engine/providers/cosmic"
	"kasper/engine/providers/journal"
	"kasper/engine/providers/numerology"
	"kasper/engine/shared/logger"
)

// Run is the service entry point: it loads config from the environment,
// wires the orchestrator with the standard provider set, and serves the
// insight API until interrupted.
//
// Environment variables (beyond LoadConfigFromEnv):
//
//	PORT - HTTP server port (default: 8090)
//	KASPER_CONFIG_FILE - optional YAML config overlay
//	KASPER_JWT_SECRET - enables bearer auth when set
//	MONGO_URL - enables the journal provider
//	CONTENT_API_URL / REDIS_URL - enable the MegaCorpus content provider
func Run() {
	log := logger.New("kasper-engine")

	cfg := LoadConfigFromEnv()
	if path := os.Getenv("KASPER_CONFIG_FILE"); path != "" {
		loaded, err := LoadConfigFile(path, cfg)
		if err != nil {
			log.WarnWithError("", "config file ignored", err, map[string]interface{}{"path": path})
		} else {
			cfg = loaded
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := NewOrchestrator(cfg, log)
	if err := orch.Configure(ctx, buildProviders(ctx, log)); err != nil {
		log.Error("", "orchestrator not ready at startup", map[string]interface{}{"error": err.Error()})
		// Keep serving: /health reports not_ready and providers may
		// come up behind us.
	}

	orch.Registry().StartPeriodicAvailabilityCheck(ctx, 30*time.Second)

	r := mux.NewRouter()
	NewAPIHandler(orch).RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	handler := AuthMiddleware([]byte(os.Getenv("KASPER_JWT_SECRET")))(c.Handler(r))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8090"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("", "insight engine listening", map[string]interface{}{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("", "server failed", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	log.Info("", "insight engine stopped", nil)
}

// buildProviders assembles the standard provider set. The bundled table
// providers always register; the journal and content providers register
// only when their backing stores are configured.
func buildProviders(ctx context.Context, log *logger.Logger) []base.Provider {
	providers := []base.Provider{
		numerology.New(),
		cosmic.New(),
		biometrics.New(),
	}

	if mongoURL := os.Getenv("MONGO_URL"); mongoURL != "" {
		jp, err := journal.New(ctx, journal.Config{URI: mongoURL})
		if err != nil {
			log.WarnWithError("", "journal provider disabled", err, nil)
		} else {
			providers = append(providers, jp)
		}
	}

	if apiURL := os.Getenv("CONTENT_API_URL"); apiURL != "" {
		cp, err := content.New(content.Config{
			APIURL:   apiURL,
			RedisURL: os.Getenv("REDIS_URL"),
		})
		if err != nil {
			log.WarnWithError("", "content provider disabled", err, nil)
		} else {
			providers = append(providers, cp)
		}
	}

	return providers
}
