package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/whimsyboard/whimsy/frontend/internal/router"
	"github.com/whimsyboard/whimsy/frontend/internal/setup"
	"github.com/whimsyboard/whimsy/shared/config"
	"github.com/whimsyboard/whimsy/shared/logger"
)

const (
	defaultPort     = "8081"
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	var configFolder, webRoot string
	flag.StringVar(&configFolder, "config_folder", "frontend/config", "path to folder with configs")
	flag.StringVar(&webRoot, "web_root", "frontend", "folder holding templates/ and static/")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg, webRoot)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	server := configureServer(router.SetupRouter(deps))

	go func() {
		logger.Log.Info("starting frontend", "addr", server.Addr, "api_url", cfg.Public.ApiURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
	logger.Log.Info("frontend stopped")
}

func configureServer(handler http.Handler) *http.Server {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
}
