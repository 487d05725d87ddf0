// cmd/api/main.go
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

	"libraryloans/internal/config"
	"libraryloans/internal/gateway"
	"libraryloans/internal/logger"
	"libraryloans/internal/middleware"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	router, err := gateway.NewRouter(cfg.Services, log)
	if err != nil {
		log.Fatal("failed to build gateway", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Gateway.Port,
		Handler:           middleware.RequestLogger(log)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("API gateway listening", "port", cfg.Gateway.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("gateway stopped", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("gateway shutdown failed", "error", err)
	}
}
