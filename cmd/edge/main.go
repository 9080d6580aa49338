package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agriguard/internal/config"
	"agriguard/internal/edge"
	"agriguard/internal/gateway"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Model)
	handler := edge.NewHandler(cfg.Gateway.APIKey, gw)

	server := &http.Server{
		Addr:              cfg.EdgeAddr(),
		Handler:           edge.Router(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("edge function listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("edge server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("edge server shutdown failed: %v", err)
	}
}
