package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/internal/config"
	"github.com/layer-3/walletauth/internal/logger"
	"github.com/layer-3/walletauth/service"
	transport "github.com/layer-3/walletauth/transport/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	// Credentials do not survive a restart: the signing key lives in memory only
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logger.Fatal("failed to generate signing key", "error", err)
	}

	backend := service.NewBackend(tokenizer.NewJWTTokenizer(signKey), logger, cfg.Server.SessionTTL)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           transport.SetupRouter(backend, cfg.Server.BasePath, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "address", srv.Addr, "base_path", cfg.Server.BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Addr)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}
