package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"webtask-bridge/internal/bootstrap"
	"webtask-bridge/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	w, err := bootstrap.InitWorker()
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := w.Start(ctx); err != nil {
		log.Error("worker exited", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("worker stopped")
}
