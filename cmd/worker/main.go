package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tokenprices-service/internal/bootstrap"
	"tokenprices-service/internal/config"
	"tokenprices-service/internal/infrastructure/logx"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, _, cleanup, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		log.Fatal("bootstrap repos", zap.Error(err))
	}
	defer cleanup()

	priceProvider, err := bootstrap.BuildProvider(cfg)
	if err != nil {
		log.Fatal("bootstrap provider", zap.Error(err))
	}

	w := bootstrap.BuildWorker(repos, priceProvider, cfg)
	if w == nil {
		log.Fatal("no worker configured", zap.String("worker_type", cfg.WorkerType))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	w.Start(ctx)
}
