package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/config"
	"tokenprices-service/internal/infrastructure/httpx"
	"tokenprices-service/internal/infrastructure/logx"
	"tokenprices-service/internal/infrastructure/pg"
	"tokenprices-service/internal/infrastructure/provider"
	redisstore "tokenprices-service/internal/infrastructure/redis"
	"tokenprices-service/internal/infrastructure/worker"
)

type Repos struct {
	PriceRepo application.PriceRepo
	JobRepo   application.RefreshJobRepo
}

type Services struct {
	Idem application.IdempotencyStore
}

// BuildRepos builds repositories based on cfg.Storage ("pg" expected). The
// returned *pg.DB backs the readiness probe.
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, *pg.DB, func(), error) {
	log := logx.L()

	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return Repos{}, nil, func() {}, fmt.Errorf("DATABASE_URL is required for STORAGE=pg")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Repos{}, nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Repos{}, nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Repos{
			PriceRepo: pg.NewPriceRepo(db),
			JobRepo:   pg.NewRefreshJobRepo(db),
		}, db, cleanup, nil
	default:
		return Repos{}, nil, func() {}, fmt.Errorf("unsupported STORAGE=%q; set STORAGE=pg", cfg.Storage)
	}
}

// BuildRedis builds the idempotency store; REDIS_ADDR="" falls back to Noop.
func BuildRedis(cfg config.Config) (Services, func(), error) {
	if cfg.RedisAddr == "" {
		return Services{Idem: application.NoopIdempotency{}}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.New(rdb, cfg.RedisTTL)
	cleanup := func() { _ = rdb.Close() }
	return Services{Idem: store}, cleanup, nil
}

// BuildProvider selects the upstream client from cfg.Provider.
func BuildProvider(cfg config.Config) (application.PriceProvider, error) {
	client := &httpx.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}}
	switch cfg.Provider {
	case "birdeye":
		if cfg.BirdEyeAPIKey == "" {
			return nil, fmt.Errorf("BIRDEYE_API_KEY is required for PROVIDER=birdeye")
		}
		return &provider.BirdEye{
			BaseURL: cfg.BirdEyeAPIBase,
			APIKey:  cfg.BirdEyeAPIKey,
			Chain:   cfg.BirdEyeChain,
			Client:  client,
		}, nil
	case "dexscreener":
		return &provider.DexScreener{
			BaseURL: cfg.DexScreenerAPIBase,
			Client:  client,
		}, nil
	default:
		return provider.NewFake(1.2345), nil
	}
}

// BuildWorker constructs an application.Worker from cfg.WorkerType.
func BuildWorker(repos Repos, p application.PriceProvider, cfg config.Config) application.Worker {
	log := logx.L()
	switch cfg.WorkerType {
	case "", "db":
		return &worker.DbWorker{
			Jobs:       repos.JobRepo,
			Prices:     repos.PriceRepo,
			Provider:   p,
			PollEvery:  cfg.WorkerPoll,
			BatchLimit: cfg.WorkerBatchSize,
			Log:        log,
		}
	default:
		log.Error("unknown WORKER_TYPE; no worker launched")
		return nil
	}
}
