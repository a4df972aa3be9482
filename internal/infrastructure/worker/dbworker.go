package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

var _ application.Worker = (*DbWorker)(nil)

type DbWorker struct {
	Jobs     application.RefreshJobRepo
	Prices   application.PriceRepo
	Provider application.PriceProvider

	PollEvery  time.Duration
	BatchLimit int
	Log        *zap.Logger
}

func (w *DbWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = 250 * time.Millisecond
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = 10
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("db_worker_started", zap.Duration("poll_every", w.PollEvery))
	for {
		select {
		case <-ctx.Done():
			log.Info("db_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *DbWorker) tick(ctx context.Context, log *zap.Logger) {
	jobs, err := w.Jobs.ClaimQueued(ctx, w.BatchLimit)
	if err != nil {
		log.Warn("claim_failed", zap.Error(err))
		return
	}
	for _, j := range jobs {
		w.processOne(ctx, log, j.ID, j.Address)
	}
}

func (w *DbWorker) processOne(ctx context.Context, log *zap.Logger, id, address string) {
	prices, err := w.Provider.FetchPrices(ctx, []string{address})
	if err != nil {
		msg := err.Error()
		_ = w.Jobs.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		log.Warn("refresh_failed", zap.String("id", id), zap.String("address", address), zap.Error(err))
		return
	}

	info := prices[address]
	now := time.Now().UTC()
	_ = w.Prices.AppendHistory(ctx, domain.TokenPriceHistory{
		Address:   address,
		Price:     info.Price,
		Liquidity: info.Liquidity,
		QuotedAt:  now,
		Source:    "provider",
		RefreshID: &id,
	})
	_ = w.Prices.Upsert(ctx, domain.TokenPrice{
		Address:   address,
		Price:     info.Price,
		Liquidity: info.Liquidity,
		UpdatedAt: now,
	})
	_ = w.Jobs.UpdateStatus(ctx, id, domain.PriceRefreshStatusDone, nil)

	log.Info("refresh_done", zap.String("id", id), zap.String("address", address))
}
