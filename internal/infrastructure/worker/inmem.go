package worker

import (
	"context"
	"time"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

// InMemWorker drives refreshes without claiming semantics. It discovers
// queued jobs through an optional ListQueuedIDs on the repo, which only the
// in-memory fakes provide.
type InMemWorker struct {
	Refreshes application.RefreshJobRepo
	Prices    application.PriceRepo
	Provider  application.PriceProvider
	PollEvery time.Duration
}

type queuedLister interface{ ListQueuedIDs() []string }

func queuedIDs(repo application.RefreshJobRepo) []string {
	if l, ok := repo.(queuedLister); ok {
		return l.ListQueuedIDs()
	}
	return nil
}

func (w *InMemWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ids := queuedIDs(w.Refreshes)
			for _, id := range ids {
				w.processJob(ctx, id)
			}
		}
	}
}

func (w *InMemWorker) processJob(ctx context.Context, id string) {
	job, err := w.Refreshes.GetByID(ctx, id)
	if err != nil {
		return
	}

	_ = w.Refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusProcessing, nil)

	prices, err := w.Provider.FetchPrices(ctx, []string{job.Address})
	if err != nil {
		msg := err.Error()
		_ = w.Refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		return
	}

	info := prices[job.Address]
	_ = w.Prices.Upsert(ctx, domain.TokenPrice{
		Address:   job.Address,
		Price:     info.Price,
		Liquidity: info.Liquidity,
		UpdatedAt: time.Now().UTC(),
	})
	_ = w.Refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusDone, nil)
}
