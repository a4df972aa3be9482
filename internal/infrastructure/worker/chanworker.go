package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/logx"
)

type RefreshMsg struct {
	ID      string
	Address string
	TraceID string
}

type ChanWorker struct {
	svc      *application.TokenPricesService
	provider application.PriceProvider
	jobs     <-chan RefreshMsg
}

func NewChanWorker(svc *application.TokenPricesService, provider application.PriceProvider, jobs <-chan RefreshMsg) *ChanWorker {
	return &ChanWorker{svc: svc, provider: provider, jobs: jobs}
}

func (w *ChanWorker) Start(ctx context.Context) {
	log := logx.L().With(zap.String("worker", "chan"))
	for {
		select {
		case <-ctx.Done():
			log.Info("chan_worker.stop")
			return
		case m, ok := <-w.jobs:
			if !ok {
				log.Info("chan_worker.closed")
				return
			}
			w.processOne(ctx, m)
		}
	}
}

func (w *ChanWorker) processOne(ctx context.Context, m RefreshMsg) {
	defer func() {
		if r := recover(); r != nil {
			logx.L().Warn("chan_worker.panic", zap.Any("r", r))
			msg := fmt.Sprint(r)
			_ = w.svc.ProcessPriceRefresh(ctx, m.ID, func(context.Context) (domain.TokenPrice, error) {
				return domain.TokenPrice{}, fmt.Errorf("panic: %s", msg)
			}, "chan")
		}
	}()
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = w.svc.ProcessPriceRefresh(c, m.ID, func(cx context.Context) (domain.TokenPrice, error) {
		prices, err := w.provider.FetchPrices(cx, []string{m.Address})
		if err != nil {
			return domain.TokenPrice{}, err
		}
		info := prices[m.Address]
		return domain.TokenPrice{
			Address:   m.Address,
			Price:     info.Price,
			Liquidity: info.Liquidity,
			UpdatedAt: time.Now().UTC(),
		}, nil
	}, "chan")
}
