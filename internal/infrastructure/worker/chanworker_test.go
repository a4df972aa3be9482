package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

func TestChanWorker_ProcessesMessage(t *testing.T) {
	j := &memJobs{jobs: map[string]domain.PriceRefresh{
		"refresh-1": {ID: "refresh-1", Address: domain.WrappedSOLMint, Status: domain.PriceRefreshStatusQueued},
	}}
	q := &memPrices{}
	p := &memProvider{price: decimal.RequireFromString("142.37")}
	svc := application.NewTokenPricesService(q, j, p, nil)

	jobs := make(chan RefreshMsg, 1)
	jobs <- RefreshMsg{ID: "refresh-1", Address: domain.WrappedSOLMint}
	close(jobs)

	w := NewChanWorker(svc, p, jobs)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Start(ctx)

	require.Equal(t, domain.PriceRefreshStatusDone, j.status("refresh-1"))
	require.True(t, q.has(domain.WrappedSOLMint))
	q.mu.RLock()
	defer q.mu.RUnlock()
	require.Len(t, q.history, 1)
	require.Equal(t, "chan", q.history[0].Source)
}
