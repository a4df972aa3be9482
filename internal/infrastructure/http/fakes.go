package httpserver

import (
	"context"
	"fmt"
	"time"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/provider"
)

var _ application.PriceRepo = (*fakePriceRepo)(nil)
var _ application.RefreshJobRepo = (*fakeRefreshJobRepo)(nil)

type fakePriceRepo struct {
	store   map[string]domain.TokenPrice
	history []domain.TokenPriceHistory
}

func (f *fakePriceRepo) GetLast(_ context.Context, address string) (domain.TokenPrice, error) {
	p, ok := f.store[address]
	if !ok {
		return domain.TokenPrice{}, application.ErrNotFound
	}
	return p, nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p domain.TokenPrice) error {
	if f.store == nil {
		f.store = map[string]domain.TokenPrice{}
	}
	f.store[p.Address] = p
	return nil
}

func (f *fakePriceRepo) AppendHistory(_ context.Context, h domain.TokenPriceHistory) error {
	f.history = append(f.history, h)
	return nil
}

type fakeRefreshJobRepo struct {
	jobs map[string]domain.PriceRefresh
	seq  int
}

func (f *fakeRefreshJobRepo) CreateQueued(_ context.Context, address string, _ *string) (string, error) {
	if f.jobs == nil {
		f.jobs = map[string]domain.PriceRefresh{}
	}
	f.seq++
	id := fmt.Sprintf("refresh-%d", f.seq)
	f.jobs[id] = domain.PriceRefresh{
		ID:        id,
		Address:   address,
		Status:    domain.PriceRefreshStatusQueued,
		UpdatedAt: time.Now(),
	}
	return id, nil
}

func (f *fakeRefreshJobRepo) GetByID(_ context.Context, id string) (domain.PriceRefresh, error) {
	j, ok := f.jobs[id]
	if !ok {
		return domain.PriceRefresh{}, application.ErrNotFound
	}
	return j, nil
}

func (f *fakeRefreshJobRepo) UpdateStatus(_ context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	j, ok := f.jobs[id]
	if !ok {
		return application.ErrNotFound
	}
	j.Status = st
	j.Error = errMsg
	j.UpdatedAt = time.Now()
	f.jobs[id] = j
	return nil
}

func (f *fakeRefreshJobRepo) ClaimQueued(_ context.Context, limit int) ([]domain.QueuedRefresh, error) {
	var out []domain.QueuedRefresh
	for id, j := range f.jobs {
		if len(out) >= limit {
			break
		}
		if j.Status != domain.PriceRefreshStatusQueued {
			continue
		}
		j.Status = domain.PriceRefreshStatusProcessing
		f.jobs[id] = j
		out = append(out, domain.QueuedRefresh{ID: id, Address: j.Address})
	}
	return out, nil
}

func NewInMemoryService() (*application.TokenPricesService, *fakePriceRepo, *fakeRefreshJobRepo, *provider.Fake) {
	pr := &fakePriceRepo{store: map[string]domain.TokenPrice{}}
	rr := &fakeRefreshJobRepo{jobs: map[string]domain.PriceRefresh{}}
	fp := provider.NewFake(1.0)
	return application.NewTokenPricesService(pr, rr, fp, nil), pr, rr, fp
}
