package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tokenprices-service/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

type fakePriceRepo struct {
	store   map[string]domain.TokenPrice
	history []domain.TokenPriceHistory
	err     error
}

func (f *fakePriceRepo) GetLast(_ context.Context, address string) (domain.TokenPrice, error) {
	if f.err != nil {
		return domain.TokenPrice{}, f.err
	}
	p, ok := f.store[address]
	if !ok {
		return domain.TokenPrice{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p domain.TokenPrice) error {
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string]domain.TokenPrice{}
	}
	f.store[p.Address] = p
	return nil
}

func (f *fakePriceRepo) AppendHistory(_ context.Context, h domain.TokenPriceHistory) error {
	if f.err != nil {
		return f.err
	}
	f.history = append(f.history, h)
	return nil
}

type fakeRefreshJobRepo struct {
	jobs map[string]domain.PriceRefresh
	err  error
}

func (f *fakeRefreshJobRepo) CreateQueued(_ context.Context, address string, idem *string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.jobs == nil {
		f.jobs = map[string]domain.PriceRefresh{}
	}
	id := "refresh-1"
	f.jobs[id] = domain.PriceRefresh{ID: id, Address: address, Status: domain.PriceRefreshStatusQueued}
	return id, nil
}

func (f *fakeRefreshJobRepo) GetByID(_ context.Context, id string) (domain.PriceRefresh, error) {
	if f.err != nil {
		return domain.PriceRefresh{}, f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return domain.PriceRefresh{}, ErrNotFound
	}
	return j, nil
}

func (f *fakeRefreshJobRepo) UpdateStatus(_ context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	if f.err != nil {
		return f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return ErrNotFound
	}
	j.Status, j.Error = st, errMsg
	f.jobs[id] = j
	return nil
}

func (f *fakeRefreshJobRepo) ClaimQueued(_ context.Context, limit int) ([]domain.QueuedRefresh, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.QueuedRefresh
	for id, j := range f.jobs {
		if j.Status != domain.PriceRefreshStatusQueued {
			continue
		}
		j.Status = domain.PriceRefreshStatusProcessing
		f.jobs[id] = j
		out = append(out, domain.QueuedRefresh{ID: id, Address: j.Address})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakePriceProvider struct {
	prices   map[string]domain.PriceInfo
	overview domain.TokenOverview
	err      error
}

func (f *fakePriceProvider) FetchPrices(_ context.Context, addresses []string) (map[string]domain.PriceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]domain.PriceInfo, len(addresses))
	for _, a := range addresses {
		if p, ok := f.prices[a]; ok {
			out[a] = p
		} else {
			out[a] = domain.PriceInfo{Price: decimal.NewFromInt(1)}
		}
	}
	return out, nil
}

func (f *fakePriceProvider) FetchTokenOverview(context.Context, string) (domain.TokenOverview, error) {
	if f.err != nil {
		return domain.TokenOverview{}, f.err
	}
	return f.overview, nil
}
