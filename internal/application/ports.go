package application

import (
	"context"

	"tokenprices-service/internal/domain"
)

type PriceRepo interface {
	GetLast(ctx context.Context, address string) (domain.TokenPrice, error)
	Upsert(ctx context.Context, p domain.TokenPrice) error
	AppendHistory(ctx context.Context, h domain.TokenPriceHistory) error
}

type RefreshJobRepo interface {
	CreateQueued(ctx context.Context, address string, idem *string) (string, error)
	GetByID(ctx context.Context, id string) (domain.PriceRefresh, error)
	UpdateStatus(ctx context.Context, id string, status domain.PriceRefreshStatus, errMsg *string) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.QueuedRefresh, error)
}

// PriceProvider is the normalized contract both upstream clients satisfy.
// FetchPrices is total: on success the returned map holds an entry for every
// requested address; any address without usable data fails the whole call.
type PriceProvider interface {
	FetchPrices(ctx context.Context, addresses []string) (map[string]domain.PriceInfo, error)
	FetchTokenOverview(ctx context.Context, address string) (domain.TokenOverview, error)
}
