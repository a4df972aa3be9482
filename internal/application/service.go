package application

import (
	"context"

	"tokenprices-service/internal/domain"
)

type TokenPricesService struct {
	prices    PriceRepo
	refreshes RefreshJobRepo
	provider  PriceProvider
	idem      IdempotencyStore
}

func NewTokenPricesService(prices PriceRepo, refreshes RefreshJobRepo, provider PriceProvider, idem IdempotencyStore) *TokenPricesService {
	if idem == nil {
		idem = NoopIdempotency{}
	}
	return &TokenPricesService{
		prices:    prices,
		refreshes: refreshes,
		provider:  provider,
		idem:      idem,
	}
}

// RequestPriceRefresh enqueues a refresh job for one token address.
// The address is validated before anything is written or sent anywhere.
func (s *TokenPricesService) RequestPriceRefresh(ctx context.Context, address string, idem *string) (string, error) {
	if address == "" {
		return "", domain.ErrNoTokens
	}
	if !domain.ValidateAddress(address) {
		return "", &domain.InvalidAddressError{Address: address}
	}
	if idem != nil && *idem != "" {
		ok, err := s.idem.TryReserve(ctx, "refresh:"+*idem)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrConflict
		}
	}
	return s.refreshes.CreateQueued(ctx, address, idem)
}

func (s *TokenPricesService) GetPriceRefresh(ctx context.Context, id string) (domain.PriceRefresh, error) {
	return s.refreshes.GetByID(ctx, id)
}

func (s *TokenPricesService) GetLastPrice(ctx context.Context, address string) (domain.TokenPrice, error) {
	if address == "" {
		return domain.TokenPrice{}, domain.ErrNoTokens
	}
	if !domain.ValidateAddress(address) {
		return domain.TokenPrice{}, &domain.InvalidAddressError{Address: address}
	}
	return s.prices.GetLast(ctx, address)
}

// GetTokenOverview fetches a live overview from the configured provider.
// The provider performs its own validation gate.
func (s *TokenPricesService) GetTokenOverview(ctx context.Context, address string) (domain.TokenOverview, error) {
	return s.provider.FetchTokenOverview(ctx, address)
}

// ProcessPriceRefresh runs one claimed refresh to completion: the job moves to
// processing, fetch runs once, and the job ends done or failed. On success the
// observed price is appended to history and upserted as the latest.
func (s *TokenPricesService) ProcessPriceRefresh(ctx context.Context, id string, fetch func(context.Context) (domain.TokenPrice, error), source string) error {
	if err := s.refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusProcessing, nil); err != nil {
		return err
	}
	tp, err := fetch(ctx)
	if err != nil {
		msg := err.Error()
		_ = s.refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		return err
	}
	_ = s.prices.AppendHistory(ctx, domain.TokenPriceHistory{
		Address:   tp.Address,
		Price:     tp.Price,
		Liquidity: tp.Liquidity,
		QuotedAt:  tp.UpdatedAt,
		Source:    source,
		RefreshID: &id,
	})
	if err := s.prices.Upsert(ctx, tp); err != nil {
		msg := err.Error()
		_ = s.refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		return err
	}
	return s.refreshes.UpdateStatus(ctx, id, domain.PriceRefreshStatusDone, nil)
}
