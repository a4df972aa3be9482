package provider

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

// Ensure Fake implements application.PriceProvider.
var _ application.PriceProvider = (*Fake)(nil)

type Fake struct {
	price decimal.Decimal
}

func NewFake(price float64) *Fake { return &Fake{price: decimal.NewFromFloat(price)} }

func (f *Fake) FetchPrices(_ context.Context, addresses []string) (map[string]domain.PriceInfo, error) {
	if err := validateAddresses(addresses); err != nil {
		return nil, err
	}
	out := make(map[string]domain.PriceInfo, len(addresses))
	for _, a := range addresses {
		out[a] = domain.PriceInfo{
			Price:     f.price,
			Liquidity: decimal.NullDecimal{Decimal: decimal.NewFromInt(1_000_000), Valid: true},
		}
	}
	return out, nil
}

func (f *Fake) FetchTokenOverview(_ context.Context, address string) (domain.TokenOverview, error) {
	if err := validateAddress(address); err != nil {
		return domain.TokenOverview{}, err
	}
	return domain.TokenOverview{
		Price:             f.price,
		Symbol:            "FAKE",
		Decimals:          9,
		LastTradeUnixTime: time.Now().Unix(),
		Liquidity:         decimal.NewFromInt(1_000_000),
		Supply:            decimal.NewFromInt(1_000_000_000),
	}, nil
}
