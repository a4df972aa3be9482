package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/httpx"
)

const (
	dexScreenerTokensPath = "/latest/dex/tokens/"
	dexScreenerName       = "dexscreener"
)

// DexScreener prices tokens through the per-token pairs endpoint. There is no
// batch endpoint that returns pairs, so a multi-address fetch is one round
// trip per address, strictly sequential, with failures aggregated at the end.
type DexScreener struct {
	BaseURL string
	Client  *httpx.Client
}

var _ application.PriceProvider = (*DexScreener)(nil)

type dexToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type dexLiquidity struct {
	Usd decimal.Decimal `json:"usd"`
}

type dexPair struct {
	BaseToken         dexToken            `json:"baseToken"`
	QuoteToken        dexToken            `json:"quoteToken"`
	PriceUsd          string              `json:"priceUsd"`
	Liquidity         *dexLiquidity       `json:"liquidity"`
	Symbol            string              `json:"symbol"`
	Decimals          int                 `json:"decimals"`
	LastTradeUnixTime int64               `json:"lastTradeUnixTime"`
	Supply            decimal.NullDecimal `json:"supply"`
}

type dexTokenPairsResp struct {
	Pairs []dexPair `json:"pairs"`
}

func (p *DexScreener) client() *httpx.Client {
	if p.Client != nil {
		return p.Client
	}
	return &httpx.Client{}
}

func (p *DexScreener) fetchPairs(ctx context.Context, address string) ([]dexPair, error) {
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	rawURL := strings.TrimRight(p.BaseURL, "/") + dexScreenerTokensPath + address
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dexscreener: create request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	var body dexTokenPairsResp
	if err := p.client().DoJSON(ctx, req, &body); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return nil, &domain.UpstreamStatusError{Provider: dexScreenerName, StatusCode: se.StatusCode}
		}
		return nil, fmt.Errorf("dexscreener: fetch pairs for %s: %w", address, err)
	}
	return body.Pairs, nil
}

// FetchPrices resolves addresses one by one. Addresses with no pairs, or no
// pair quoted against wrapped SOL, are collected and fail the whole call once
// every address has been attempted.
func (p *DexScreener) FetchPrices(ctx context.Context, addresses []string) (map[string]domain.PriceInfo, error) {
	if err := validateAddresses(addresses); err != nil {
		return nil, err
	}

	prices := make(map[string]domain.PriceInfo, len(addresses))
	var invalid []string
	for _, addr := range addresses {
		pairs, err := p.fetchPairs(ctx, addr)
		if err != nil {
			return nil, err
		}
		pair, ok := largestNativeQuotedPair(pairs, addr)
		if !ok {
			invalid = append(invalid, addr)
			continue
		}
		var liq decimal.NullDecimal
		if pair.Liquidity != nil {
			liq = decimal.NullDecimal{Decimal: pair.Liquidity.Usd, Valid: true}
		}
		prices[addr] = domain.PriceInfo{
			Price:     parseDecimal(pair.PriceUsd),
			Liquidity: liq,
		}
	}
	if len(invalid) > 0 {
		return nil, &domain.InvalidTokensError{Addresses: invalid}
	}
	return prices, nil
}

// FetchTokenOverview fetches a full overview for one token. Unlike BirdEye,
// every overview field comes from the selected pair.
func (p *DexScreener) FetchTokenOverview(ctx context.Context, address string) (domain.TokenOverview, error) {
	pairs, err := p.fetchPairs(ctx, address)
	if err != nil {
		return domain.TokenOverview{}, err
	}
	pair, ok := largestNativeQuotedPair(pairs, address)
	if !ok {
		return domain.TokenOverview{}, domain.ErrTransactionNotFound
	}
	if pair.Liquidity == nil || pair.Liquidity.Usd.IsZero() {
		return domain.TokenOverview{}, domain.ErrNoLiquidity
	}
	return domain.TokenOverview{
		Price:             parseDecimal(pair.PriceUsd),
		Symbol:            pair.Symbol,
		Decimals:          pair.Decimals,
		LastTradeUnixTime: pair.LastTradeUnixTime,
		Liquidity:         pair.Liquidity.Usd,
		Supply:            pair.Supply.Decimal,
	}, nil
}

// parseDecimal parses an upstream decimal string, defaulting to zero when the
// field is absent or malformed.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
