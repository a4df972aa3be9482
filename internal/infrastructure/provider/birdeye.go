package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/httpx"
)

const (
	birdEyeMultiPricePath = "/defi/multi_price"
	birdEyeName           = "birdeye"
)

// BirdEye prices tokens through the multi_price endpoint: one GET carries the
// whole batch, authenticated with an API key and pinned to a chain via headers.
type BirdEye struct {
	BaseURL string
	APIKey  string
	Chain   string
	Client  *httpx.Client
}

var _ application.PriceProvider = (*BirdEye)(nil)

type birdEyeTokenData struct {
	Value     *decimal.Decimal `json:"value"`
	Liquidity *decimal.Decimal `json:"liquidity"`
}

type birdEyeMultiPriceResp struct {
	Data map[string]birdEyeTokenData `json:"data"`
}

func (p *BirdEye) client() *httpx.Client {
	if p.Client != nil {
		return p.Client
	}
	return &httpx.Client{}
}

func (p *BirdEye) headers() http.Header {
	h := make(http.Header)
	h.Set("accept", "application/json")
	chain := p.Chain
	if chain == "" {
		chain = "solana"
	}
	h.Set("x-chain", chain)
	h.Set("X-API-KEY", p.APIKey)
	return h
}

// newRequest builds a request for the given verb. Only GET and POST are
// recognized; anything else is a configuration error, not an upstream one.
func (p *BirdEye) newRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	switch method {
	case http.MethodGet, http.MethodPost:
	default:
		return nil, fmt.Errorf("birdeye: unrecognised method %q for query %s", method, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("birdeye: create request: %w", err)
	}
	req.Header = p.headers()
	return req, nil
}

func (p *BirdEye) multiPriceURL(addresses []string, includeDecimals bool) string {
	q := url.Values{}
	q.Set("include_liquidity", "true")
	if includeDecimals {
		q.Set("include_decimals", "true")
	}
	q.Set("list_address", strings.Join(addresses, ","))
	return strings.TrimRight(p.BaseURL, "/") + birdEyeMultiPricePath + "?" + q.Encode()
}

// FetchPrices resolves the whole batch in one upstream call. The result is
// total over the requested addresses: any address the upstream omitted or
// returned without both value and liquidity fails the call with the complete
// rejection list, even when other addresses priced fine.
func (p *BirdEye) FetchPrices(ctx context.Context, addresses []string) (map[string]domain.PriceInfo, error) {
	if err := validateAddresses(addresses); err != nil {
		return nil, err
	}

	req, err := p.newRequest(ctx, http.MethodGet, p.multiPriceURL(addresses, false))
	if err != nil {
		return nil, err
	}
	var body birdEyeMultiPriceResp
	if err := p.client().DoJSON(ctx, req, &body); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return nil, &domain.UpstreamStatusError{Provider: birdEyeName, StatusCode: se.StatusCode}
		}
		return nil, fmt.Errorf("birdeye: fetch prices: %w", err)
	}

	prices := make(map[string]domain.PriceInfo, len(addresses))
	var invalid []string
	for _, addr := range addresses {
		d, ok := body.Data[addr]
		if !ok || d.Value == nil || d.Liquidity == nil {
			invalid = append(invalid, addr)
			continue
		}
		prices[addr] = domain.PriceInfo{
			Price:     *d.Value,
			Liquidity: decimal.NullDecimal{Decimal: *d.Liquidity, Valid: true},
		}
	}
	if len(invalid) > 0 {
		return nil, &domain.InvalidTokensError{Addresses: invalid}
	}
	return prices, nil
}

// FetchTokenOverview fetches an overview for one token through the same
// endpoint restricted to a single address.
func (p *BirdEye) FetchTokenOverview(ctx context.Context, address string) (domain.TokenOverview, error) {
	if err := validateAddress(address); err != nil {
		return domain.TokenOverview{}, err
	}

	req, err := p.newRequest(ctx, http.MethodGet, p.multiPriceURL([]string{address}, true))
	if err != nil {
		return domain.TokenOverview{}, err
	}
	var body birdEyeMultiPriceResp
	if err := p.client().DoJSON(ctx, req, &body); err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			return domain.TokenOverview{}, &domain.InvalidTokensError{Addresses: []string{address}}
		}
		return domain.TokenOverview{}, fmt.Errorf("birdeye: fetch overview: %w", err)
	}

	d, ok := body.Data[address]
	if !ok || (d.Value == nil && d.Liquidity == nil) {
		return domain.TokenOverview{}, &domain.InvalidTokensError{Addresses: []string{address}}
	}
	if d.Liquidity == nil || d.Liquidity.IsZero() {
		return domain.TokenOverview{}, domain.ErrNoLiquidity
	}

	price := decimal.Zero
	if d.Value != nil {
		price = *d.Value
	}
	// multi_price does not carry symbol, decimals, last trade time or supply;
	// those fields stay at their zero values. Known upstream data gap.
	return domain.TokenOverview{
		Price:     price,
		Liquidity: *d.Liquidity,
	}, nil
}
