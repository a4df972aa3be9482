package provider_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/httpx"
	"tokenprices-service/internal/infrastructure/provider"
)

func dexScreenerWith(tr http.RoundTripper) *provider.DexScreener {
	return &provider.DexScreener{
		BaseURL: "https://api.dexscreener.com",
		Client:  &httpx.Client{HTTP: &http.Client{Transport: tr, Timeout: 2 * time.Second}},
	}
}

func nativePairJSON(base, priceUsd, liquidityUsd string) string {
	return fmt.Sprintf(`{
		"baseToken": {"address": %q, "symbol": "BASE"},
		"quoteToken": {"address": %q, "symbol": "SOL"},
		"priceUsd": %q,
		"liquidity": {"usd": %s},
		"symbol": "BASE/SOL",
		"decimals": 6,
		"lastTradeUnixTime": 1700000000,
		"supply": "1000000"
	}`, base, domain.WrappedSOLMint, priceUsd, liquidityUsd)
}

// byAddress dispatches canned pair bodies on the trailing path segment.
func byAddress(bodies map[string]string) func(*http.Request) *http.Response {
	return func(r *http.Request) *http.Response {
		parts := strings.Split(r.URL.Path, "/")
		addr := parts[len(parts)-1]
		body, ok := bodies[addr]
		if !ok {
			body = `{"pairs": []}`
		}
		return jsonResponse(body, 200)(r)
	}
}

func TestDexScreener_FetchPrices_EmptyInput_NoCall(t *testing.T) {
	tr := &countingTransport{respond: jsonResponse(`{"pairs": []}`, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchPrices(context.Background(), []string{})
	require.ErrorIs(t, err, domain.ErrNoTokens)
	require.Zero(t, tr.calls)
}

func TestDexScreener_FetchPrices_InvalidAddress_NoCall(t *testing.T) {
	tr := &countingTransport{respond: jsonResponse(`{"pairs": []}`, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchPrices(context.Background(), []string{usdc, "not-base58-0OIl"})
	var bad *domain.InvalidAddressError
	require.ErrorAs(t, err, &bad)
	require.Equal(t, "not-base58-0OIl", bad.Address)
	require.Zero(t, tr.calls)
}

func TestDexScreener_FetchPrices_OK(t *testing.T) {
	tr := &countingTransport{respond: byAddress(map[string]string{
		usdc: `{"pairs": [` + nativePairJSON(usdc, "0.9997", "2000000") + `]}`,
		bonk: `{"pairs": [` + nativePairJSON(bonk, "0.000021", "98000") + `]}`,
	})}
	p := dexScreenerWith(tr)

	prices, err := p.FetchPrices(context.Background(), []string{usdc, bonk})
	require.NoError(t, err)
	require.Equal(t, 2, tr.calls)
	require.Len(t, prices, 2)
	require.True(t, prices[usdc].Price.Equal(decimal.RequireFromString("0.9997")))
	require.True(t, prices[usdc].Liquidity.Valid)
	require.True(t, prices[usdc].Liquidity.Decimal.Equal(decimal.RequireFromString("2000000")))
	require.True(t, prices[bonk].Price.Equal(decimal.RequireFromString("0.000021")))
}

func TestDexScreener_FetchPrices_PicksLargestNativePool(t *testing.T) {
	other := "So11111111111111111111111111111111111111111"
	foreign := fmt.Sprintf(`{
		"baseToken": {"address": %q},
		"quoteToken": {"address": %q},
		"priceUsd": "3.00",
		"liquidity": {"usd": 100}
	}`, usdc, other)
	body := `{"pairs": [` +
		nativePairJSON(usdc, "1.01", "5") + `,` +
		nativePairJSON(usdc, "0.99", "9") + `,` +
		foreign + `]}`
	tr := &countingTransport{respond: jsonResponse(body, 200)}
	p := dexScreenerWith(tr)

	prices, err := p.FetchPrices(context.Background(), []string{usdc})
	require.NoError(t, err)
	require.True(t, prices[usdc].Price.Equal(decimal.RequireFromString("0.99")))
	require.True(t, prices[usdc].Liquidity.Decimal.Equal(decimal.NewFromInt(9)))
}

func TestDexScreener_FetchPrices_NoPairs_AllAttempted(t *testing.T) {
	tr := &countingTransport{respond: byAddress(map[string]string{
		usdc: `{"pairs": [` + nativePairJSON(usdc, "0.9997", "2000000") + `]}`,
	})}
	p := dexScreenerWith(tr)

	_, err := p.FetchPrices(context.Background(), []string{usdc, bonk})
	var invalid *domain.InvalidTokensError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, []string{bonk}, invalid.Addresses)
	require.Equal(t, 2, tr.calls)
}

func TestDexScreener_FetchPrices_NoNativeQuote(t *testing.T) {
	body := fmt.Sprintf(`{"pairs": [{
		"baseToken": {"address": %q},
		"quoteToken": {"address": %q},
		"priceUsd": "1.00",
		"liquidity": {"usd": 500000}
	}]}`, usdc, bonk)
	tr := &countingTransport{respond: jsonResponse(body, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchPrices(context.Background(), []string{usdc})
	var invalid *domain.InvalidTokensError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, []string{usdc}, invalid.Addresses)
}

func TestDexScreener_FetchPrices_AbsentLiquidity(t *testing.T) {
	body := fmt.Sprintf(`{"pairs": [{
		"baseToken": {"address": %q},
		"quoteToken": {"address": %q},
		"priceUsd": "0.50"
	}]}`, usdc, domain.WrappedSOLMint)
	tr := &countingTransport{respond: jsonResponse(body, 200)}
	p := dexScreenerWith(tr)

	prices, err := p.FetchPrices(context.Background(), []string{usdc})
	require.NoError(t, err)
	require.True(t, prices[usdc].Price.Equal(decimal.RequireFromString("0.50")))
	require.False(t, prices[usdc].Liquidity.Valid)
}

func TestDexScreener_FetchPrices_Non200(t *testing.T) {
	tr := &countingTransport{respond: jsonResponse(`{"message":"rate limited"}`, 429)}
	p := dexScreenerWith(tr)

	_, err := p.FetchPrices(context.Background(), []string{usdc})
	var up *domain.UpstreamStatusError
	require.ErrorAs(t, err, &up)
	require.Equal(t, "dexscreener", up.Provider)
	require.Equal(t, 429, up.StatusCode)
	require.Equal(t, 1, tr.calls)
}

func TestDexScreener_FetchTokenOverview_OK(t *testing.T) {
	body := `{"pairs": [` + nativePairJSON(usdc, "0.9997", "2000000") + `]}`
	tr := &countingTransport{respond: jsonResponse(body, 200)}
	p := dexScreenerWith(tr)

	ov, err := p.FetchTokenOverview(context.Background(), usdc)
	require.NoError(t, err)
	require.True(t, ov.Price.Equal(decimal.RequireFromString("0.9997")))
	require.Equal(t, "BASE/SOL", ov.Symbol)
	require.Equal(t, 6, ov.Decimals)
	require.Equal(t, int64(1700000000), ov.LastTradeUnixTime)
	require.True(t, ov.Liquidity.Equal(decimal.RequireFromString("2000000")))
	require.True(t, ov.Supply.Equal(decimal.RequireFromString("1000000")))
}

func TestDexScreener_FetchTokenOverview_NoPairs(t *testing.T) {
	tr := &countingTransport{respond: jsonResponse(`{"pairs": []}`, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchTokenOverview(context.Background(), usdc)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDexScreener_FetchTokenOverview_ZeroLiquidity(t *testing.T) {
	body := `{"pairs": [` + nativePairJSON(usdc, "0.9997", "0") + `]}`
	tr := &countingTransport{respond: jsonResponse(body, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchTokenOverview(context.Background(), usdc)
	require.ErrorIs(t, err, domain.ErrNoLiquidity)
}

func TestDexScreener_FetchTokenOverview_EmptyAddress(t *testing.T) {
	tr := &countingTransport{respond: jsonResponse(`{"pairs": []}`, 200)}
	p := dexScreenerWith(tr)

	_, err := p.FetchTokenOverview(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrNoTokens)
	require.Zero(t, tr.calls)
}
