package provider

import (
	"github.com/shopspring/decimal"

	"tokenprices-service/internal/domain"
)

// largestNativeQuotedPair picks the single pair with the highest USD liquidity
// among pairs whose base token is the given address and whose quote token is
// wrapped SOL. Pairs quoted against anything else are excluded outright, not
// merely deprioritized; this keeps price discovery off stablecoin and
// third-asset pairs. The comparison is strict, so equal-liquidity ties keep
// the first pair in input order. Returns false when nothing matches.
func largestNativeQuotedPair(pairs []dexPair, address string) (dexPair, bool) {
	var best dexPair
	found := false
	maxLiq := decimal.NewFromInt(-1)
	for _, pr := range pairs {
		if pr.BaseToken.Address != address || pr.QuoteToken.Address != domain.WrappedSOLMint {
			continue
		}
		liq := decimal.Zero
		if pr.Liquidity != nil {
			liq = pr.Liquidity.Usd
		}
		if liq.GreaterThan(maxLiq) {
			maxLiq = liq
			best = pr
			found = true
		}
	}
	return best, found
}
