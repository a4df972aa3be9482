package domain

import "github.com/shopspring/decimal"

// PriceInfo is the normalized per-token result of a price fetch.
// Liquidity is null when the upstream did not report it; that is distinct
// from a reported liquidity of zero.
type PriceInfo struct {
	Price     decimal.Decimal
	Liquidity decimal.NullDecimal
}
