package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenPrice is the latest persisted price for a token address.
type TokenPrice struct {
	Address   string
	Price     decimal.Decimal
	Liquidity decimal.NullDecimal
	UpdatedAt time.Time
}

// TokenPriceHistory is an append-only record of a single observed price.
type TokenPriceHistory struct {
	ID         int64
	Address    string
	Price      decimal.Decimal
	Liquidity  decimal.NullDecimal
	QuotedAt   time.Time
	Source     string
	RefreshID  *string
	InsertedAt time.Time
}
