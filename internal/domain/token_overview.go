package domain

import "github.com/shopspring/decimal"

// TokenOverview is a point-in-time snapshot of a single token beyond its bare
// price. It is only constructed when liquidity is known and non-zero.
type TokenOverview struct {
	Price             decimal.Decimal
	Symbol            string
	Decimals          int
	LastTradeUnixTime int64
	Liquidity         decimal.Decimal
	Supply            decimal.Decimal
}
