package pg

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
)

type PriceRepo struct{ db *DB }

func NewPriceRepo(db *DB) *PriceRepo { return &PriceRepo{db: db} }

func (r *PriceRepo) GetLast(ctx context.Context, address string) (domain.TokenPrice, error) {
	const q = `
        SELECT address, price::text, liquidity::text, updated_at
        FROM token_prices WHERE address=$1`
	var out domain.TokenPrice
	var price string
	var liquidity *string
	if err := r.db.Pool.QueryRow(ctx, q, address).Scan(&out.Address, &price, &liquidity, &out.UpdatedAt); err != nil {
		return domain.TokenPrice{}, application.ErrNotFound
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return domain.TokenPrice{}, fmt.Errorf("parse price for %s: %w", address, err)
	}
	out.Price = p
	if liquidity != nil {
		l, err := decimal.NewFromString(*liquidity)
		if err != nil {
			return domain.TokenPrice{}, fmt.Errorf("parse liquidity for %s: %w", address, err)
		}
		out.Liquidity = decimal.NullDecimal{Decimal: l, Valid: true}
	}
	return out, nil
}

func (r *PriceRepo) Upsert(ctx context.Context, p domain.TokenPrice) error {
	const up = `
        INSERT INTO token_prices(address, price, liquidity, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (address) DO UPDATE
          SET price=EXCLUDED.price, liquidity=EXCLUDED.liquidity, updated_at=EXCLUDED.updated_at`
	_, err := r.db.Pool.Exec(ctx, up, p.Address, p.Price.String(), nullDecimalArg(p.Liquidity), p.UpdatedAt)
	return err
}

func (r *PriceRepo) AppendHistory(ctx context.Context, h domain.TokenPriceHistory) error {
	_, err := r.db.Pool.Exec(ctx, `
        INSERT INTO token_prices_history(address, price, liquidity, quoted_at, source, refresh_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (address, quoted_at, source) DO NOTHING
    `, h.Address, h.Price.String(), nullDecimalArg(h.Liquidity), h.QuotedAt, h.Source, h.RefreshID)
	return err
}

// nullDecimalArg maps an absent liquidity to SQL NULL instead of zero.
func nullDecimalArg(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
