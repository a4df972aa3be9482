package pg

import (
	"context"
	"errors"

	"tokenprices-service/internal/application"
	"tokenprices-service/internal/domain"
	"tokenprices-service/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RefreshJobRepo struct{ db *DB }

func NewRefreshJobRepo(db *DB) *RefreshJobRepo { return &RefreshJobRepo{db: db} }

func (r *RefreshJobRepo) CreateQueued(ctx context.Context, address string, _ *string) (string, error) {
	id := uuid.NewString()
	const ins = `
        INSERT INTO price_refreshes(id, address, status)
        VALUES ($1, $2, 'queued')`
	log := logx.L().With(
		zap.String("repo", "refresh_job"),
		zap.String("operation", "CreateQueued"),
		zap.String("sql", ins),
		zap.String("id", id),
		zap.String("address", address),
	)
	log.Info("sql.exec_start")
	tag, err := r.db.Pool.Exec(ctx, ins, id, address)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return "", err
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", int64(tag.RowsAffected())))
	return id, nil
}

func (r *RefreshJobRepo) GetByID(ctx context.Context, id string) (domain.PriceRefresh, error) {
	const q = `
        SELECT id::text, address, status, error, COALESCE(completed_at, requested_at)
        FROM price_refreshes WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "refresh_job"),
		zap.String("operation", "GetByID"),
		zap.String("sql", q),
		zap.String("id", id),
	)
	log.Info("sql.query_start")
	var out domain.PriceRefresh
	var errMsg *string
	var status string
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&out.ID, &out.Address, &status, &errMsg, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Info("sql.query_no_rows")
		return domain.PriceRefresh{}, application.ErrNotFound
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.PriceRefresh{}, err
	}
	out.Error = errMsg
	switch status {
	case "queued":
		out.Status = domain.PriceRefreshStatusQueued
	case "processing":
		out.Status = domain.PriceRefreshStatusProcessing
	case "done":
		out.Status = domain.PriceRefreshStatusDone
	default:
		out.Status = domain.PriceRefreshStatusFailed
	}
	log.Info("sql.query_success",
		zap.String("address", out.Address),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

func (r *RefreshJobRepo) UpdateStatus(ctx context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	var s string
	switch st {
	case domain.PriceRefreshStatusQueued:
		s = "queued"
	case domain.PriceRefreshStatusProcessing:
		s = "processing"
	case domain.PriceRefreshStatusDone:
		s = "done"
	default:
		s = "failed"
	}
	const up = `
        UPDATE price_refreshes
        SET status=$2,
            error=$3,
            completed_at = CASE WHEN $2 IN ('done','failed') THEN NOW() ELSE completed_at END
        WHERE id=$1`
	log := logx.L().With(
		zap.String("repo", "refresh_job"),
		zap.String("operation", "UpdateStatus"),
		zap.String("sql", up),
		zap.String("id", id),
		zap.String("status", s),
	)
	if errMsg != nil {
		log = log.With(zap.String("error", *errMsg))
	}
	log.Info("sql.exec_start")
	tag, err := r.db.Pool.Exec(ctx, up, id, s, errMsg)
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Warn("sql.exec_no_rows")
		return application.ErrNotFound
	}
	log.Info("sql.exec_success", zap.Int64("rows_affected", int64(tag.RowsAffected())))
	return nil
}

func (r *RefreshJobRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.QueuedRefresh, error) {
	const q = `
      WITH cte AS (
        SELECT id
        FROM price_refreshes
        WHERE status = 'queued'
        ORDER BY requested_at
        LIMIT $1
        FOR UPDATE SKIP LOCKED
      )
      UPDATE price_refreshes p
      SET status = 'processing'
      FROM cte
      WHERE p.id = cte.id
      RETURNING p.id::text, p.address;
    `
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.QueuedRefresh
	for rows.Next() {
		var job domain.QueuedRefresh
		if err := rows.Scan(&job.ID, &job.Address); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
