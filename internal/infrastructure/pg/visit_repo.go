package pg

import (
	"context"
	"errors"

	"webtask-bridge/internal/domain"
	"webtask-bridge/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// VisitRepo keeps visit counters in the visits table.
type VisitRepo struct{ db *DB }

func NewVisitRepo(db *DB) *VisitRepo { return &VisitRepo{db: db} }

func (r *VisitRepo) Incr(ctx context.Context, key string) (int64, error) {
	const up = `
        INSERT INTO visits(key, count) VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE
        SET count = visits.count + 1, updated_at = NOW()
        RETURNING count`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "visits"),
		zap.String("operation", "Incr"),
		zap.String("key", key),
	)
	var n int64
	if err := r.db.Pool.QueryRow(ctx, up, key).Scan(&n); err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return 0, err
	}
	log.Debug("sql.exec_success", zap.Int64("count", n))
	return n, nil
}

func (r *VisitRepo) Get(ctx context.Context, key string) (int64, error) {
	const q = `SELECT count FROM visits WHERE key=$1`
	var n int64
	err := r.db.Pool.QueryRow(ctx, q, key).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "visits"),
			zap.String("operation", "Get"),
			zap.Error(err),
		)
		return 0, err
	}
	return n, nil
}
