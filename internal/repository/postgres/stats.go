package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

type statsRepository struct {
	db *DB
}

func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Counts(ctx context.Context) (*model.Statistics, error) {
	query := `
		SELECT
			(SELECT count(*) FROM meetings) AS meetings_count,
			(SELECT count(*) FROM patients) AS patients_count,
			(SELECT count(*) FROM users) AS doctors_count,
			(SELECT count(*) FROM visits) AS visits_count
	`
	var stats model.Statistics
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &stats, query); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}
	return &stats, nil
}
