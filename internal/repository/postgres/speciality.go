package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

type specialityRepository struct {
	db *DB
}

func NewSpecialityRepository(db *DB) repository.SpecialityRepository {
	return &specialityRepository{db: db}
}

// FindOrCreate resolves a speciality by its natural key. The upsert makes
// the lookup atomic under concurrent registrations.
func (r *specialityRepository) FindOrCreate(ctx context.Context, name string) (*model.Speciality, error) {
	query := `
		INSERT INTO specialties (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	var speciality model.Speciality
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &speciality, query, name); err != nil {
		return nil, fmt.Errorf("failed to find or create speciality: %w", err)
	}
	return &speciality, nil
}

func (r *specialityRepository) List(ctx context.Context) ([]*model.Speciality, error) {
	specialties := []*model.Speciality{}
	query := `SELECT id, name FROM specialties ORDER BY name`
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &specialties, query); err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}
	return specialties, nil
}
