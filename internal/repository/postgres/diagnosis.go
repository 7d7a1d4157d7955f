package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

type diagnosisRepository struct {
	db *DB
}

func NewDiagnosisRepository(db *DB) repository.DiagnosisRepository {
	return &diagnosisRepository{db: db}
}

func (r *diagnosisRepository) FindOrCreate(ctx context.Context, name string) (*model.Diagnosis, error) {
	query := `
		INSERT INTO diagnosis (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	var diagnosis model.Diagnosis
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &diagnosis, query, name); err != nil {
		return nil, fmt.Errorf("failed to find or create diagnosis: %w", err)
	}
	return &diagnosis, nil
}

// ListByPatient returns the distinct diagnoses from the patient's visits.
func (r *diagnosisRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Diagnosis, error) {
	query := `
		SELECT DISTINCT d.id, d.name
		FROM diagnosis d
		JOIN visits v ON v.diagnosis_id = d.id
		WHERE v.patient_id = $1
		ORDER BY d.id
	`
	diagnoses := []*model.Diagnosis{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &diagnoses, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient diagnoses: %w", err)
	}
	return diagnoses, nil
}
