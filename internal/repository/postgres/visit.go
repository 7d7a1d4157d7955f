package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

const visitColumns = `
	v.id, v.date_created, v.date_to_visit, v.status, v.doctor_id,
	v.patient_id, v.diagnosis_id,
	d.id AS "diagnosis.id",
	d.name AS "diagnosis.name"`

type visitRepository struct {
	db *DB
}

func NewVisitRepository(db *DB) repository.VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *model.Visit) error {
	query := `
		INSERT INTO visits (date_to_visit, status, diagnosis_id, patient_id, doctor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, date_created
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		visit.DateToVisit,
		visit.Status,
		visit.DiagnosisID,
		visit.PatientID,
		visit.DoctorID,
	).Scan(&visit.ID, &visit.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id int64) (*model.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits v
		JOIN diagnosis d ON d.id = v.diagnosis_id
		WHERE v.id = $1
	`
	var visit model.Visit
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &visit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error) {
	return r.list(ctx, "v.patient_id", patientID)
}

func (r *visitRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Visit, error) {
	return r.list(ctx, "v.doctor_id", doctorID)
}

func (r *visitRepository) list(ctx context.Context, column string, id int64) ([]*model.Visit, error) {
	query := `
		SELECT ` + visitColumns + `
		FROM visits v
		JOIN diagnosis d ON d.id = v.diagnosis_id
		WHERE ` + column + ` = $1
		ORDER BY v.date_to_visit
	`
	visits := []*model.Visit{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &visits, query, id); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// DoctorVisitedPatient backs the "is this the doctor's patient" check.
func (r *visitRepository) DoctorVisitedPatient(ctx context.Context, doctorID, patientID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM visits WHERE doctor_id = $1 AND patient_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &exists, query, doctorID, patientID); err != nil {
		return false, fmt.Errorf("failed to check doctor visits: %w", err)
	}
	return exists, nil
}

func (r *visitRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *visitRepository) DeleteByPatient(ctx context.Context, patientID int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM visits WHERE patient_id = $1`, patientID)
	if err != nil {
		return fmt.Errorf("failed to delete patient visits: %w", err)
	}
	return nil
}
