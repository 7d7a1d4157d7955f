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

// patientColumns selects the patient row together with its owned
// sub-entities; aliases map onto the nested structs via sqlx.
const patientColumns = `
	p.id, p.first_name, p.last_name, p.surname, p.gender, p.address, p.email,
	p.date_of_birth, p.passport_id, p.insurance_policy_id, p.med_card_id,
	pp.id AS "passport.id",
	pp.series_number AS "passport.series_number",
	pp.issued_by AS "passport.issued_by",
	pp.issued_date AS "passport.issued_date",
	pp.department_code AS "passport.department_code",
	pp.first_name AS "passport.first_name",
	pp.last_name AS "passport.last_name",
	pp.surname AS "passport.surname",
	pp.gender AS "passport.gender",
	pp.date_of_birth AS "passport.date_of_birth",
	pp.birth_address AS "passport.birth_address",
	ip.id AS "insurance_policy.id",
	ip.number AS "insurance_policy.number",
	ip.date_created AS "insurance_policy.date_created",
	ip.date_expires AS "insurance_policy.date_expires",
	ip.company_id AS "insurance_policy.company_id",
	ic.id AS "insurance_policy.company.id",
	ic.name AS "insurance_policy.company.name",
	mc.id AS "med_card.id",
	mc.date_created AS "med_card.date_created",
	mc.date_expires AS "med_card.date_expires"`

const patientJoins = `
	FROM patients p
	JOIN passports pp ON pp.id = p.passport_id
	JOIN insurance_policies ip ON ip.id = p.insurance_policy_id
	JOIN insurance_companies ic ON ic.id = ip.company_id
	JOIN med_cards mc ON mc.id = p.med_card_id`

type patientRepository struct {
	db *DB
}

func NewPatientRepository(db *DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			first_name, last_name, surname, gender, address, email,
			date_of_birth, passport_id, insurance_policy_id, med_card_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Surname,
		patient.Gender,
		patient.Address,
		patient.Email,
		patient.DateOfBirth,
		patient.PassportID,
		patient.InsurancePolicyID,
		patient.MedCardID,
	).Scan(&patient.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + patientJoins + ` WHERE p.id = $1`
	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + patientJoins + ` WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		query += fmt.Sprintf(" AND %s ILIKE $%d", column, argCount)
		args = append(args, "%"+value+"%")
		argCount++
	}

	if filters != nil {
		addLike("p.first_name", filters.FirstName)
		addLike("p.last_name", filters.LastName)
		addLike("p.surname", filters.Surname)
		addLike("p.address", filters.Address)
		addLike("p.email", filters.Email)

		if filters.Gender != "" {
			query += fmt.Sprintf(" AND p.gender = $%d", argCount)
			args = append(args, filters.Gender)
			argCount++
		}
		if filters.MedCardID != nil {
			query += fmt.Sprintf(" AND p.med_card_id = $%d", argCount)
			args = append(args, *filters.MedCardID)
			argCount++
		}
	}

	query += " ORDER BY p.id"

	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// ListByDoctor returns the patients the doctor has visits with.
func (r *patientRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Patient, error) {
	query := `SELECT DISTINCT ` + patientColumns + patientJoins + `
		JOIN visits v ON v.patient_id = p.id
		WHERE v.doctor_id = $1
		ORDER BY p.id`
	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &patients, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, id int64, patch *model.PatientPatch) error {
	query := `UPDATE patients SET`
	args := []interface{}{}
	argCount := 1
	set := func(column string, value interface{}) {
		if argCount > 1 {
			query += ","
		}
		query += fmt.Sprintf(" %s = $%d", column, argCount)
		args = append(args, value)
		argCount++
	}

	if patch.FirstName != nil {
		set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		set("last_name", *patch.LastName)
	}
	if patch.Surname != nil {
		set("surname", *patch.Surname)
	}
	if patch.Gender != nil {
		set("gender", *patch.Gender)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.DateOfBirth != nil {
		set("date_of_birth", *patch.DateOfBirth)
	}
	if argCount == 1 {
		// Empty patch is a no-op.
		return nil
	}

	query += fmt.Sprintf(" WHERE id = $%d", argCount)
	args = append(args, id)

	result, err := r.db.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
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

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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
