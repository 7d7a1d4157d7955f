package postgres

import (
	"context"
	"fmt"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

type passportRepository struct {
	db *DB
}

func NewPassportRepository(db *DB) repository.PassportRepository {
	return &passportRepository{db: db}
}

func (r *passportRepository) Create(ctx context.Context, passport *model.Passport) error {
	query := `
		INSERT INTO passports (
			series_number, issued_by, issued_date, department_code,
			first_name, last_name, surname, gender, date_of_birth, birth_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		passport.SeriesNumber,
		passport.IssuedBy,
		passport.IssuedDate,
		passport.DepartmentCode,
		passport.FirstName,
		passport.LastName,
		passport.Surname,
		passport.Gender,
		passport.DateOfBirth,
		passport.BirthAddress,
	).Scan(&passport.ID)
	if err != nil {
		return fmt.Errorf("failed to create passport: %w", err)
	}
	return nil
}
