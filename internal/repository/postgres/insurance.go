package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

// ErrUniqueViolation lets services tell natural-key conflicts apart
// from other store failures.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == uniqueViolationCode
}

type insuranceRepository struct {
	db *DB
}

func NewInsuranceRepository(db *DB) repository.InsuranceRepository {
	return &insuranceRepository{db: db}
}

func (r *insuranceRepository) FindOrCreateCompany(ctx context.Context, name string) (*model.InsuranceCompany, error) {
	query := `
		INSERT INTO insurance_companies (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`
	var company model.InsuranceCompany
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &company, query, name); err != nil {
		return nil, fmt.Errorf("failed to find or create insurance company: %w", err)
	}
	return &company, nil
}

func (r *insuranceRepository) CreatePolicy(ctx context.Context, policy *model.InsurancePolicy) error {
	query := `
		INSERT INTO insurance_policies (number, date_created, date_expires, company_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		policy.Number,
		policy.DateCreated,
		policy.DateExpires,
		policy.CompanyID,
	).Scan(&policy.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create insurance policy: %w", err)
	}
	return nil
}
