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

const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	u.surname, u.photo, u.speciality_id, u.date_joined, u.last_login,
	s.name AS speciality`

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, surname, photo, speciality_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, date_joined
	`
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Surname,
		user.Photo,
		user.SpecialityID,
	).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN specialties s ON s.id = u.speciality_id
		WHERE u.id = $1
	`
	var user model.User
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN specialties s ON s.id = u.speciality_id
		WHERE u.username = $1
	`
	var user model.User
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &taken, query, username); err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return taken, nil
}

func (r *userRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users u
		JOIN specialties s ON s.id = u.speciality_id
		WHERE 1=1
	`
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
		addLike("u.username", filters.Username)
		addLike("u.first_name", filters.FirstName)
		addLike("u.last_name", filters.LastName)
		addLike("u.surname", filters.Surname)
		addLike("s.name", filters.Speciality)
	}

	query += " ORDER BY u.id"

	users := []*model.User{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, patch *model.UserPatch) error {
	query := `UPDATE users SET`
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
	if argCount == 1 {
		return nil
	}

	query += fmt.Sprintf(" WHERE id = $%d", argCount)
	args = append(args, id)

	return r.exec(ctx, query, args...)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
}

func (r *userRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	return r.exec(ctx, `UPDATE users SET photo = $1 WHERE id = $2`, photo, id)
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id)
}

func (r *userRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
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
