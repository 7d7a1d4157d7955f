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

const meetingColumns = `m.id, m.name, m.type, m.date_created, m.doctor_id, m.data`

type meetingRepository struct {
	db *DB
}

func NewMeetingRepository(db *DB) repository.MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	query := `
		INSERT INTO meetings (name, type, doctor_id, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_created
	`
	var data interface{}
	if len(meeting.Data) > 0 {
		data = meeting.Data
	}
	err := r.db.ext(ctx).QueryRowxContext(ctx, query,
		meeting.Name,
		meeting.Type,
		meeting.DoctorID,
		data,
	).Scan(&meeting.ID, &meeting.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

func (r *meetingRepository) Get(ctx context.Context, id int64) (*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings m WHERE m.id = $1`
	var meeting model.Meeting
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &meeting, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &meeting, nil
}

func (r *meetingRepository) List(ctx context.Context, filters *model.MeetingFilters) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		LEFT JOIN users u ON u.id = m.doctor_id
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
		addLike("m.name", filters.Name)
		addLike("u.first_name", filters.DoctorFirstName)
		addLike("u.last_name", filters.DoctorLastName)
		addLike("u.surname", filters.DoctorSurname)

		if filters.Type != "" {
			query += fmt.Sprintf(" AND m.type = $%d", argCount)
			args = append(args, filters.Type)
			argCount++
		}
		if filters.FromDate != nil {
			query += fmt.Sprintf(" AND m.date_created >= $%d", argCount)
			args = append(args, *filters.FromDate)
			argCount++
		}
		if filters.ToDate != nil {
			query += fmt.Sprintf(" AND m.date_created <= $%d", argCount)
			args = append(args, *filters.ToDate)
			argCount++
		}
	}

	query += " ORDER BY m.date_created DESC"

	meetings := []*model.Meeting{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &meetings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

func (r *meetingRepository) ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings m WHERE m.doctor_id = $1 ORDER BY m.date_created DESC`
	meetings := []*model.Meeting{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &meetings, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor meetings: %w", err)
	}
	return meetings, nil
}

func (r *meetingRepository) ListByPatient(ctx context.Context, patientID int64, filters *model.PatientMeetingFilters) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m
		JOIN meeting_patients mp ON mp.meeting_id = m.id
		WHERE mp.patient_id = $1
	`
	args := []interface{}{patientID}
	argCount := 2

	if filters != nil {
		if filters.Type != "" {
			query += fmt.Sprintf(" AND m.type = $%d", argCount)
			args = append(args, filters.Type)
			argCount++
		}
		if filters.FromDate != nil {
			query += fmt.Sprintf(" AND m.date_created >= $%d", argCount)
			args = append(args, *filters.FromDate)
			argCount++
		}
		if filters.ToDate != nil {
			query += fmt.Sprintf(" AND m.date_created <= $%d", argCount)
			args = append(args, *filters.ToDate)
			argCount++
		}
	}

	query += " ORDER BY m.date_created DESC"

	meetings := []*model.Meeting{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &meetings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patient meetings: %w", err)
	}
	return meetings, nil
}

func (r *meetingRepository) ExistsByNameAndDoctor(ctx context.Context, name string, doctorID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM meetings WHERE name = $1 AND doctor_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &exists, query, name, doctorID); err != nil {
		return false, fmt.Errorf("failed to check meeting existence: %w", err)
	}
	return exists, nil
}

func (r *meetingRepository) Update(ctx context.Context, id int64, patch *model.MeetingPatch) error {
	query := `UPDATE meetings SET`
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

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Type != nil {
		set("type", *patch.Type)
	}
	if patch.Data != nil {
		set("data", patch.Data)
	}
	if argCount == 1 {
		return nil
	}

	query += fmt.Sprintf(" WHERE id = $%d", argCount)
	args = append(args, id)

	result, err := r.db.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
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

func (r *meetingRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
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

func (r *meetingRepository) ListPatients(ctx context.Context, meetingID int64) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + patientJoins + `
		JOIN meeting_patients mp ON mp.patient_id = p.id
		WHERE mp.meeting_id = $1
		ORDER BY p.id`
	patients := []*model.Patient{}
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &patients, query, meetingID); err != nil {
		return nil, fmt.Errorf("failed to list meeting patients: %w", err)
	}
	return patients, nil
}

// HasPatient is a targeted existence probe on the join table, not a
// scan of the loaded collection.
func (r *meetingRepository) HasPatient(ctx context.Context, meetingID, patientID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM meeting_patients WHERE meeting_id = $1 AND patient_id = $2)`
	var exists bool
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &exists, query, meetingID, patientID); err != nil {
		return false, fmt.Errorf("failed to check meeting membership: %w", err)
	}
	return exists, nil
}

func (r *meetingRepository) AddPatient(ctx context.Context, meetingID, patientID int64) error {
	query := `INSERT INTO meeting_patients (meeting_id, patient_id) VALUES ($1, $2)`
	if _, err := r.db.ext(ctx).ExecContext(ctx, query, meetingID, patientID); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to add patient to meeting: %w", err)
	}
	return nil
}

func (r *meetingRepository) RemovePatient(ctx context.Context, meetingID, patientID int64) error {
	query := `DELETE FROM meeting_patients WHERE meeting_id = $1 AND patient_id = $2`
	result, err := r.db.ext(ctx).ExecContext(ctx, query, meetingID, patientID)
	if err != nil {
		return fmt.Errorf("failed to remove patient from meeting: %w", err)
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

func (r *meetingRepository) RemovePatientFromAll(ctx context.Context, patientID int64) error {
	query := `DELETE FROM meeting_patients WHERE patient_id = $1`
	if _, err := r.db.ext(ctx).ExecContext(ctx, query, patientID); err != nil {
		return fmt.Errorf("failed to remove patient from meetings: %w", err)
	}
	return nil
}
