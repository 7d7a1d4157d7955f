// Package meeting implements medical events and their patient rosters.
package meeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/internal/service/ownership"
	"github.com/centek/clinic-api/pkg/apperror"
)

type Service struct {
	meetings repository.MeetingRepository
	patients repository.PatientRepository
}

func NewService(meetings repository.MeetingRepository, patients repository.PatientRepository) *Service {
	return &Service{meetings: meetings, patients: patients}
}

func (s *Service) List(ctx context.Context, filters *model.MeetingFilters) ([]*model.Meeting, error) {
	if filters.Type != "" && !filters.Type.Valid() {
		return nil, apperror.Validation("invalid meeting type", nil)
	}
	meetings, err := s.meetings.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Get returns the meeting with its patient roster loaded.
func (s *Service) Get(ctx context.Context, id int64) (*model.Meeting, error) {
	meeting, err := s.meetings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("meeting")
		}
		return nil, fmt.Errorf("failed to fetch meeting: %w", err)
	}

	patients, err := s.meetings.ListPatients(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting patients: %w", err)
	}
	meeting.Patients = patients
	return meeting, nil
}

// Create registers a meeting organized by the calling doctor. The
// (name, doctor) pair must be unique.
func (s *Service) Create(ctx context.Context, doctorID int64, req *model.CreateMeetingRequest) (*model.Meeting, error) {
	if !req.Type.Valid() {
		return nil, apperror.Validation("invalid meeting type", nil)
	}

	exists, err := s.meetings.ExistsByNameAndDoctor(ctx, req.Name, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check meeting name: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("you already have a meeting with this name")
	}

	meeting := &model.Meeting{
		Name:     req.Name,
		Type:     req.Type,
		DoctorID: &doctorID,
		Data:     req.Data,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	log.Info().Int64("meeting_id", meeting.ID).Int64("doctor_id", doctorID).Msg("meeting created")
	return meeting, nil
}

// Update applies a partial edit. Only the organizer may modify the
// meeting; an empty patch is a no-op.
func (s *Service) Update(ctx context.Context, doctorID, meetingID int64, patch *model.MeetingPatch) (*model.Meeting, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !ownership.CanModifyNullable(meeting.DoctorID, doctorID) {
		return nil, apperror.Forbidden("only the organizer can modify the meeting")
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, apperror.Validation("invalid meeting type", nil)
	}

	if patch.Empty() {
		return meeting, nil
	}

	if err := s.meetings.Update(ctx, meetingID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("meeting")
		}
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return s.Get(ctx, meetingID)
}

// Delete removes the meeting and, via cascade, its memberships. Only
// the organizer may delete it.
func (s *Service) Delete(ctx context.Context, doctorID, meetingID int64) error {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return err
	}
	if !ownership.CanModifyNullable(meeting.DoctorID, doctorID) {
		return apperror.Forbidden("only the organizer can delete the meeting")
	}

	if err := s.meetings.Delete(ctx, meetingID); err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}

	log.Info().Int64("meeting_id", meetingID).Int64("doctor_id", doctorID).Msg("meeting deleted")
	return nil
}

func (s *Service) Patients(ctx context.Context, meetingID int64) ([]*model.Patient, error) {
	if _, err := s.Get(ctx, meetingID); err != nil {
		return nil, err
	}
	patients, err := s.meetings.ListPatients(ctx, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting patients: %w", err)
	}
	return patients, nil
}

// AddPatient enrolls a patient. Only the organizer may change the
// roster, and a patient can be enrolled at most once.
func (s *Service) AddPatient(ctx context.Context, doctorID, meetingID, patientID int64) (*model.Meeting, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !ownership.CanModifyNullable(meeting.DoctorID, doctorID) {
		return nil, apperror.Forbidden("only the organizer can add patients to the meeting")
	}

	if _, err := s.patients.Get(ctx, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}

	enrolled, err := s.meetings.HasPatient(ctx, meetingID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, apperror.Conflict("patient is already in the meeting")
	}

	if err := s.meetings.AddPatient(ctx, meetingID, patientID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("patient is already in the meeting")
		}
		return nil, fmt.Errorf("failed to add patient: %w", err)
	}
	return s.Get(ctx, meetingID)
}

// RemovePatient drops a patient from the roster.
func (s *Service) RemovePatient(ctx context.Context, doctorID, meetingID, patientID int64) (*model.Meeting, error) {
	meeting, err := s.Get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if !ownership.CanModifyNullable(meeting.DoctorID, doctorID) {
		return nil, apperror.Forbidden("only the organizer can remove patients from the meeting")
	}

	enrolled, err := s.meetings.HasPatient(ctx, meetingID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperror.Conflict("patient is not in the meeting")
	}

	if err := s.meetings.RemovePatient(ctx, meetingID, patientID); err != nil {
		return nil, fmt.Errorf("failed to remove patient: %w", err)
	}
	return s.Get(ctx, meetingID)
}
