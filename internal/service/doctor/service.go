// Package doctor implements the read-only doctor directory and the
// per-doctor listings of meetings, patients and visits.
package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/pkg/apperror"
)

type Service struct {
	users        repository.UserRepository
	specialities repository.SpecialityRepository
	meetings     repository.MeetingRepository
	patients     repository.PatientRepository
	visits       repository.VisitRepository
}

func NewService(
	users repository.UserRepository,
	specialities repository.SpecialityRepository,
	meetings repository.MeetingRepository,
	patients repository.PatientRepository,
	visits repository.VisitRepository,
) *Service {
	return &Service{
		users:        users,
		specialities: specialities,
		meetings:     meetings,
		patients:     patients,
		visits:       visits,
	}
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.User, error) {
	doctors, err := s.users.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	doctor, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to fetch doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) Meetings(ctx context.Context, doctorID int64) ([]*model.Meeting, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	meetings, err := s.meetings.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Patients lists the patients the doctor has conducted visits of.
func (s *Service) Patients(ctx context.Context, doctorID int64) ([]*model.Patient, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	patients, err := s.patients.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Visits(ctx context.Context, doctorID int64) ([]*model.Visit, error) {
	if _, err := s.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	visits, err := s.visits.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (s *Service) Specialities(ctx context.Context) ([]*model.Speciality, error) {
	specialities, err := s.specialities.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialities: %w", err)
	}
	return specialities, nil
}
