// Package patient implements the patient registry: composite creation
// of the patient document graph, visits and diagnosis history.
package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/internal/service/notifier"
	"github.com/centek/clinic-api/internal/service/ownership"
	"github.com/centek/clinic-api/pkg/apperror"
)

type Service struct {
	patients  repository.PatientRepository
	passports repository.PassportRepository
	insurance repository.InsuranceRepository
	medCards  repository.MedCardRepository
	visits    repository.VisitRepository
	diagnoses repository.DiagnosisRepository
	meetings  repository.MeetingRepository
	users     repository.UserRepository
	tx        repository.Transactor
	notifier  notifier.Notifier
}

func NewService(
	patients repository.PatientRepository,
	passports repository.PassportRepository,
	insurance repository.InsuranceRepository,
	medCards repository.MedCardRepository,
	visits repository.VisitRepository,
	diagnoses repository.DiagnosisRepository,
	meetings repository.MeetingRepository,
	users repository.UserRepository,
	tx repository.Transactor,
	n notifier.Notifier,
) *Service {
	return &Service{
		patients:  patients,
		passports: passports,
		insurance: insurance,
		medCards:  medCards,
		visits:    visits,
		diagnoses: diagnoses,
		meetings:  meetings,
		users:     users,
		tx:        tx,
		notifier:  n,
	}
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	return patient, nil
}

// Create materializes the whole patient graph in one transaction: the
// insurance company is found or created by name, while the passport,
// policy and med card are always fresh rows owned by this patient.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if !req.Gender.Valid() {
		return nil, apperror.Validation("invalid patient gender", nil)
	}
	if !req.Passport.Gender.Valid() {
		return nil, apperror.Validation("invalid passport gender", nil)
	}

	patient := &model.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Surname:     req.Surname,
		Gender:      req.Gender,
		Address:     req.Address,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		company, err := s.insurance.FindOrCreateCompany(ctx, req.InsurancePolicy.Company.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve insurance company: %w", err)
		}

		passport := &model.Passport{
			SeriesNumber:   req.Passport.SeriesNumber,
			IssuedBy:       req.Passport.IssuedBy,
			IssuedDate:     req.Passport.IssuedDate,
			DepartmentCode: req.Passport.DepartmentCode,
			FirstName:      req.Passport.FirstName,
			LastName:       req.Passport.LastName,
			Surname:        req.Passport.Surname,
			Gender:         req.Passport.Gender,
			DateOfBirth:    req.Passport.DateOfBirth,
			BirthAddress:   req.Passport.BirthAddress,
		}
		if err := s.passports.Create(ctx, passport); err != nil {
			return fmt.Errorf("failed to create passport: %w", err)
		}

		policy := &model.InsurancePolicy{
			Number:      req.InsurancePolicy.Number,
			DateCreated: req.InsurancePolicy.DateCreated,
			DateExpires: req.InsurancePolicy.DateExpires,
			CompanyID:   company.ID,
			Company:     *company,
		}
		if err := s.insurance.CreatePolicy(ctx, policy); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperror.Conflict("insurance policy with this number already exists")
			}
			return fmt.Errorf("failed to create insurance policy: %w", err)
		}

		card := &model.MedCard{}
		if err := s.medCards.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to create med card: %w", err)
		}

		patient.PassportID = passport.ID
		patient.InsurancePolicyID = policy.ID
		patient.MedCardID = card.ID
		patient.Passport = *passport
		patient.InsurancePolicy = *policy
		patient.MedCard = *card

		if err := s.patients.Create(ctx, patient); err != nil {
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("patient_id", patient.ID).Msg("patient registered")
	return patient, nil
}

// Update applies a partial edit. Only doctors who have conducted at
// least one visit of the patient may modify the record.
func (s *Service) Update(ctx context.Context, doctorID, patientID int64, patch *model.PatientPatch) (*model.Patient, error) {
	if _, err := s.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if patch.Gender != nil && !patch.Gender.Valid() {
		return nil, apperror.Validation("invalid patient gender", nil)
	}

	if err := s.requireTreating(ctx, doctorID, patientID); err != nil {
		return nil, err
	}

	if patch.Empty() {
		return s.Get(ctx, patientID)
	}

	if err := s.patients.Update(ctx, patientID, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return s.Get(ctx, patientID)
}

// Delete removes the patient together with their visits and meeting
// memberships in one transaction. The doctor must have treated the
// patient.
func (s *Service) Delete(ctx context.Context, doctorID, patientID int64) error {
	if _, err := s.Get(ctx, patientID); err != nil {
		return err
	}
	if err := s.requireTreating(ctx, doctorID, patientID); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.visits.DeleteByPatient(ctx, patientID); err != nil {
			return fmt.Errorf("failed to delete visits: %w", err)
		}
		if err := s.meetings.RemovePatientFromAll(ctx, patientID); err != nil {
			return fmt.Errorf("failed to remove meeting memberships: %w", err)
		}
		if err := s.patients.Delete(ctx, patientID); err != nil {
			return fmt.Errorf("failed to delete patient: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Int64("patient_id", patientID).Int64("doctor_id", doctorID).Msg("patient deleted")
	return nil
}

func (s *Service) Meetings(ctx context.Context, patientID int64, filters *model.PatientMeetingFilters) ([]*model.Meeting, error) {
	if _, err := s.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if filters.Type != "" && !filters.Type.Valid() {
		return nil, apperror.Validation("invalid meeting type", nil)
	}
	meetings, err := s.meetings.ListByPatient(ctx, patientID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

func (s *Service) Visits(ctx context.Context, patientID int64) ([]*model.Visit, error) {
	if _, err := s.Get(ctx, patientID); err != nil {
		return nil, err
	}
	visits, err := s.visits.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

func (s *Service) DiagnosisHistory(ctx context.Context, patientID int64) ([]*model.Diagnosis, error) {
	if _, err := s.Get(ctx, patientID); err != nil {
		return nil, err
	}
	diagnoses, err := s.diagnoses.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	return diagnoses, nil
}

// CreateVisit schedules a visit conducted by the calling doctor. The
// diagnosis is deduplicated by name. The patient gets an email when
// mail is configured.
func (s *Service) CreateVisit(ctx context.Context, doctorID, patientID int64, req *model.CreateVisitRequest) (*model.Visit, error) {
	patient, err := s.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.VisitStatusOpened
	}
	if !status.Valid() {
		return nil, apperror.Validation("invalid visit status", nil)
	}

	visit := &model.Visit{
		DateToVisit: req.DateToVisit,
		Status:      status,
		DoctorID:    doctorID,
		PatientID:   patientID,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		diagnosis, err := s.diagnoses.FindOrCreate(ctx, req.Diagnosis.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve diagnosis: %w", err)
		}
		visit.DiagnosisID = diagnosis.ID
		visit.Diagnosis = *diagnosis

		if err := s.visits.Create(ctx, visit); err != nil {
			return fmt.Errorf("failed to create visit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if doctor, err := s.users.Get(ctx, doctorID); err == nil {
		go s.notifier.VisitScheduled(patient, doctor, visit.DateToVisit)
	}

	log.Info().
		Int64("visit_id", visit.ID).
		Int64("patient_id", patientID).
		Int64("doctor_id", doctorID).
		Msg("visit scheduled")
	return visit, nil
}

// DeleteVisit removes a visit. Only the doctor who conducts it may do
// so; the deleted visit is returned for the response body.
func (s *Service) DeleteVisit(ctx context.Context, doctorID, patientID, visitID int64) (*model.Visit, error) {
	if _, err := s.Get(ctx, patientID); err != nil {
		return nil, err
	}

	visit, err := s.visits.Get(ctx, visitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("visit")
		}
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	if visit.PatientID != patientID {
		return nil, apperror.NotFound("visit")
	}
	if !ownership.CanModify(visit.DoctorID, doctorID) {
		return nil, apperror.Forbidden("only the doctor conducting the visit can delete it")
	}

	if err := s.visits.Delete(ctx, visitID); err != nil {
		return nil, fmt.Errorf("failed to delete visit: %w", err)
	}
	return visit, nil
}

// requireTreating rejects doctors who never conducted a visit of the
// patient.
func (s *Service) requireTreating(ctx context.Context, doctorID, patientID int64) error {
	treated, err := s.visits.DoctorVisitedPatient(ctx, doctorID, patientID)
	if err != nil {
		return fmt.Errorf("failed to check treatment history: %w", err)
	}
	if !treated {
		return apperror.Forbidden("only a doctor who has treated the patient can modify the record")
	}
	return nil
}
