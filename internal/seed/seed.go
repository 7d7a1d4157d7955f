// Package seed loads a demo data set on startup: an admin doctor plus
// a handful of patients with visits and meetings. Seeding is
// idempotent, a second run is a no-op.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
	"github.com/centek/clinic-api/internal/service/patient"
	"github.com/centek/clinic-api/pkg/security"
)

const adminUsername = "admin"

type Seeder struct {
	users        repository.UserRepository
	specialities repository.SpecialityRepository
	meetings     repository.MeetingRepository
	patients     *patient.Service
	tx           repository.Transactor
	hasher       security.PasswordHasher
}

func New(
	users repository.UserRepository,
	specialities repository.SpecialityRepository,
	meetings repository.MeetingRepository,
	patients *patient.Service,
	tx repository.Transactor,
	hasher security.PasswordHasher,
) *Seeder {
	return &Seeder{
		users:        users,
		specialities: specialities,
		meetings:     meetings,
		patients:     patients,
		tx:           tx,
		hasher:       hasher,
	}
}

// Run loads the demo data unless the admin account already exists.
func (s *Seeder) Run(ctx context.Context) error {
	_, err := s.users.GetByUsername(ctx, adminUsername)
	if err == nil {
		log.Debug().Msg("seed data already present, skipping")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check seed state: %w", err)
	}

	admin, err := s.createAdmin(ctx)
	if err != nil {
		return err
	}
	if err := s.createPatients(ctx, admin.ID); err != nil {
		return err
	}

	log.Info().Msg("seed data loaded")
	return nil
}

func (s *Seeder) createAdmin(ctx context.Context) (*model.User, error) {
	hash, err := s.hasher.Hash("admin12345")
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	admin := &model.User{
		Username:     adminUsername,
		Email:        "admin@centek.clinic",
		PasswordHash: hash,
		FirstName:    "Alexander",
		LastName:     "Petrov",
		Photo:        "avatar/default.svg",
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		speciality, err := s.specialities.FindOrCreate(ctx, "Therapist")
		if err != nil {
			return fmt.Errorf("failed to create seed speciality: %w", err)
		}
		admin.SpecialityID = speciality.ID
		admin.Speciality = speciality.Name
		if err := s.users.Create(ctx, admin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *Seeder) createPatients(ctx context.Context, doctorID int64) error {
	diagnoses := []string{"Hypertension", "Diabetes", "Asthma", "Migraine", "Gastritis"}
	types := []model.MeetingType{
		model.MeetingTypeLaboratoryTest,
		model.MeetingTypeInstrumentalDiagnostics,
		model.MeetingTypeDrugTherapy,
		model.MeetingTypePhysiotherapy,
		model.MeetingTypeSurgery,
	}

	for i := 0; i < 5; i++ {
		req := demoPatient(i)
		p, err := s.patients.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to create seed patient %d: %w", i, err)
		}

		visit := &model.CreateVisitRequest{
			DateToVisit: time.Now().AddDate(0, 0, i+1),
			Status:      model.VisitStatusOpened,
			Diagnosis:   model.DiagnosisRef{Name: diagnoses[i]},
		}
		if _, err := s.patients.CreateVisit(ctx, doctorID, p.ID, visit); err != nil {
			return fmt.Errorf("failed to create seed visit %d: %w", i, err)
		}

		meeting := &model.Meeting{
			Name:     fmt.Sprintf("Scheduled %s session %d", types[i], i+1),
			Type:     types[i],
			DoctorID: &doctorID,
		}
		if err := s.meetings.Create(ctx, meeting); err != nil {
			return fmt.Errorf("failed to create seed meeting %d: %w", i, err)
		}
		if err := s.meetings.AddPatient(ctx, meeting.ID, p.ID); err != nil {
			return fmt.Errorf("failed to enroll seed patient %d: %w", i, err)
		}
	}
	return nil
}

func demoPatient(i int) *model.CreatePatientRequest {
	firstNames := []string{"Ivan", "Maria", "Dmitry", "Elena", "Sergey"}
	lastNames := []string{"Ivanov", "Smirnova", "Kuznetsov", "Popova", "Volkov"}
	birth := model.NewDate(1970+5*i, time.March, 10+i)
	issued := model.NewDate(2015, time.June, 1+i)

	return &model.CreatePatientRequest{
		FirstName:   firstNames[i],
		LastName:    lastNames[i],
		Gender:      gender(i),
		Address:     fmt.Sprintf("Lenina st. %d", 10+i),
		Email:       fmt.Sprintf("patient%d@example.com", i+1),
		DateOfBirth: birth,
		Passport: model.CreatePassportRequest{
			SeriesNumber:   int64(4510_100000 + i),
			IssuedBy:       "Central district department",
			IssuedDate:     issued,
			DepartmentCode: 770 + i,
			FirstName:      firstNames[i],
			LastName:       lastNames[i],
			Gender:         gender(i),
			DateOfBirth:    birth,
			BirthAddress:   "Moscow",
		},
		InsurancePolicy: model.CreateInsurancePolicyRequest{
			Number:      int64(7700_000001 + i),
			DateCreated: model.NewDate(2022, time.January, 10),
			DateExpires: model.NewDate(2032, time.January, 10),
			Company:     model.CompanyRef{Name: "SOGAZ"},
		},
	}
}

func gender(i int) model.Gender {
	if i%2 == 0 {
		return model.GenderMale
	}
	return model.GenderFemale
}
