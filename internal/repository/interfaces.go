package repository

import (
	"context"

	"github.com/centek/clinic-api/internal/model"
)

// Transactor runs fn inside a single database transaction. Repository
// calls made with the context fn receives join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filters *model.DoctorFilters) ([]*model.User, error)
	UpdateProfile(ctx context.Context, id int64, patch *model.UserPatch) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePhoto(ctx context.Context, id int64, photo string) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

type SpecialityRepository interface {
	FindOrCreate(ctx context.Context, name string) (*model.Speciality, error)
	List(ctx context.Context) ([]*model.Speciality, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id int64) (*model.Patient, error)
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Patient, error)
	Update(ctx context.Context, id int64, patch *model.PatientPatch) error
	Delete(ctx context.Context, id int64) error
}

type PassportRepository interface {
	Create(ctx context.Context, passport *model.Passport) error
}

type InsuranceRepository interface {
	FindOrCreateCompany(ctx context.Context, name string) (*model.InsuranceCompany, error)
	CreatePolicy(ctx context.Context, policy *model.InsurancePolicy) error
}

type MedCardRepository interface {
	Create(ctx context.Context, card *model.MedCard) error
}

type DiagnosisRepository interface {
	FindOrCreate(ctx context.Context, name string) (*model.Diagnosis, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Diagnosis, error)
}

type VisitRepository interface {
	Create(ctx context.Context, visit *model.Visit) error
	Get(ctx context.Context, id int64) (*model.Visit, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Visit, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Visit, error)
	DoctorVisitedPatient(ctx context.Context, doctorID, patientID int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	DeleteByPatient(ctx context.Context, patientID int64) error
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	Get(ctx context.Context, id int64) (*model.Meeting, error)
	List(ctx context.Context, filters *model.MeetingFilters) ([]*model.Meeting, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*model.Meeting, error)
	ListByPatient(ctx context.Context, patientID int64, filters *model.PatientMeetingFilters) ([]*model.Meeting, error)
	ExistsByNameAndDoctor(ctx context.Context, name string, doctorID int64) (bool, error)
	Update(ctx context.Context, id int64, patch *model.MeetingPatch) error
	Delete(ctx context.Context, id int64) error

	ListPatients(ctx context.Context, meetingID int64) ([]*model.Patient, error)
	HasPatient(ctx context.Context, meetingID, patientID int64) (bool, error)
	AddPatient(ctx context.Context, meetingID, patientID int64) error
	RemovePatient(ctx context.Context, meetingID, patientID int64) error
	RemovePatientFromAll(ctx context.Context, patientID int64) error
}

type StatsRepository interface {
	Counts(ctx context.Context) (*model.Statistics, error)
}
