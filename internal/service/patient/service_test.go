package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/pkg/apperror"
)

type testEnv struct {
	svc       *Service
	patients  *fakePatientRepo
	passports *fakePassportRepo
	insurance *fakeInsuranceRepo
	medCards  *fakeMedCardRepo
	visits    *fakeVisitRepo
	diagnoses *fakeDiagnosisRepo
	meetings  *fakeMeetingRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		patients:  newFakePatientRepo(),
		passports: &fakePassportRepo{},
		insurance: newFakeInsuranceRepo(),
		medCards:  &fakeMedCardRepo{},
		visits:    newFakeVisitRepo(),
		diagnoses: newFakeDiagnosisRepo(),
		meetings:  newFakeMeetingRepo(),
	}
	users := &fakeUserRepo{users: map[int64]*model.User{
		1: {ID: 1, FirstName: "Gregory", LastName: "House"},
		2: {ID: 2, FirstName: "James", LastName: "Wilson"},
	}}
	env.svc = NewService(
		env.patients, env.passports, env.insurance, env.medCards,
		env.visits, env.diagnoses, env.meetings, users,
		fakeTx{}, noopNotifier{},
	)
	return env
}

func createReq(policyNumber int64, company string) *model.CreatePatientRequest {
	birth := model.NewDate(1980, time.April, 12)
	return &model.CreatePatientRequest{
		FirstName:   "Ivan",
		LastName:    "Ivanov",
		Gender:      model.GenderMale,
		Address:     "Lenina st. 1",
		Email:       "ivan@example.com",
		DateOfBirth: birth,
		Passport: model.CreatePassportRequest{
			SeriesNumber:   4510123456,
			IssuedBy:       "Central district department",
			IssuedDate:     model.NewDate(2010, time.June, 1),
			DepartmentCode: 770,
			FirstName:      "Ivan",
			LastName:       "Ivanov",
			Gender:         model.GenderMale,
			DateOfBirth:    birth,
			BirthAddress:   "Moscow",
		},
		InsurancePolicy: model.CreateInsurancePolicyRequest{
			Number:      policyNumber,
			DateCreated: model.NewDate(2022, time.January, 10),
			DateExpires: model.NewDate(2032, time.January, 10),
			Company:     model.CompanyRef{Name: company},
		},
	}
}

func (env *testEnv) createPatient(t *testing.T, policyNumber int64) *model.Patient {
	t.Helper()
	p, err := env.svc.Create(context.Background(), createReq(policyNumber, "SOGAZ"))
	require.NoError(t, err)
	return p
}

func (env *testEnv) addVisit(t *testing.T, doctorID, patientID int64) *model.Visit {
	t.Helper()
	v, err := env.svc.CreateVisit(context.Background(), doctorID, patientID, &model.CreateVisitRequest{
		DateToVisit: time.Now().AddDate(0, 0, 7),
		Diagnosis:   model.DiagnosisRef{Name: "Hypertension"},
	})
	require.NoError(t, err)
	return v
}

func TestCreateMaterializesWholeGraph(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)

	assert.NotZero(t, p.ID)
	assert.NotZero(t, p.Passport.ID)
	assert.NotZero(t, p.InsurancePolicy.ID)
	assert.NotZero(t, p.MedCard.ID)
	assert.Equal(t, "SOGAZ", p.InsurancePolicy.Company.Name)

	assert.Equal(t, 1, env.passports.count)
	assert.Equal(t, 1, env.medCards.count)
	assert.Len(t, env.insurance.companies, 1)
}

func TestCreateReusesCompanyByName(t *testing.T) {
	env := newTestEnv(t)

	p1 := env.createPatient(t, 7700000001)
	p2 := env.createPatient(t, 7700000002)

	assert.Equal(t, p1.InsurancePolicy.Company.ID, p2.InsurancePolicy.Company.ID)
	assert.Len(t, env.insurance.companies, 1)
	// Everything else stays per-patient.
	assert.Equal(t, 2, env.passports.count)
	assert.Equal(t, 2, env.medCards.count)
	assert.NotEqual(t, p1.MedCard.ID, p2.MedCard.ID)
}

func TestCreateDuplicatePolicyNumberConflicts(t *testing.T) {
	env := newTestEnv(t)

	env.createPatient(t, 7700000001)
	_, err := env.svc.Create(context.Background(), createReq(7700000001, "SOGAZ"))
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestCreateRejectsInvalidGender(t *testing.T) {
	env := newTestEnv(t)

	req := createReq(7700000001, "SOGAZ")
	req.Gender = "other"
	_, err := env.svc.Create(context.Background(), req)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestUpdateRequiresTreatingDoctor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createPatient(t, 7700000001)
	env.addVisit(t, 1, p.ID)

	first := "Pyotr"
	_, err := env.svc.Update(ctx, 2, p.ID, &model.PatientPatch{FirstName: &first})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	assert.Equal(t, 400, apperror.FromError(err).StatusCode())

	// The record is untouched.
	got, err := env.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", got.FirstName)

	got, err = env.svc.Update(ctx, 1, p.ID, &model.PatientPatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Pyotr", got.FirstName)
	assert.Equal(t, "Ivanov", got.LastName)
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)
	env.addVisit(t, 1, p.ID)

	got, err := env.svc.Update(context.Background(), 1, p.ID, &model.PatientPatch{})
	require.NoError(t, err)
	assert.Equal(t, p.FirstName, got.FirstName)
	assert.Equal(t, p.Email, got.Email)
}

func TestUpdateMissingPatient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Update(context.Background(), 1, 999, &model.PatientPatch{})
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestDeleteRemovesVisitsAndMemberships(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createPatient(t, 7700000001)
	env.addVisit(t, 1, p.ID)

	doctorID := int64(1)
	meeting := &model.Meeting{Name: "Morning lab session", Type: model.MeetingTypeLaboratoryTest, DoctorID: &doctorID}
	require.NoError(t, env.meetings.Create(ctx, meeting))
	require.NoError(t, env.meetings.AddPatient(ctx, meeting.ID, p.ID))

	require.NoError(t, env.svc.Delete(ctx, 1, p.ID))

	_, err := env.svc.Get(ctx, p.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
	assert.Empty(t, env.visits.visits)
	assert.Empty(t, env.meetings.memberships)
}

func TestDeleteRequiresTreatingDoctor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createPatient(t, 7700000001)
	env.addVisit(t, 1, p.ID)

	err := env.svc.Delete(ctx, 2, p.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))

	_, err = env.svc.Get(ctx, p.ID)
	assert.NoError(t, err)
}

func TestCreateVisitDefaultsToOpened(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)
	v := env.addVisit(t, 1, p.ID)

	assert.Equal(t, model.VisitStatusOpened, v.Status)
	assert.Equal(t, int64(1), v.DoctorID)
	assert.Equal(t, p.ID, v.PatientID)
	assert.Equal(t, "Hypertension", v.Diagnosis.Name)
}

func TestCreateVisitDeduplicatesDiagnosis(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)
	v1 := env.addVisit(t, 1, p.ID)
	v2 := env.addVisit(t, 1, p.ID)

	assert.Equal(t, v1.DiagnosisID, v2.DiagnosisID)
	assert.Len(t, env.diagnoses.byName, 1)
}

func TestCreateVisitRejectsInvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)
	_, err := env.svc.CreateVisit(context.Background(), 1, p.ID, &model.CreateVisitRequest{
		DateToVisit: time.Now(),
		Status:      "unknown",
		Diagnosis:   model.DiagnosisRef{Name: "Hypertension"},
	})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestDeleteVisitOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.createPatient(t, 7700000001)
	v := env.addVisit(t, 1, p.ID)

	_, err := env.svc.DeleteVisit(ctx, 2, p.ID, v.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
	assert.Len(t, env.visits.visits, 1)

	got, err := env.svc.DeleteVisit(ctx, 1, p.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Empty(t, env.visits.visits)
}

func TestDeleteVisitWrongPatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p1 := env.createPatient(t, 7700000001)
	p2 := env.createPatient(t, 7700000002)
	v := env.addVisit(t, 1, p1.ID)

	_, err := env.svc.DeleteVisit(ctx, 1, p2.ID, v.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestDiagnosisHistory(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPatient(t, 7700000001)
	env.addVisit(t, 1, p.ID)

	history, err := env.svc.DiagnosisHistory(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, "Hypertension", history[0].Name)
}
