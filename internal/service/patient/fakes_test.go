package patient

import (
	"context"
	"time"

	"github.com/centek/clinic-api/internal/model"
	"github.com/centek/clinic-api/internal/repository"
)

// In-memory repository fakes. They keep just enough behavior for the
// service rules under test: sequential ids, natural-key dedup and
// not-found sentinels.

type fakeTx struct{}

func (fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePatientRepo struct {
	patients map[int64]*model.Patient
	nextID   int64
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[int64]*model.Patient), nextID: 1}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id int64) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) List(_ context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	out := make([]*model.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePatientRepo) ListByDoctor(_ context.Context, _ int64) ([]*model.Patient, error) {
	return nil, nil
}

func (r *fakePatientRepo) Update(_ context.Context, id int64, patch *model.PatientPatch) error {
	p, ok := r.patients[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Surname != nil {
		p.Surname = patch.Surname
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = *patch.DateOfBirth
	}
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

type fakePassportRepo struct {
	count  int
	nextID int64
}

func (r *fakePassportRepo) Create(_ context.Context, p *model.Passport) error {
	r.nextID++
	r.count++
	p.ID = r.nextID
	return nil
}

type fakeInsuranceRepo struct {
	companies map[string]*model.InsuranceCompany
	policies  map[int64]bool
	nextID    int64
}

func newFakeInsuranceRepo() *fakeInsuranceRepo {
	return &fakeInsuranceRepo{
		companies: make(map[string]*model.InsuranceCompany),
		policies:  make(map[int64]bool),
	}
}

func (r *fakeInsuranceRepo) FindOrCreateCompany(_ context.Context, name string) (*model.InsuranceCompany, error) {
	if c, ok := r.companies[name]; ok {
		return c, nil
	}
	r.nextID++
	c := &model.InsuranceCompany{ID: r.nextID, Name: name}
	r.companies[name] = c
	return c, nil
}

func (r *fakeInsuranceRepo) CreatePolicy(_ context.Context, p *model.InsurancePolicy) error {
	if r.policies[p.Number] {
		return repository.ErrDuplicate
	}
	r.policies[p.Number] = true
	r.nextID++
	p.ID = r.nextID
	return nil
}

type fakeMedCardRepo struct {
	count  int
	nextID int64
}

func (r *fakeMedCardRepo) Create(_ context.Context, c *model.MedCard) error {
	r.nextID++
	r.count++
	c.ID = r.nextID
	c.DateCreated = time.Now()
	c.DateExpires = c.DateCreated.AddDate(10, 0, 0)
	return nil
}

type fakeVisitRepo struct {
	visits map[int64]*model.Visit
	nextID int64
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[int64]*model.Visit), nextID: 0}
}

func (r *fakeVisitRepo) Create(_ context.Context, v *model.Visit) error {
	r.nextID++
	v.ID = r.nextID
	v.DateCreated = time.Now()
	cp := *v
	r.visits[v.ID] = &cp
	return nil
}

func (r *fakeVisitRepo) Get(_ context.Context, id int64) (*model.Visit, error) {
	v, ok := r.visits[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVisitRepo) ListByPatient(_ context.Context, patientID int64) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range r.visits {
		if v.PatientID == patientID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) ListByDoctor(_ context.Context, doctorID int64) ([]*model.Visit, error) {
	var out []*model.Visit
	for _, v := range r.visits {
		if v.DoctorID == doctorID {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeVisitRepo) DoctorVisitedPatient(_ context.Context, doctorID, patientID int64) (bool, error) {
	for _, v := range r.visits {
		if v.DoctorID == doctorID && v.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVisitRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.visits[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.visits, id)
	return nil
}

func (r *fakeVisitRepo) DeleteByPatient(_ context.Context, patientID int64) error {
	for id, v := range r.visits {
		if v.PatientID == patientID {
			delete(r.visits, id)
		}
	}
	return nil
}

type fakeDiagnosisRepo struct {
	byName map[string]*model.Diagnosis
	nextID int64
}

func newFakeDiagnosisRepo() *fakeDiagnosisRepo {
	return &fakeDiagnosisRepo{byName: make(map[string]*model.Diagnosis)}
}

func (r *fakeDiagnosisRepo) FindOrCreate(_ context.Context, name string) (*model.Diagnosis, error) {
	if d, ok := r.byName[name]; ok {
		return d, nil
	}
	r.nextID++
	d := &model.Diagnosis{ID: r.nextID, Name: name}
	r.byName[name] = d
	return d, nil
}

func (r *fakeDiagnosisRepo) ListByPatient(_ context.Context, _ int64) ([]*model.Diagnosis, error) {
	out := make([]*model.Diagnosis, 0, len(r.byName))
	for _, d := range r.byName {
		out = append(out, d)
	}
	return out, nil
}

type membership struct {
	meetingID, patientID int64
}

type fakeMeetingRepo struct {
	meetings    map[int64]*model.Meeting
	memberships map[membership]bool
	nextID      int64
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{
		meetings:    make(map[int64]*model.Meeting),
		memberships: make(map[membership]bool),
	}
}

func (r *fakeMeetingRepo) Create(_ context.Context, m *model.Meeting) error {
	r.nextID++
	m.ID = r.nextID
	m.DateCreated = time.Now()
	cp := *m
	r.meetings[m.ID] = &cp
	return nil
}

func (r *fakeMeetingRepo) Get(_ context.Context, id int64) (*model.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMeetingRepo) List(_ context.Context, _ *model.MeetingFilters) ([]*model.Meeting, error) {
	out := make([]*model.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMeetingRepo) ListByDoctor(_ context.Context, doctorID int64) ([]*model.Meeting, error) {
	var out []*model.Meeting
	for _, m := range r.meetings {
		if m.DoctorID != nil && *m.DoctorID == doctorID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) ListByPatient(_ context.Context, patientID int64, _ *model.PatientMeetingFilters) ([]*model.Meeting, error) {
	var out []*model.Meeting
	for _, m := range r.meetings {
		if r.memberships[membership{m.ID, patientID}] {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) ExistsByNameAndDoctor(_ context.Context, name string, doctorID int64) (bool, error) {
	for _, m := range r.meetings {
		if m.Name == name && m.DoctorID != nil && *m.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMeetingRepo) Update(_ context.Context, id int64, patch *model.MeetingPatch) error {
	m, ok := r.meetings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Type != nil {
		m.Type = *patch.Type
	}
	if patch.Data != nil {
		m.Data = patch.Data
	}
	return nil
}

func (r *fakeMeetingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.meetings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.meetings, id)
	for ms := range r.memberships {
		if ms.meetingID == id {
			delete(r.memberships, ms)
		}
	}
	return nil
}

func (r *fakeMeetingRepo) ListPatients(_ context.Context, meetingID int64) ([]*model.Patient, error) {
	var out []*model.Patient
	for ms := range r.memberships {
		if ms.meetingID == meetingID {
			out = append(out, &model.Patient{ID: ms.patientID})
		}
	}
	return out, nil
}

func (r *fakeMeetingRepo) HasPatient(_ context.Context, meetingID, patientID int64) (bool, error) {
	return r.memberships[membership{meetingID, patientID}], nil
}

func (r *fakeMeetingRepo) AddPatient(_ context.Context, meetingID, patientID int64) error {
	key := membership{meetingID, patientID}
	if r.memberships[key] {
		return repository.ErrDuplicate
	}
	r.memberships[key] = true
	return nil
}

func (r *fakeMeetingRepo) RemovePatient(_ context.Context, meetingID, patientID int64) error {
	delete(r.memberships, membership{meetingID, patientID})
	return nil
}

func (r *fakeMeetingRepo) RemovePatientFromAll(_ context.Context, patientID int64) error {
	for ms := range r.memberships {
		if ms.patientID == patientID {
			delete(r.memberships, ms)
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[int64]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (r *fakeUserRepo) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UsernameTaken(_ context.Context, _ string) (bool, error) { return false, nil }

func (r *fakeUserRepo) List(_ context.Context, _ *model.DoctorFilters) ([]*model.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, _ int64, _ *model.UserPatch) error {
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ int64, _ string) error { return nil }
func (r *fakeUserRepo) UpdatePhoto(_ context.Context, _ int64, _ string) error    { return nil }
func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ int64) error          { return nil }

type noopNotifier struct{}

func (noopNotifier) VisitScheduled(*model.Patient, *model.User, time.Time) {}
