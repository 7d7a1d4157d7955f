package model

// Gender values accepted for passports and patients.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// VisitStatus is the lifecycle state of a patient visit.
type VisitStatus string

const (
	VisitStatusOpened      VisitStatus = "opened"
	VisitStatusClosed      VisitStatus = "closed"
	VisitStatusNotCame     VisitStatus = "not_came"
	VisitStatusCanceled    VisitStatus = "canceled"
	VisitStatusRescheduled VisitStatus = "rescheduled"
	VisitStatusReopened    VisitStatus = "reopened"
)

func (s VisitStatus) Valid() bool {
	switch s {
	case VisitStatusOpened, VisitStatusClosed, VisitStatusNotCame,
		VisitStatusCanceled, VisitStatusRescheduled, VisitStatusReopened:
		return true
	}
	return false
}

// MeetingType is the kind of medical event a meeting represents.
type MeetingType string

const (
	MeetingTypeLaboratoryTest          MeetingType = "laboratory_test"
	MeetingTypeInstrumentalDiagnostics MeetingType = "instrumental_diagnostics"
	MeetingTypeDrugTherapy             MeetingType = "drug_therapy"
	MeetingTypePhysiotherapy           MeetingType = "physiotherapy"
	MeetingTypeSurgery                 MeetingType = "surgery"
)

func (t MeetingType) Valid() bool {
	switch t {
	case MeetingTypeLaboratoryTest, MeetingTypeInstrumentalDiagnostics,
		MeetingTypeDrugTherapy, MeetingTypePhysiotherapy, MeetingTypeSurgery:
		return true
	}
	return false
}

// Statistics is the aggregate row counts exposed by GET /statistics.
type Statistics struct {
	MeetingsCount int64 `json:"meetings_count" db:"meetings_count"`
	PatientsCount int64 `json:"patients_count" db:"patients_count"`
	DoctorsCount  int64 `json:"doctors_count" db:"doctors_count"`
	VisitsCount   int64 `json:"visits_count" db:"visits_count"`
}
