package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Meeting is a medical event (lab test, surgery, ...) organized by a
// doctor for a set of patients. The doctor link survives as NULL when
// the organizer's account is removed.
type Meeting struct {
	ID          int64          `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Type        MeetingType    `json:"type" db:"type"`
	DateCreated time.Time      `json:"date_created" db:"date_created"`
	DoctorID    *int64         `json:"doctor_id" db:"doctor_id"`
	Data        types.JSONText `json:"data" db:"data"`

	Patients []*Patient `json:"patients,omitempty" db:"-"`
}

type CreateMeetingRequest struct {
	Name string         `json:"name" binding:"required,min=10,max=256"`
	Type MeetingType    `json:"type" binding:"required"`
	Data types.JSONText `json:"data"`
}

// MeetingPatch updates only the fields present in the payload.
type MeetingPatch struct {
	Name *string        `json:"name" binding:"omitempty,min=10,max=256"`
	Type *MeetingType   `json:"type"`
	Data types.JSONText `json:"data"`
}

func (p *MeetingPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Data == nil
}

// MeetingFilters are the optional query params of GET /meetings/.
// From/To bound the creation timestamp.
type MeetingFilters struct {
	Name            string      `form:"name"`
	DoctorFirstName string      `form:"doctor_first_name"`
	DoctorLastName  string      `form:"doctor_last_name"`
	DoctorSurname   string      `form:"doctor_surname"`
	Type            MeetingType `form:"meeting_type"`
	FromDate        *time.Time  `form:"from_date"`
	ToDate          *time.Time  `form:"to_date"`
}

// PatientMeetingFilters narrow GET /patients/{id}/meetings/.
type PatientMeetingFilters struct {
	FromDate *time.Time  `form:"from_date" time_format:"2006-01-02"`
	ToDate   *time.Time  `form:"to_date" time_format:"2006-01-02"`
	Type     MeetingType `form:"meeting_type"`
}
