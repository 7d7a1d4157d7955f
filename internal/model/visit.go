package model

import "time"

// Diagnosis is a shared lookup entity, deduplicated by name.
type Diagnosis struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Visit is a patient's appointment with the doctor who conducts it.
type Visit struct {
	ID          int64       `json:"id" db:"id"`
	DateCreated time.Time   `json:"date_created" db:"date_created"`
	DateToVisit time.Time   `json:"date_to_visit" db:"date_to_visit"`
	Status      VisitStatus `json:"status" db:"status"`
	DoctorID    int64       `json:"doctor_id" db:"doctor_id"`
	PatientID   int64       `json:"patient_id" db:"patient_id"`
	DiagnosisID int64       `json:"-" db:"diagnosis_id"`
	Diagnosis   Diagnosis   `json:"diagnosis" db:"diagnosis"`
}

type DiagnosisRef struct {
	Name string `json:"name" binding:"required,min=3,max=150"`
}

type CreateVisitRequest struct {
	DateToVisit time.Time    `json:"date_to_visit" binding:"required"`
	Status      VisitStatus  `json:"status"`
	Diagnosis   DiagnosisRef `json:"diagnosis" binding:"required"`
}
