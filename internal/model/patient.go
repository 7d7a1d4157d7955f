package model

import "time"

// Passport holds the identity document owned 1:1 by a patient.
type Passport struct {
	ID             int64   `json:"id" db:"id"`
	SeriesNumber   int64   `json:"series_number" db:"series_number"`
	IssuedBy       string  `json:"issued_by" db:"issued_by"`
	IssuedDate     Date    `json:"issued_date" db:"issued_date"`
	DepartmentCode int     `json:"department_code" db:"department_code"`
	FirstName      string  `json:"first_name" db:"first_name"`
	LastName       string  `json:"last_name" db:"last_name"`
	Surname        *string `json:"surname" db:"surname"`
	Gender         Gender  `json:"gender" db:"gender"`
	DateOfBirth    Date    `json:"date_of_birth" db:"date_of_birth"`
	BirthAddress   string  `json:"birth_address" db:"birth_address"`
}

// InsuranceCompany is a shared lookup entity, deduplicated by name.
type InsuranceCompany struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type InsurancePolicy struct {
	ID          int64            `json:"id" db:"id"`
	Number      int64            `json:"number" db:"number"`
	DateCreated Date             `json:"date_created" db:"date_created"`
	DateExpires Date             `json:"date_expires" db:"date_expires"`
	CompanyID   int64            `json:"-" db:"company_id"`
	Company     InsuranceCompany `json:"company" db:"company"`
}

type MedCard struct {
	ID          int64     `json:"id" db:"id"`
	DateCreated time.Time `json:"date_created" db:"date_created"`
	DateExpires time.Time `json:"date_expires" db:"date_expires"`
}

type Patient struct {
	ID                int64   `json:"id" db:"id"`
	FirstName         string  `json:"first_name" db:"first_name"`
	LastName          string  `json:"last_name" db:"last_name"`
	Surname           *string `json:"surname" db:"surname"`
	Gender            Gender  `json:"gender" db:"gender"`
	Address           string  `json:"address" db:"address"`
	Email             string  `json:"email" db:"email"`
	DateOfBirth       Date    `json:"date_of_birth" db:"date_of_birth"`
	PassportID        int64   `json:"-" db:"passport_id"`
	InsurancePolicyID int64   `json:"-" db:"insurance_policy_id"`
	MedCardID         int64   `json:"-" db:"med_card_id"`

	Passport        Passport        `json:"passport" db:"passport"`
	InsurancePolicy InsurancePolicy `json:"insurance_policy" db:"insurance_policy"`
	MedCard         MedCard         `json:"med_card" db:"med_card"`
}

type CompanyRef struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

type CreatePassportRequest struct {
	SeriesNumber   int64   `json:"series_number" binding:"required,min=1"`
	IssuedBy       string  `json:"issued_by" binding:"required,max=100"`
	IssuedDate     Date    `json:"issued_date" binding:"required"`
	DepartmentCode int     `json:"department_code" binding:"required"`
	FirstName      string  `json:"first_name" binding:"required,max=100"`
	LastName       string  `json:"last_name" binding:"required,max=100"`
	Surname        *string `json:"surname" binding:"omitempty,max=100"`
	Gender         Gender  `json:"gender" binding:"required"`
	DateOfBirth    Date    `json:"date_of_birth" binding:"required"`
	BirthAddress   string  `json:"birth_address" binding:"required"`
}

type CreateInsurancePolicyRequest struct {
	Number      int64      `json:"number" binding:"required,min=1"`
	DateCreated Date       `json:"date_created" binding:"required"`
	DateExpires Date       `json:"date_expires" binding:"required"`
	Company     CompanyRef `json:"company" binding:"required"`
}

// CreatePatientRequest is the nested payload of POST /patients/create/.
// The whole graph (company find-or-create, fresh passport, policy and
// med card, then the patient) is materialized in a single transaction.
type CreatePatientRequest struct {
	FirstName       string                       `json:"first_name" binding:"required,max=50"`
	LastName        string                       `json:"last_name" binding:"required,max=50"`
	Surname         *string                      `json:"surname" binding:"omitempty,max=50"`
	Gender          Gender                       `json:"gender" binding:"required"`
	Address         string                       `json:"address" binding:"required"`
	Email           string                       `json:"email" binding:"required,email,max=250"`
	DateOfBirth     Date                         `json:"date_of_birth" binding:"required"`
	Passport        CreatePassportRequest        `json:"passport" binding:"required"`
	InsurancePolicy CreateInsurancePolicyRequest `json:"insurance_policy" binding:"required"`
}

// PatientPatch updates only the fields present in the payload.
type PatientPatch struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=50"`
	LastName    *string `json:"last_name" binding:"omitempty,max=50"`
	Surname     *string `json:"surname" binding:"omitempty,max=50"`
	Gender      *Gender `json:"gender"`
	Address     *string `json:"address"`
	Email       *string `json:"email" binding:"omitempty,email,max=250"`
	DateOfBirth *Date   `json:"date_of_birth"`
}

func (p *PatientPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Surname == nil &&
		p.Gender == nil && p.Address == nil && p.Email == nil && p.DateOfBirth == nil
}

// PatientFilters are the optional query params of GET /patients/.
type PatientFilters struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Surname   string `form:"surname"`
	Gender    Gender `form:"gender"`
	Address   string `form:"address"`
	Email     string `form:"email"`
	MedCardID *int64 `form:"med_card"`
}
