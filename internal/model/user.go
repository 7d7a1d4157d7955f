package model

import "time"

// Speciality is a doctor's medical speciality, deduplicated by name.
type Speciality struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// User is a doctor account.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Surname      *string    `json:"surname" db:"surname"`
	Photo        string     `json:"photo" db:"photo"`
	SpecialityID int64      `json:"speciality_id" db:"speciality_id"`
	Speciality   string     `json:"speciality" db:"speciality"`
	DateJoined   time.Time  `json:"date_joined" db:"date_joined"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
}

type SpecialityRef struct {
	Name string `json:"name" binding:"required,min=1,max=128"`
}

type RegisterRequest struct {
	Username   string        `json:"username" binding:"required,min=3,max=50"`
	Password   string        `json:"password" binding:"required,min=8"`
	Email      string        `json:"email" binding:"required,email,max=100"`
	FirstName  string        `json:"first_name" binding:"required,max=50"`
	LastName   string        `json:"last_name" binding:"required,max=50"`
	Surname    *string       `json:"surname" binding:"omitempty,max=50"`
	Speciality SpecialityRef `json:"speciality" binding:"required"`
}

// LoginRequest is the form-encoded credential pair of POST /users/token/.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse mirrors the OAuth2 password-flow response shape the
// frontend expects, with the user embedded.
type TokenResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UserPatch updates only the fields present in the payload.
type UserPatch struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=50"`
	LastName  *string `json:"last_name" binding:"omitempty,max=50"`
	Surname   *string `json:"surname" binding:"omitempty,max=50"`
}

func (p *UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Surname == nil
}

// DoctorFilters are the optional query params of GET /doctors/.
// Text fields match by substring, absent fields add no constraint.
type DoctorFilters struct {
	Username   string `form:"username"`
	FirstName  string `form:"first_name"`
	LastName   string `form:"last_name"`
	Surname    string `form:"surname"`
	Speciality string `form:"speciality"`
}
