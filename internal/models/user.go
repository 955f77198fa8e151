package models

import "time"

type UserKind string

const (
	KindAdmin     UserKind = "Admin"
	KindLender    UserKind = "Lender"
	KindApplicant UserKind = "Applicant"
)

func (k UserKind) Valid() bool {
	switch k {
	case KindAdmin, KindLender, KindApplicant:
		return true
	}
	return false
}

type User struct {
	ID             int64     `json:"id" db:"id"`
	EmailAddress   string    `json:"emailAddress" db:"email_address"`
	FullName       string    `json:"fullName" db:"full_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Kind           UserKind  `json:"kind" db:"kind"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// CurrentUser is the actor resolved from a session. LenderID is set only for lenders
// that have a lender record.
type CurrentUser struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"fullName"`
	EmailAddress string   `json:"emailAddress"`
	Kind         UserKind `json:"kind"`
	LenderID     int64    `json:"lenderId,omitempty"`
}
