package models

import "time"

type EmploymentType struct {
	ID             int64     `json:"id" db:"id"`
	EmploymentType string    `json:"employmentType" db:"employment_type"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type EmploymentPreference struct {
	ID               int64  `json:"id" db:"id"`
	LenderID         int64  `json:"lenderId" db:"lender_id"`
	EmploymentTypeID int64  `json:"employmentTypeId" db:"employment_type_id"`
	EmploymentType   string `json:"employmentType"`
}
