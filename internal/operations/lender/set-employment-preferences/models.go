package setemploymentpreferences

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor    *models.CurrentUser
	LenderID int64
	Form     validation.Values
}

type Fields struct {
	EmploymentTypes []int64 `json:"employmentTypes"`
}

type Output struct {
	LenderID        int64   `json:"lenderId"`
	EmploymentTypes []int64 `json:"employmentTypes"`
	RedirectTo      string  `json:"redirectTo"`
}
