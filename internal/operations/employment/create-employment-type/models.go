package createemploymenttype

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser
	Form  validation.Values
}

type Fields struct {
	NewEntry string `json:"newEntry"`
}

type Output struct {
	EmploymentType *models.EmploymentType `json:"employmentType"`
	RedirectTo     string                 `json:"redirectTo"`
}
