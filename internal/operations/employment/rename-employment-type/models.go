package renameemploymenttype

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor            *models.CurrentUser
	EmploymentTypeID int64
	Form             validation.Values
}

type Fields struct {
	NewValue string `json:"newValue"`
}

type Output struct {
	EmploymentTypeID int64  `json:"employmentTypeId"`
	RedirectTo       string `json:"redirectTo"`
}
