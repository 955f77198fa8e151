package deleteemploymenttype

import "loan-broker/internal/models"

type Input struct {
	Actor            *models.CurrentUser
	EmploymentTypeID int64
}

type Output struct {
	EmploymentTypeID int64  `json:"employmentTypeId"`
	RedirectTo       string `json:"redirectTo"`
}
