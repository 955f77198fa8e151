package listemploymenttypes

import "loan-broker/internal/models"

type Input struct {
	Actor *models.CurrentUser
}

type Output struct {
	EmploymentTypes []models.EmploymentType `json:"employmentTypes"`
}
