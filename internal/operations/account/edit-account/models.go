package editaccount

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser
	Form  validation.Values
}

type Fields struct {
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
}

type Output struct {
	User       *models.CurrentUser `json:"user"`
	RedirectTo string              `json:"redirectTo"`
}
