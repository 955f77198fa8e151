package editapplication

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor         *models.CurrentUser
	ApplicationID int64
	Form          validation.Values
}

type Output struct {
	ApplicationID int64  `json:"applicationId"`
	RedirectTo    string `json:"redirectTo"`
}
