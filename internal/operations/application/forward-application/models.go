package forwardapplication

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor         *models.CurrentUser
	ApplicationID int64
	Form          validation.Values
}

type Fields struct {
	LenderIDs []int64 `json:"lenderIds"`
}

type Output struct {
	ApplicationID int64   `json:"applicationId"`
	LenderIDs     []int64 `json:"lenderIds"`
	Added         []int64 `json:"added"`
	Removed       []int64 `json:"removed"`
	RedirectTo    string  `json:"redirectTo"`
}
