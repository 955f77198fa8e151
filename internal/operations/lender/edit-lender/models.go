package editlender

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor    *models.CurrentUser
	LenderID int64
	Form     validation.Values
}

type Output struct {
	Lender     *models.Lender `json:"lender"`
	RedirectTo string         `json:"redirectTo"`
}
