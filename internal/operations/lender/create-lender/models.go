package createlender

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser
	Form  validation.Values
}

type Output struct {
	LenderID   int64  `json:"lenderId"`
	UserID     int64  `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}
