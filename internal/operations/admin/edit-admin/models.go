package editadmin

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor   *models.CurrentUser
	AdminID int64
	Form    validation.Values
}

type Fields struct {
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
}

type Output struct {
	UserID     int64  `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}
