package changeadminpassword

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
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type Output struct {
	UserID     int64  `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}
