package changelenderpassword

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor    *models.CurrentUser
	LenderID int64
	Form     validation.Values
}

type Fields struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type Output struct {
	LenderID   int64  `json:"lenderId"`
	RedirectTo string `json:"redirectTo"`
}
