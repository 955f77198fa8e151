package changepassword

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser
	Form  validation.Values
}

type Fields struct {
	OldPassword          string `json:"oldPassword"`
	NewPassword          string `json:"newPassword"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type Output struct {
	UserID     int64  `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}
