package login

import (
	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Form validation.Values
}

type Fields struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
	Remember     bool   `json:"remember"`
	RedirectTo   string `json:"redirectTo"`
}

type Output struct {
	UserID     int64           `json:"userId"`
	Kind       models.UserKind `json:"kind"`
	RedirectTo string          `json:"redirectTo"`
	Session    *auth.Session   `json:"-"`
}
