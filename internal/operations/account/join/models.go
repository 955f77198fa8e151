package join

import (
	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser
	Form  validation.Values
}

type Output struct {
	UserID     int64         `json:"userId"`
	RedirectTo string        `json:"redirectTo"`
	Session    *auth.Session `json:"-"`
}
