package submitapplication

import (
	"loan-broker/internal/common/auth"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Actor *models.CurrentUser // nil for visitors, who sign up as part of applying
	Form  validation.Values
}

type Output struct {
	ApplicationID int64  `json:"applicationId"`
	ApplicantID   int64  `json:"applicantId"`
	RedirectTo    string `json:"redirectTo"`

	// Session is set when the application created a new applicant account.
	Session *auth.Session `json:"-"`
}
