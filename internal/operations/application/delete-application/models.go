package deleteapplication

import "loan-broker/internal/models"

type Input struct {
	Actor         *models.CurrentUser
	ApplicationID int64
}

type Output struct {
	ApplicationID int64  `json:"applicationId"`
	RedirectTo    string `json:"redirectTo"`
}
