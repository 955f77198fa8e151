package deactivatelender

import "loan-broker/internal/models"

type Input struct {
	Actor    *models.CurrentUser
	LenderID int64
}

type Output struct {
	LenderID   int64  `json:"lenderId"`
	RedirectTo string `json:"redirectTo"`
}
