package deleteadmin

import "loan-broker/internal/models"

type Input struct {
	Actor   *models.CurrentUser
	AdminID int64
}

type Output struct {
	UserID     int64  `json:"userId"`
	RedirectTo string `json:"redirectTo"`
}
