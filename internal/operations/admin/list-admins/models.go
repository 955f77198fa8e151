package listadmins

import "loan-broker/internal/models"

type Input struct {
	Actor *models.CurrentUser
}

type Output struct {
	Admins []models.User `json:"admins"`
}
