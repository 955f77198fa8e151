package viewlender

import "loan-broker/internal/models"

type Input struct {
	Actor    *models.CurrentUser
	LenderID int64
}

type Output struct {
	Lender *models.LenderDetail `json:"lender"`
}
