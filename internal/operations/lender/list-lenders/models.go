package listlenders

import "loan-broker/internal/models"

type Input struct {
	Actor *models.CurrentUser
}

type Output struct {
	Lenders []models.LenderSummary `json:"lenders"`
}
