package listapplications

import "loan-broker/internal/models"

type Input struct {
	Actor *models.CurrentUser
}

type Output struct {
	Applications []models.ApplicationSummary `json:"applications"`
}
