package searchapplications

import (
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
	"loan-broker/internal/search"
)

type Input struct {
	Actor *models.CurrentUser
	Query validation.Values
}

type Fields struct {
	Q    string `json:"q"`
	From int    `json:"from"`
	Size int    `json:"size"`
}

type Output struct {
	Query string       `json:"q"`
	From  int          `json:"from"`
	Size  int          `json:"size"`
	Total int64        `json:"total"`
	Hits  []search.Hit `json:"hits"`
}
