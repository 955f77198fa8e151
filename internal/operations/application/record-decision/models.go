package recorddecision

import (
	"loan-broker/internal/models"
)

type Input struct {
	Actor         *models.CurrentUser
	ApplicationID int64
	Decision      models.ApplicationState
	Comment       string
}

type Output struct {
	DecisionID   int64                   `json:"decisionId"`
	ChannelID    int64                   `json:"channelId"`
	Decision     models.ApplicationState `json:"decision"`
	Overall      models.ApplicationState `json:"overall"`
	Notification string                  `json:"notification,omitempty"`
	RedirectTo   string                  `json:"redirectTo"`
}
