package viewapplication

import "loan-broker/internal/models"

type Input struct {
	Actor         *models.CurrentUser
	ApplicationID int64
}

// Permissions tells the page which actions the viewer may take.
type Permissions struct {
	CanDecide  bool `json:"canDecide"`
	CanEdit    bool `json:"canEdit"`
	CanDelete  bool `json:"canDelete"`
	CanForward bool `json:"canForward"`
}

type Output struct {
	Application *models.ApplicationDetail `json:"application"`
	Permissions Permissions               `json:"permissions"`
}
