// Package workflow holds the application decision rules and the access matrix shared by
// every application operation.
package workflow

import "loan-broker/internal/models"

// DeriveApplicationDecision returns the overall state of an application from the
// decisions recorded on all of its channels. The latest decision wins; equal timestamps
// fall back to the highest id. No decisions means Pending.
func DeriveApplicationDecision(decisions []models.Decision) models.ApplicationState {
	if len(decisions) == 0 {
		return models.StatePending
	}

	latest := decisions[0]
	for _, d := range decisions[1:] {
		if d.CreatedAt.After(latest.CreatedAt) || (d.CreatedAt.Equal(latest.CreatedAt) && d.ID > latest.ID) {
			latest = d
		}
	}
	return latest.Decision
}

// IsDecision reports whether s is a verdict a lender may record.
func IsDecision(s models.ApplicationState) bool {
	return s == models.StateApproved || s == models.StateDeclined
}
