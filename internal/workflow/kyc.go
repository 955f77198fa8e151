package workflow

import (
	"strings"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/models"
)

// MissingKycLabels lists the required KYC labels absent from labels, in fixed order.
func MissingKycLabels(labels []string) []string {
	present := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		present[l] = struct{}{}
	}

	var missing []string
	for _, required := range models.RequiredKycLabels {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	return missing
}

// CheckKycDocs fails with a field error on kycDocs when a required document is missing.
func CheckKycDocs(labels []string) error {
	missing := MissingKycLabels(labels)
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewFieldError("kycDocs", "Missing: "+strings.Join(missing, ", "))
}
