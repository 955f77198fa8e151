package searchlenders

import (
	"github.com/shopspring/decimal"

	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type Input struct {
	Query validation.Values
}

type Filter struct {
	EmploymentTypeID int64           `json:"employmentTypeId,omitempty"`
	RequiredAmount   decimal.Decimal `json:"requiredAmount"`
	RepaymentPeriod  int             `json:"repaymentPeriod,omitempty"`
}

type Output struct {
	Filter          Filter                  `json:"filter"`
	Lenders         []models.LenderSummary  `json:"lenders"`
	EmploymentTypes []models.EmploymentType `json:"employmentTypes"`
}
