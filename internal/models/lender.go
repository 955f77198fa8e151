package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Lender struct {
	ID              int64           `json:"id" db:"id"`
	UserID          int64           `json:"userId" db:"user_id"`
	FullName        string          `json:"fullName"`
	EmailAddress    string          `json:"emailAddress"`
	Logo            string          `json:"logo" db:"logo"`
	LogoPublicID    string          `json:"logoPublicId" db:"logo_public_id"`
	LogoWidth       int             `json:"logoWidth" db:"logo_width"`
	LogoHeight      int             `json:"logoHeight" db:"logo_height"`
	MinTenure       int             `json:"minTenure" db:"min_tenure"`
	MaxTenure       int             `json:"maxTenure" db:"max_tenure"`
	MinAmount       decimal.Decimal `json:"minAmount" db:"min_amount"`
	MaxAmount       decimal.Decimal `json:"maxAmount" db:"max_amount"`
	MonthlyInterest decimal.Decimal `json:"monthlyInterest" db:"monthly_interest"`
	AdminFee        decimal.Decimal `json:"adminFee" db:"admin_fee"`
	ApplicationFee  decimal.Decimal `json:"applicationFee" db:"application_fee"`
	Paid            bool            `json:"paid" db:"paid"`
	Deactivated     bool            `json:"deactivated" db:"deactivated"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// LenderSummary is a lender row in listings and the public search.
type LenderSummary struct {
	Lender
	NumChannels     int      `json:"numChannels"`
	EmploymentTypes []string `json:"employmentTypes"`
}

// LenderDetail is the admin view of a single lender.
type LenderDetail struct {
	Lender
	Preferences []EmploymentPreference `json:"preferences"`
	Channels    []Channel              `json:"channels"`
}
