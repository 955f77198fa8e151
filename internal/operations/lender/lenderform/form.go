// Package lenderform holds the lender form shared by create-lender and edit-lender.
package lenderform

import (
	"github.com/shopspring/decimal"

	apperrors "loan-broker/internal/common/errors"
	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

const (
	MsgTenureRange = "Must not be less than the minimum tenure"
	MsgAmountRange = "Must not be less than the minimum amount"
)

// Fields is the decoded lender form. Password fields are only present on create.
type Fields struct {
	FullName             string          `json:"fullName"`
	EmailAddress         string          `json:"emailAddress"`
	Password             string          `json:"password"`
	PasswordConfirmation string          `json:"passwordConfirmation"`
	Logo                 string          `json:"logo"`
	LogoPublicID         string          `json:"logoPublicId"`
	LogoWidth            int             `json:"logoWidth"`
	LogoHeight           int             `json:"logoHeight"`
	MinTenure            int             `json:"minTenure"`
	MaxTenure            int             `json:"maxTenure"`
	MinAmount            decimal.Decimal `json:"minAmount"`
	MaxAmount            decimal.Decimal `json:"maxAmount"`
	MonthlyInterest      decimal.Decimal `json:"monthlyInterest"`
	AdminFee             decimal.Decimal `json:"adminFee"`
	ApplicationFee       decimal.Decimal `json:"applicationFee"`
}

func Form(withPassword bool) validation.Form {
	f := validation.Form{
		"fullName":        {Kind: validation.KindString},
		"emailAddress":    {Kind: validation.KindLowerString},
		"logo":            {Kind: validation.KindString, Optional: true},
		"logoPublicId":    {Kind: validation.KindString},
		"logoWidth":       {Kind: validation.KindInteger, Optional: true},
		"logoHeight":      {Kind: validation.KindInteger, Optional: true},
		"minTenure":       {Kind: validation.KindInteger},
		"maxTenure":       {Kind: validation.KindInteger},
		"minAmount":       {Kind: validation.KindDecimal},
		"maxAmount":       {Kind: validation.KindDecimal},
		"monthlyInterest": {Kind: validation.KindDecimal},
		"adminFee":        {Kind: validation.KindDecimal},
		"applicationFee":  {Kind: validation.KindDecimal},
	}
	if withPassword {
		f["password"] = validation.Field{Kind: validation.KindString}
		f["passwordConfirmation"] = validation.Field{Kind: validation.KindString}
	}
	return f
}

func Schema(withPassword bool) validation.JSONSchema {
	props := map[string]validation.Property{
		"fullName":        validation.String(1, 50),
		"emailAddress":    validation.Email(),
		"logo":            validation.String(0, 0),
		"logoPublicId":    validation.String(1, 0),
		"logoWidth":       validation.Integer(0),
		"logoHeight":      validation.Integer(0),
		"minTenure":       validation.Integer(1),
		"maxTenure":       validation.Integer(1),
		"minAmount":       validation.Number(1),
		"maxAmount":       validation.Number(1),
		"monthlyInterest": validation.Number(0),
		"adminFee":        validation.Number(0),
		"applicationFee":  validation.Number(0),
	}
	required := []string{
		"fullName", "emailAddress", "logoPublicId", "minTenure", "maxTenure",
		"minAmount", "maxAmount", "monthlyInterest", "adminFee", "applicationFee",
	}
	if withPassword {
		props["password"] = validation.Password()
		props["passwordConfirmation"] = validation.Password()
		required = append(required, "password", "passwordConfirmation")
	}
	return validation.NewSchema(props, required...)
}

// Bind decodes and validates the lender form, including the range and password checks.
func Bind(values validation.Values, withPassword bool) (*Fields, error) {
	var f Fields
	if err := validation.Bind(values, Form(withPassword), Schema(withPassword), &f); err != nil {
		return nil, err
	}

	fieldErrs := make(map[string]string)
	if f.MaxTenure < f.MinTenure {
		fieldErrs["maxTenure"] = MsgTenureRange
	}
	if f.MaxAmount.LessThan(f.MinAmount) {
		fieldErrs["maxAmount"] = MsgAmountRange
	}
	if withPassword && f.Password != f.PasswordConfirmation {
		fieldErrs["passwordConfirmation"] = validation.MsgPasswordsDontMatch
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationError(fieldErrs)
	}
	return &f, nil
}

// Apply copies the form onto l, leaving ids and flags alone.
func (f *Fields) Apply(l *models.Lender) {
	l.FullName = f.FullName
	l.EmailAddress = f.EmailAddress
	l.Logo = f.Logo
	l.LogoPublicID = f.LogoPublicID
	l.LogoWidth = f.LogoWidth
	l.LogoHeight = f.LogoHeight
	l.MinTenure = f.MinTenure
	l.MaxTenure = f.MaxTenure
	l.MinAmount = f.MinAmount
	l.MaxAmount = f.MaxAmount
	l.MonthlyInterest = f.MonthlyInterest
	l.AdminFee = f.AdminFee
	l.ApplicationFee = f.ApplicationFee
}
