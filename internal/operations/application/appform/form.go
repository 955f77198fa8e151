// Package appform holds the application form shared by submit and edit: its coercion
// rules, its schema and the conversion into store models.
package appform

import (
	"fmt"

	"github.com/shopspring/decimal"

	"loan-broker/internal/common/validation"
	"loan-broker/internal/models"
)

type KycDocInput struct {
	Label    string `json:"label"`
	PublicID string `json:"publicId"`
}

type PriorLoanInput struct {
	Lender           string          `json:"lender"`
	ExpiryDate       string          `json:"expiryDate"`
	Amount           decimal.Decimal `json:"amount"`
	MonthlyRepayment decimal.Decimal `json:"monthlyRepayment"`
	Balance          decimal.Decimal `json:"balance"`
}

// Fields is the decoded application form.
type Fields struct {
	Signup *validation.Account `json:"signup,omitempty"`

	SelectedLenderID int64  `json:"selectedLenderId"`
	MoreDetail       string `json:"moreDetail"`

	Bank       string `json:"bank"`
	BankBranch string `json:"bankBranch"`
	AccNumber  string `json:"accNumber"`
	AccName    string `json:"accName"`

	LoanPurpose     string          `json:"loanPurpose"`
	AmtRequired     decimal.Decimal `json:"amtRequired"`
	RepaymentPeriod int             `json:"repaymentPeriod"`

	Title       string `json:"title"`
	FullName    string `json:"fullName"`
	DOB         string `json:"DOB"`
	NationalID  string `json:"nationalID"`
	PhoneNumber string `json:"phoneNumber"`
	ResAddress  string `json:"resAddress"`
	NatureOfRes string `json:"natureOfRes"`

	FullMaidenNames  string `json:"fullMaidenNames"`
	FullNameOfSpouse string `json:"fullNameOfSpouse"`
	MaritalStatus    string `json:"maritalStatus"`

	Profession    string          `json:"profession"`
	Employer      string          `json:"employer"`
	EmployedSince string          `json:"employedSince"`
	GrossIncome   decimal.Decimal `json:"grossIncome"`
	NetIncome     decimal.Decimal `json:"netIncome"`

	FirstNokFullName     string `json:"firstNokFullName"`
	FirstNokRelationship string `json:"firstNokRelationship"`
	FirstNokEmployer     string `json:"firstNokEmployer"`
	FirstNokResAddress   string `json:"firstNokResAddress"`
	FirstNokPhoneNumber  string `json:"firstNokPhoneNumber"`

	SecondNokFullName     string `json:"secondNokFullName"`
	SecondNokRelationship string `json:"secondNokRelationship"`
	SecondNokEmployer     string `json:"secondNokEmployer"`
	SecondNokResAddress   string `json:"secondNokResAddress"`
	SecondNokPhoneNumber  string `json:"secondNokPhoneNumber"`

	KycDocs   []KycDocInput   `json:"kycDocs"`
	PriorLoan *PriorLoanInput `json:"priorLoan,omitempty"`
}

var plainFields = []string{
	"bank", "bankBranch", "accNumber", "accName", "loanPurpose",
	"title", "fullName", "nationalID", "phoneNumber", "resAddress", "natureOfRes",
	"fullMaidenNames", "fullNameOfSpouse", "maritalStatus", "profession", "employer",
	"firstNokFullName", "firstNokRelationship", "firstNokEmployer", "firstNokResAddress", "firstNokPhoneNumber",
	"secondNokFullName", "secondNokRelationship", "secondNokEmployer", "secondNokResAddress", "secondNokPhoneNumber",
	"moreDetail",
}

// Form returns the coercion rules for the application form.
func Form() validation.Form {
	f := validation.Form{
		"selectedLenderId": {Kind: validation.KindInteger},
		"amtRequired":      {Kind: validation.KindDecimal},
		"repaymentPeriod":  {Kind: validation.KindInteger},
		"DOB":              {Kind: validation.KindDate},
		"employedSince":    {Kind: validation.KindDate},
		"grossIncome":      {Kind: validation.KindDecimal},
		"netIncome":        {Kind: validation.KindDecimal},
		"kycDocs": {Kind: validation.KindJSON, Nested: map[string]validation.Kind{
			"label":    validation.KindString,
			"publicId": validation.KindString,
		}},
		"priorLoan": {Kind: validation.KindJSON, Optional: true, Nested: map[string]validation.Kind{
			"lender":           validation.KindString,
			"expiryDate":       validation.KindDate,
			"amount":           validation.KindDecimal,
			"monthlyRepayment": validation.KindDecimal,
			"balance":          validation.KindDecimal,
		}},
		"signup": {Kind: validation.KindJSON, Optional: true, Nested: map[string]validation.Kind{
			"fullName":             validation.KindString,
			"emailAddress":         validation.KindLowerString,
			"password":             validation.KindString,
			"passwordConfirmation": validation.KindString,
		}},
	}
	for _, name := range plainFields {
		f[name] = validation.Field{Kind: validation.KindString}
	}
	return f
}

// Schema returns the application form schema.
func Schema() validation.JSONSchema {
	s := validation.String
	props := map[string]validation.Property{
		"selectedLenderId": validation.PositiveInteger(),
		"moreDetail":       s(0, 800),

		"bank":       s(1, 100),
		"bankBranch": s(1, 200),
		"accNumber":  s(1, 20),
		"accName":    s(1, 200),

		"loanPurpose":     s(1, 300),
		"amtRequired":     validation.PositiveNumber(),
		"repaymentPeriod": validation.PositiveInteger(),

		"title":       s(1, 10),
		"fullName":    s(1, 100),
		"DOB":         validation.Date(),
		"nationalID":  s(1, 20),
		"phoneNumber": s(1, 20),
		"resAddress":  s(1, 300),
		"natureOfRes": s(1, 50),

		"fullMaidenNames":  s(0, 100),
		"fullNameOfSpouse": s(0, 100),
		"maritalStatus":    s(1, 20),

		"profession":    s(1, 100),
		"employer":      s(1, 100),
		"employedSince": validation.Date(),
		"grossIncome":   validation.PositiveNumber(),
		"netIncome":     validation.PositiveNumber(),

		"kycDocs": validation.ArrayOf(validation.Object(map[string]validation.Property{
			"label":    s(1, 100),
			"publicId": s(1, 500),
		}, "label", "publicId")),
		"priorLoan": validation.Object(map[string]validation.Property{
			"lender":           s(1, 100),
			"expiryDate":       validation.Date(),
			"amount":           validation.PositiveNumber(),
			"monthlyRepayment": validation.PositiveNumber(),
			"balance":          validation.PositiveNumber(),
		}, "lender", "expiryDate", "amount", "monthlyRepayment", "balance"),
		"signup": validation.Object(map[string]validation.Property{
			"fullName":             validation.FullName(),
			"emailAddress":         validation.Email(),
			"password":             validation.Password(),
			"passwordConfirmation": validation.Password(),
		}, "emailAddress", "password", "passwordConfirmation"),
	}

	for _, prefix := range []string{"firstNok", "secondNok"} {
		props[prefix+"FullName"] = s(1, 100)
		props[prefix+"Relationship"] = s(1, 100)
		props[prefix+"Employer"] = s(1, 100)
		props[prefix+"ResAddress"] = s(1, 200)
		props[prefix+"PhoneNumber"] = s(1, 20)
	}

	required := make([]string, 0, len(props))
	for name := range props {
		switch name {
		case "moreDetail", "fullMaidenNames", "fullNameOfSpouse", "priorLoan", "signup":
			continue
		}
		required = append(required, name)
	}
	return validation.NewSchema(props, required...)
}

// Bind validates raw form values into Fields.
func Bind(values validation.Values) (*Fields, error) {
	var f Fields
	if err := validation.Bind(values, Form(), Schema(), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// KycLabels returns the labels of the submitted documents.
func (f *Fields) KycLabels() []string {
	labels := make([]string, len(f.KycDocs))
	for i, d := range f.KycDocs {
		labels[i] = d.Label
	}
	return labels
}

// Application converts the fields into an application owned by applicantID.
func (f *Fields) Application(applicantID int64) (*models.Application, error) {
	dob, err := validation.ParseDate(f.DOB)
	if err != nil {
		return nil, fmt.Errorf("parse DOB: %w", err)
	}
	employedSince, err := validation.ParseDate(f.EmployedSince)
	if err != nil {
		return nil, fmt.Errorf("parse employedSince: %w", err)
	}

	return &models.Application{
		ApplicantID:      applicantID,
		MoreDetail:       f.MoreDetail,
		Bank:             f.Bank,
		BankBranch:       f.BankBranch,
		AccNumber:        f.AccNumber,
		AccName:          f.AccName,
		LoanPurpose:      f.LoanPurpose,
		AmtRequired:      f.AmtRequired,
		RepaymentPeriod:  f.RepaymentPeriod,
		Title:            f.Title,
		FullName:         f.FullName,
		DOB:              dob,
		NationalID:       f.NationalID,
		PhoneNumber:      f.PhoneNumber,
		ResAddress:       f.ResAddress,
		NatureOfRes:      f.NatureOfRes,
		FullMaidenNames:  f.FullMaidenNames,
		FullNameOfSpouse: f.FullNameOfSpouse,
		MaritalStatus:    f.MaritalStatus,
		Profession:       f.Profession,
		Employer:         f.Employer,
		EmployedSince:    employedSince,
		GrossIncome:      f.GrossIncome,
		NetIncome:        f.NetIncome,
		FirstNok: models.NextOfKin{
			FullName:     f.FirstNokFullName,
			Relationship: f.FirstNokRelationship,
			Employer:     f.FirstNokEmployer,
			ResAddress:   f.FirstNokResAddress,
			PhoneNumber:  f.FirstNokPhoneNumber,
		},
		SecondNok: models.NextOfKin{
			FullName:     f.SecondNokFullName,
			Relationship: f.SecondNokRelationship,
			Employer:     f.SecondNokEmployer,
			ResAddress:   f.SecondNokResAddress,
			PhoneNumber:  f.SecondNokPhoneNumber,
		},
	}, nil
}

func (f *Fields) Kyc() []models.KycDoc {
	docs := make([]models.KycDoc, len(f.KycDocs))
	for i, d := range f.KycDocs {
		docs[i] = models.KycDoc{Label: d.Label, PublicID: d.PublicID}
	}
	return docs
}

// Prior returns the prior loan, or nil when none was submitted.
func (f *Fields) Prior() (*models.PriorLoan, error) {
	if f.PriorLoan == nil {
		return nil, nil
	}
	expiry, err := validation.ParseDate(f.PriorLoan.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("parse priorLoan.expiryDate: %w", err)
	}
	return &models.PriorLoan{
		Lender:           f.PriorLoan.Lender,
		ExpiryDate:       expiry,
		Amount:           f.PriorLoan.Amount,
		MonthlyRepayment: f.PriorLoan.MonthlyRepayment,
		Balance:          f.PriorLoan.Balance,
	}, nil
}
