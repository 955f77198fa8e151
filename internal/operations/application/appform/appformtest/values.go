// Package appformtest provides form fixtures for the application operations.
package appformtest

import "net/url"

// Values returns a complete, valid application form for lender 1.
func Values() url.Values {
	return url.Values{
		"selectedLenderId":      {"1"},
		"moreDetail":            {""},
		"bank":                  {"First Bank"},
		"bankBranch":            {"Main"},
		"accNumber":             {"0012345"},
		"accName":               {"You Applicant"},
		"loanPurpose":           {"School fees"},
		"amtRequired":           {"5000.50"},
		"repaymentPeriod":       {"3"},
		"title":                 {"Mx"},
		"fullName":              {"You Applicant"},
		"DOB":                   {"1990-05-01"},
		"nationalID":            {"63-123456-A-00"},
		"phoneNumber":           {"+263771000000"},
		"resAddress":            {"1 Main Road"},
		"natureOfRes":           {"Rented"},
		"fullMaidenNames":       {""},
		"fullNameOfSpouse":      {""},
		"maritalStatus":         {"Single"},
		"profession":            {"Teacher"},
		"employer":              {"Ministry of Education"},
		"employedSince":         {"2015-01-01"},
		"grossIncome":           {"1200"},
		"netIncome":             {"950"},
		"firstNokFullName":      {"Kin One"},
		"firstNokRelationship":  {"Sibling"},
		"firstNokEmployer":      {"Self"},
		"firstNokResAddress":    {"2 Road"},
		"firstNokPhoneNumber":   {"+2637711"},
		"secondNokFullName":     {"Kin Two"},
		"secondNokRelationship": {"Parent"},
		"secondNokEmployer":     {"Retired"},
		"secondNokResAddress":   {"3 Road"},
		"secondNokPhoneNumber":  {"+2637722"},
		"kycDocs":               {`[{"label":"National-ID/Passport","publicId":"a"},{"label":"Proof Of Residence","publicId":"b"},{"label":"Pay Slip","publicId":"c"}]`},
	}
}
