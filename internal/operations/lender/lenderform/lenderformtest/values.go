// Package lenderformtest builds lender forms for handler tests.
package lenderformtest

import "net/url"

// Values is a valid edit-lender form for "First Lender" with the seed terms.
func Values() url.Values {
	return url.Values{
		"fullName":        {"First Lender"},
		"emailAddress":    {"Lender@Example.com"},
		"logoPublicId":    {"h2bkwgii1e28hltu7f99"},
		"minTenure":       {"1"},
		"maxTenure":       {"5"},
		"minAmount":       {"2000"},
		"maxAmount":       {"10000"},
		"monthlyInterest": {"5.75"},
		"adminFee":        {"2.5"},
		"applicationFee":  {"1.25"},
	}
}

// WithPassword is Values plus the password pair create-lender requires.
func WithPassword() url.Values {
	v := Values()
	v.Set("password", "jarnbjorn@8901")
	v.Set("passwordConfirmation", "jarnbjorn@8901")
	return v
}
