package validation

import (
	apperrors "loan-broker/internal/common/errors"
)

// MsgPasswordsDontMatch is reported on passwordConfirmation.
const MsgPasswordsDontMatch = "Passwords don't match"

func FullName() Property {
	return String(3, 49)
}

func Password() Property {
	return String(4, 100)
}

// Account is the sign-up shape shared by join, create-admin and the apply sign-up step.
type Account struct {
	FullName             string `json:"fullName"`
	EmailAddress         string `json:"emailAddress"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// AccountForm coerces the Account fields.
var AccountForm = Form{
	"fullName":             {Kind: KindString},
	"emailAddress":         {Kind: KindLowerString},
	"password":             {Kind: KindString},
	"passwordConfirmation": {Kind: KindString},
}

func AccountSchema() JSONSchema {
	return NewSchema(AccountProperties(),
		"fullName", "emailAddress", "password", "passwordConfirmation")
}

func AccountProperties() map[string]Property {
	return map[string]Property{
		"fullName":             FullName(),
		"emailAddress":         Email(),
		"password":             Password(),
		"passwordConfirmation": Password(),
	}
}

// CheckPasswords fails with a field error when the confirmation differs.
func CheckPasswords(password, confirmation string) error {
	if password != confirmation {
		return apperrors.NewFieldError("passwordConfirmation", MsgPasswordsDontMatch)
	}
	return nil
}

func (a Account) CheckPasswords() error {
	return CheckPasswords(a.Password, a.PasswordConfirmation)
}
