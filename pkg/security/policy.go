package security

import "unicode"

// PasswordPolicyErrors lists every rule the candidate password violated.
type PasswordPolicyErrors []string

func (e PasswordPolicyErrors) OK() bool {
	return len(e) == 0
}

// CheckPasswordPolicy enforces the storefront password rules: at least eight
// characters with one uppercase letter, one lowercase letter and one digit.
func CheckPasswordPolicy(password string) PasswordPolicyErrors {
	var errs PasswordPolicyErrors
	if password == "" {
		return PasswordPolicyErrors{"password is required"}
	}
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters long")
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !lower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !digit {
		errs = append(errs, "password must contain at least one number")
	}
	return errs
}
