package validation

import (
	"strconv"

	validation "github.com/jellydator/validation"
)

// Luhn validates the mod-10 check digit of a card number. Empty strings pass so that
// Required decides whether the field is mandatory.
var Luhn = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == "" || luhnValid(s)
	},
	validation.NewError("validation_card_luhn", "must be a valid card number"),
)

// luhnValid reports whether s, a string of digits, passes the Luhn checksum.
func luhnValid(s string) bool {
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ExpireMonth validates a month between 1 and 12, with or without a leading zero.
var ExpireMonth = validation.NewStringRuleWithError(
	func(s string) bool {
		if s == "" {
			return true
		}
		n, err := strconv.Atoi(s)
		return err == nil && isDigits(s) && len(s) <= 2 && n >= 1 && n <= 12
	},
	validation.NewError("validation_expire_month", "must be a month between 1 and 12"),
)

// CardNumberRules returns the rules applied to a card number.
func CardNumberRules() []validation.Rule {
	return []validation.Rule{Digits, validation.Length(12, 19), Luhn}
}

// ExpireMonthRules returns the rules applied to an expiration month.
func ExpireMonthRules() []validation.Rule {
	return []validation.Rule{ExpireMonth}
}

// ExpireYearRules returns the rules applied to an expiration year.
func ExpireYearRules() []validation.Rule {
	return []validation.Rule{Digits, validation.Length(4, 4)}
}

// CCVRules returns the rules applied to a card security code.
func CCVRules() []validation.Rule {
	return []validation.Rule{Digits, validation.Length(3, 4)}
}
