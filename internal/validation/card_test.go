package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
)

func TestCardNumberRules(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "visa test number", input: "4111111111111111", shouldErr: false},
		{name: "amex test number", input: "378282246310005", shouldErr: false},
		{name: "thirteen digits", input: "4222222222222", shouldErr: false},
		{name: "nineteen digits", input: "4000000000000000006", shouldErr: false},
		{name: "nineteen digits bad check digit", input: "6011000990139424000", shouldErr: true},
		{name: "bad check digit", input: "4111111111111112", shouldErr: true},
		{name: "too short", input: "42", shouldErr: true},
		{name: "too long", input: "41111111111111111111", shouldErr: true},
		{name: "not digits", input: "4111-1111-1111-1111", shouldErr: true},
		{name: "empty is skipped", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.input, CardNumberRules()...)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLuhnValid(t *testing.T) {
	assert.True(t, luhnValid("79927398713"))
	assert.True(t, luhnValid("1234123412341238"))
	assert.False(t, luhnValid("1234123412341234"))
	assert.False(t, luhnValid("79927398710"))
	assert.False(t, luhnValid("7992x398713"))
}

func TestExpireMonthRules(t *testing.T) {
	for _, ok := range []string{"1", "01", "9", "12"} {
		assert.NoError(t, validation.Validate(ok, ExpireMonthRules()...), ok)
	}
	for _, bad := range []string{"0", "00", "13", "001", "1a"} {
		assert.Error(t, validation.Validate(bad, ExpireMonthRules()...), bad)
	}
}

func TestExpireYearRules(t *testing.T) {
	assert.NoError(t, validation.Validate("2030", ExpireYearRules()...))
	assert.Error(t, validation.Validate("30", ExpireYearRules()...))
	assert.Error(t, validation.Validate("20301", ExpireYearRules()...))
}

func TestCCVRules(t *testing.T) {
	assert.NoError(t, validation.Validate("123", CCVRules()...))
	assert.NoError(t, validation.Validate("1234", CCVRules()...))
	assert.Error(t, validation.Validate("12", CCVRules()...))
	assert.Error(t, validation.Validate("12345", CCVRules()...))
}
