package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/cardvault/internal/errors"
)

func TestUserPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{name: "valid", password: "Card0wner!"},
		{name: "valid with symbols only at the end", password: "Vault2026#"},
		{name: "too short", password: "Ca0!x", errMsg: "at least 8 characters"},
		{name: "missing uppercase", password: "card0wner!", errMsg: "uppercase letter"},
		{name: "missing lowercase", password: "CARD0WNER!", errMsg: "lowercase letter"},
		{name: "missing number", password: "CardOwner!", errMsg: "number"},
		{name: "missing special char", password: "Card0wner1", errMsg: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UserPassword.Validate(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.Error(t, UserPassword.Validate(42))
}

func TestPasswordStrength_LengthOnly(t *testing.T) {
	rule := PasswordStrength{MinLength: 10}

	assert.NoError(t, rule.Validate("cardholder"))
	assert.Error(t, rule.Validate("holder"))
}

func TestEmail(t *testing.T) {
	valid := []string{"owner@example.com", "card.owner+vault@bank.co.uk", "a_b-c@sub.example.org"}
	for _, email := range valid {
		assert.NoError(t, validation.Validate(email, Email), email)
	}

	invalid := []string{"owner", "owner@", "@example.com", "owner@example", "owner @example.com"}
	for _, email := range invalid {
		assert.Error(t, validation.Validate(email, Email), email)
	}
}

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{input: "john.doe", valid: true},
		{input: "John Doe", valid: true},
		{input: " john", valid: false},
		{input: "john ", valid: false},
		{input: "\tjohn\n", valid: false},
	}

	for _, tt := range tests {
		err := NoWhitespace.Validate(tt.input)
		if tt.valid {
			assert.NoError(t, err, "%q", tt.input)
		} else {
			assert.Error(t, err, "%q", tt.input)
		}
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("JOHN DOE"))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestUsername(t *testing.T) {
	assert.NoError(t, validation.Validate("john.doe-1_a", Username))
	assert.Error(t, validation.Validate("john doe", Username))
	assert.Error(t, validation.Validate("john@doe", Username))
}

func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(validation.Errors{"owner": validation.ErrRequired})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "owner")
}
