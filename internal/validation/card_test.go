package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardNumber(t *testing.T) {
	valid := []string{"1234567890123456", "4111 1111 1111 1111", "123456789012", "1234567890123456789"}
	for _, number := range valid {
		assert.NoError(t, validation.Validate(number, CardNumber), number)
	}

	invalid := []string{"12345678901", "12345678901234567890", "4111-1111-1111-1111", "4111abcd11111111"}
	for _, number := range invalid {
		assert.Error(t, validation.Validate(number, CardNumber), number)
	}
}

func TestDate(t *testing.T) {
	assert.NoError(t, validation.Validate("2028-12-31", Date))
	assert.Error(t, validation.Validate("31/12/2028", Date))
	assert.Error(t, validation.Validate("2028-02-30", Date))
}

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		rule   Money
		value  string
		errMsg string
	}{
		{name: "positive integer", rule: Money{}, value: "200"},
		{name: "two decimals", rule: Money{}, value: "0.01"},
		{name: "empty is left to Required", rule: Money{}, value: ""},
		{name: "zero rejected", rule: Money{}, value: "0.00", errMsg: "must be greater than 0"},
		{name: "negative rejected", rule: Money{}, value: "-5", errMsg: "must be greater than 0"},
		{name: "zero allowed", rule: Money{AllowZero: true}, value: "0"},
		{name: "negative balance", rule: Money{AllowZero: true}, value: "-0.01", errMsg: "must not be negative"},
		{name: "three decimals", rule: Money{}, value: "1.001", errMsg: "at most 2 decimal places"},
		{name: "not a number", rule: Money{}, value: "ten", errMsg: "must be a decimal number"},
		{name: "exponent", rule: Money{}, value: "1e3", errMsg: "must be a decimal number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate(tt.value)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("non string", func(t *testing.T) {
		assert.Error(t, Money{}.Validate(10))
	})
}

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney(" 800.5 ")
	require.NoError(t, err)
	assert.Equal(t, "800.50", d.StringFixed(2))

	_, err = ParseMoney("1E2")
	assert.Error(t, err)
}

func TestUUID(t *testing.T) {
	assert.NoError(t, UUID.Validate("0195c8a4-6b3e-7c2a-9f10-2f6d8c1e4a55"))
	assert.NoError(t, UUID.Validate(""))
	assert.Error(t, UUID.Validate("not-a-uuid"))
}
