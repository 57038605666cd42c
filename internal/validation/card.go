package validation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

// MaxAmountScale is the number of fractional digits allowed in money values.
const MaxAmountScale = 2

// CardNumber validates a card number: 12 to 19 digits, optionally grouped by spaces.
var CardNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		digits := 0
		for _, r := range s {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == ' ':
			default:
				return false
			}
		}
		return digits >= 12 && digits <= 19
	},
	validation.NewError("validation_card_number", "must contain 12 to 19 digits"),
)

// Date validates a YYYY-MM-DD calendar date.
var Date = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := time.Parse(DateLayout, s)
		return err == nil
	},
	validation.NewError("validation_date", "must be a date in YYYY-MM-DD format"),
)

// Money validates a decimal string with at most two fractional digits.
// AllowZero accepts "0" and "0.00", as opening balances do.
type Money struct {
	AllowZero bool
}

// Validate implements validation.Rule.
func (m Money) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_money_type", "must be a string")
	}
	if s == "" {
		return nil
	}

	d, err := ParseMoney(s)
	if err != nil {
		return validation.NewError("validation_money", "must be a decimal number")
	}
	if -d.Exponent() > MaxAmountScale {
		return validation.NewError("validation_money_scale", "must have at most 2 decimal places")
	}
	if d.IsNegative() || (!m.AllowZero && d.IsZero()) {
		if m.AllowZero {
			return validation.NewError("validation_money_negative", "must not be negative")
		}
		return validation.NewError("validation_money_positive", "must be greater than 0")
	}
	return nil
}

// ParseMoney parses a money string. Exponent notation is rejected.
func ParseMoney(s string) (decimal.Decimal, error) {
	if strings.ContainsAny(s, "eE") {
		return decimal.Decimal{}, errInvalidMoney
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

var errInvalidMoney = validation.NewError("validation_money", "must be a decimal number")

// UUID validates a textual UUID.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)
