// Package service provides the stateless card number masker and the per-card
// lock manager that serializes card mutations.
package service

import "strings"

const (
	maskChar      = "*"
	visibleDigits = 4
	maskGroupSize = 4
)

// digitsOf returns raw with every non-digit character removed.
func digitsOf(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mask returns the display form of a card number: every digit but the last four
// replaced by "*", in space-separated groups of four counted from the left, then
// the last four digits. Non-digit characters are ignored. Inputs with fewer than
// four digits are returned unchanged.
//
//	Mask("1234567890123456")    == "**** **** **** 3456"
//	Mask("1234 5678 9012 3456") == "**** **** **** 3456"
//	Mask("12345678901234567")   == "**** **** **** * 4567"
func Mask(raw string) string {
	digits := digitsOf(raw)
	if len(digits) < visibleDigits {
		return raw
	}

	masked := len(digits) - visibleDigits
	var b strings.Builder
	for pos := 0; pos < masked; pos += maskGroupSize {
		size := min(maskGroupSize, masked-pos)
		b.WriteString(strings.Repeat(maskChar, size))
		b.WriteByte(' ')
	}
	b.WriteString(digits[masked:])

	return b.String()
}

// LastFour returns the last four digits of raw, or every digit when there are fewer.
func LastFour(raw string) string {
	digits := digitsOf(raw)
	if len(digits) < visibleDigits {
		return digits
	}
	return digits[len(digits)-visibleDigits:]
}
