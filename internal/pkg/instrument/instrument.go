package instrument

import (
	"errors"
	"strings"
)

// SourceType identifies the kind of funding instrument
type SourceType string

const (
	SourceCard SourceType = "card"
	SourceBank SourceType = "bank"
)

// Card number length window covering the major networks
// (15-digit Amex through 19-digit Maestro)
const (
	minCardDigits = 13
	maxCardDigits = 19
)

var (
	// ErrInvalidCardNumber covers both a failed Luhn checksum and an
	// out-of-range length; the two causes are not distinguished to callers.
	ErrInvalidCardNumber = errors.New("card number failed checksum or length validation")

	ErrRoutingNumberRequired = errors.New("routing number is required for bank transfers")
	ErrUnknownSourceType     = errors.New("unknown funding source type")
)

// FundingSource describes where deposited money comes from
type FundingSource struct {
	Type          SourceType `json:"type"`
	AccountNumber string     `json:"account_number"`
	RoutingNumber string     `json:"routing_number,omitempty"`
}

// Validate checks a funding source's instrument data. It is a pure function
// of its input and never touches storage.
func Validate(src FundingSource) error {
	switch src.Type {
	case SourceCard:
		if !validCardNumber(src.AccountNumber) {
			return ErrInvalidCardNumber
		}
		return nil
	case SourceBank:
		if strings.TrimSpace(src.RoutingNumber) == "" {
			return ErrRoutingNumberRequired
		}
		return nil
	default:
		return ErrUnknownSourceType
	}
}

func validCardNumber(cardNumber string) bool {
	digits := sanitizeDigits(cardNumber)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits {
		return false
	}
	return validLuhn(digits)
}

// validLuhn runs the mod-10 checksum: from the rightmost digit, double every
// second digit, subtract 9 when the doubled value exceeds 9, and require the
// total to be divisible by 10.
func validLuhn(digits string) bool {
	if digits == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
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

func sanitizeDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
