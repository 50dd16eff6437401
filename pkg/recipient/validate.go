package recipient

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
)

const (
	MinPhoneDigits = 8
	MaxPhoneDigits = 15
)

var (
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNameRequired       = errors.New("name is required")
)

// NormalizePhoneNumber strips every non-digit character.
func NormalizePhoneNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhoneNumber returns true if the phone number has between 8 and 15
// digits once normalized.
func ValidPhoneNumber(s string) bool {
	n := len(NormalizePhoneNumber(s))
	return n >= MinPhoneDigits && n <= MaxPhoneDigits
}

// ParseAmount parses a user-entered amount. Spaces used as thousands
// separators are ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Wrap(err)
	}
	return d, nil
}

// ValidAmount returns true if s parses to a number greater than zero.
func ValidAmount(s string) bool {
	d, err := ParseAmount(s)
	return err == nil && d.IsPositive()
}

// ValidName returns true if the name is non-empty once trimmed.
func ValidName(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Validate checks a manually entered recipient.
func Validate(r Recipient) error {
	var errList []error
	if !ValidPhoneNumber(r.PhoneNumber) {
		errList = append(errList, ErrInvalidPhoneNumber)
	}
	if !ValidName(r.FullName) {
		errList = append(errList, ErrNameRequired)
	}
	if !r.Amount.IsPositive() {
		errList = append(errList, ErrInvalidAmount)
	}
	return errors.Join(errList...)
}
