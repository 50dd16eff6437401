// Package recipient defines the payee of a mobile-money transfer
package recipient

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zeebo/errs"
)

// Status is the outcome of a payment attempt for a recipient.
type Status string

const (
	// Pending means the payment has not been attempted yet.
	Pending Status = "pending"

	// Success means the payment was accepted by the gateway.
	Success Status = "success"

	// Failed means the gateway rejected the payment or could not be reached.
	Failed Status = "failed"
)

func (s Status) String() string {
	if s == "" {
		return string(Pending)
	}
	return string(s)
}

// Terminal returns true if no further transition is possible.
func (s Status) Terminal() bool {
	return s == Success || s == Failed
}

// CanTransition returns true if moving from s to to is allowed. Only
// pending recipients can be settled.
func (s Status) CanTransition(to Status) bool {
	return !s.Terminal() && to.Terminal()
}

// StatusFromString parses string to a Status const. The empty string is
// treated as pending.
func StatusFromString(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return Pending, nil
	case "success":
		return Success, nil
	case "failed":
		return Failed, nil
	default:
		return "", errs.New("invalid recipient status %q", s)
	}
}

type Recipient struct {
	// ID uniquely identifies the recipient within a batch
	ID string `json:"id"`

	// PhoneNumber is the mobile-money account (MSISDN) as entered
	PhoneNumber string `json:"phoneNumber"`

	// FullName is the display name of the recipient
	FullName string `json:"fullName"`

	// Amount is the amount to send, in FCFA
	Amount decimal.Decimal `json:"amount"`

	// Status is the outcome of the payment attempt
	Status Status `json:"status,omitempty"`
}

// New returns a pending recipient with a fresh ID.
func New(phoneNumber, fullName string, amount decimal.Decimal) Recipient {
	return Recipient{
		ID:          NewID(),
		PhoneNumber: phoneNumber,
		FullName:    fullName,
		Amount:      amount,
		Status:      Pending,
	}
}

func NewID() string {
	return uuid.NewString()
}

// Clone returns a copy of the recipient list.
func Clone(rs []Recipient) []Recipient {
	if rs == nil {
		return nil
	}
	out := make([]Recipient, len(rs))
	copy(out, rs)
	return out
}

// Total sums the amounts of the recipients.
func Total(rs []Recipient) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rs {
		total = total.Add(r.Amount)
	}
	return total
}
