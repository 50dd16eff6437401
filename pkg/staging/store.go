// Package staging holds the editable list of recipients of the next batch
package staging

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zeebo/errs"

	"mojapay.io/mobile-money/pkg/recipient"
)

var (
	// ErrFrozen is returned for user edits while a batch is running.
	ErrFrozen = errors.New("recipients cannot be edited while a batch is running")

	// ErrNotFound is returned when no recipient has the requested ID.
	ErrNotFound = errors.New("recipient not found")

	// ErrStatusTransition is returned when a settled recipient would be
	// settled again.
	ErrStatusTransition = errors.New("invalid status transition")
)

// Field is an editable recipient field.
type Field string

const (
	Phone  Field = "phone"
	Name   Field = "name"
	Amount Field = "amount"
)

// FieldFromString parses string to a Field const.
func FieldFromString(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "phone", "phonenumber", "phone_number":
		return Phone, nil
	case "name", "fullname", "full_name":
		return Name, nil
	case "amount":
		return Amount, nil
	default:
		return "", errs.New("invalid recipient field %q", s)
	}
}

// Store is an ordered collection of recipients. Every mutation replaces the
// underlying slice so snapshots handed out earlier are never modified.
type Store struct {
	mu          sync.Mutex
	recipients  []recipient.Recipient
	frozen      bool
	subscribers []func([]recipient.Recipient)
}

func New() *Store {
	return &Store{}
}

// Subscribe registers fn to receive every new snapshot. fn is called with
// the store lock released.
func (s *Store) Subscribe(fn func([]recipient.Recipient)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Snapshot returns a copy of the current recipients in order.
func (s *Store) Snapshot() []recipient.Recipient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return recipient.Clone(s.recipients)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipients)
}

// Get returns the recipient with the given ID.
func (s *Store) Get(id string) (recipient.Recipient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return recipient.Recipient{}, false
	}
	return s.recipients[i], true
}

// Add appends a pending recipient. A fresh ID is generated when the
// recipient has none or when its ID is already in use. Any incoming status
// is discarded: only SetStatus settles a recipient.
func (s *Store) Add(r recipient.Recipient) (recipient.Recipient, error) {
	var snapshot []recipient.Recipient
	err := s.mutate(func(rs []recipient.Recipient) ([]recipient.Recipient, error) {
		if r.ID == "" || indexOf(rs, r.ID) >= 0 {
			r.ID = recipient.NewID()
		}
		r.Status = recipient.Pending
		next := append(recipient.Clone(rs), r)
		snapshot = next
		return next, nil
	})
	if err != nil {
		return recipient.Recipient{}, err
	}
	return snapshot[len(snapshot)-1], nil
}

// Remove deletes the recipient with the given ID.
func (s *Store) Remove(id string) error {
	return s.mutate(func(rs []recipient.Recipient) ([]recipient.Recipient, error) {
		i := indexOf(rs, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		next := make([]recipient.Recipient, 0, len(rs)-1)
		next = append(next, rs[:i]...)
		return append(next, rs[i+1:]...), nil
	})
}

// Update sets a single field of a recipient. Amounts are parsed but, unlike
// CSV import, zero and negative values are accepted.
func (s *Store) Update(id string, field Field, value string) error {
	return s.mutate(func(rs []recipient.Recipient) ([]recipient.Recipient, error) {
		i := indexOf(rs, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		r := rs[i]
		switch field {
		case Phone:
			r.PhoneNumber = value
		case Name:
			r.FullName = value
		case Amount:
			amount, err := recipient.ParseAmount(value)
			if err != nil {
				return nil, errs.New("invalid amount %q", value)
			}
			r.Amount = amount
		default:
			return nil, errs.New("invalid recipient field %q", field)
		}
		next := recipient.Clone(rs)
		next[i] = r
		return next, nil
	})
}

// ReplaceAll replaces the whole list with pending recipients. Duplicate or
// missing IDs are replaced with fresh ones.
func (s *Store) ReplaceAll(rs []recipient.Recipient) error {
	return s.mutate(func([]recipient.Recipient) ([]recipient.Recipient, error) {
		return uniqueIDs(rs), nil
	})
}

// Clear empties the store.
func (s *Store) Clear() error {
	return s.ReplaceAll(nil)
}

// Freeze rejects user edits until Thaw is called.
func (s *Store) Freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

func (s *Store) Thaw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = false
}

func (s *Store) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// SetStatus settles a pending recipient. It is allowed while frozen.
func (s *Store) SetStatus(id string, status recipient.Status) error {
	return s.apply(false, func(rs []recipient.Recipient) ([]recipient.Recipient, error) {
		i := indexOf(rs, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		if !rs[i].Status.CanTransition(status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrStatusTransition, rs[i].Status, status)
		}
		next := recipient.Clone(rs)
		next[i].Status = status
		return next, nil
	})
}

// Reset empties the store and lifts the freeze.
func (s *Store) Reset() {
	_ = s.apply(false, func([]recipient.Recipient) ([]recipient.Recipient, error) {
		s.frozen = false
		return nil, nil
	})
}

func (s *Store) mutate(fn func([]recipient.Recipient) ([]recipient.Recipient, error)) error {
	return s.apply(true, fn)
}

func (s *Store) apply(userEdit bool, fn func([]recipient.Recipient) ([]recipient.Recipient, error)) error {
	s.mu.Lock()
	if userEdit && s.frozen {
		s.mu.Unlock()
		return ErrFrozen
	}
	next, err := fn(s.recipients)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.recipients = next
	subscribers := s.subscribers
	s.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(recipient.Clone(next))
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return indexOf(s.recipients, id)
}

func indexOf(rs []recipient.Recipient, id string) int {
	for i := range rs {
		if rs[i].ID == id {
			return i
		}
	}
	return -1
}

func uniqueIDs(rs []recipient.Recipient) []recipient.Recipient {
	if len(rs) == 0 {
		return nil
	}
	out := recipient.Clone(rs)
	seen := make(map[string]struct{}, len(out))
	for i := range out {
		if _, dup := seen[out[i].ID]; out[i].ID == "" || dup {
			out[i].ID = recipient.NewID()
		}
		out[i].Status = recipient.Pending
		seen[out[i].ID] = struct{}{}
	}
	return out
}
