package core

import (
	"errors"
	"strings"
	"time"
)

// The tracker serves exactly two people. Anything else is rejected.
const (
	UserMatt   User = "Matt"
	UserEileen User = "Eileen"
)

const (
	// DefaultCategory is applied to manual entries created without a category.
	DefaultCategory = "Other"
	// ImportedCategory is applied to CSV-derived entries without a category.
	ImportedCategory = "Imported"
)

type (
	// User is one of the two allowed account holders, stored canonically.
	User string

	// Expense is a single transaction belonging to exactly one user.
	Expense struct {
		ID          string     `json:"id"`
		User        User       `json:"user"`
		Amount      Amount     `json:"amount"`
		Description string     `json:"description"`
		Date        string     `json:"date"`
		Category    string     `json:"category"`
		CreatedAt   time.Time  `json:"createdAt"`
		UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
		UpdatedBy   string     `json:"updatedBy,omitempty"`
	}

	// Draft holds the caller-supplied fields of a new expense before the
	// service stamps id and creation time.
	Draft struct {
		User        User
		Amount      Amount
		Description string
		Date        string
		Category    string
	}

	// Patch carries a partial update. Nil fields are left untouched.
	Patch struct {
		User        *User
		Amount      *Amount
		Description *string
		Date        *string
		Category    *string
		UpdatedBy   string
	}
)

var (
	ErrInvalidUser      = errors.New("invalid user: only Matt and Eileen are allowed")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyDate        = errors.New("empty date")
)

// AllowedUsers returns the fixed allowlist in declaration order.
func AllowedUsers() []User {
	return []User{UserMatt, UserEileen}
}

// ParseUser resolves a raw identifier against the allowlist. Matching is
// case-insensitive so the lowercase ids of the multi-user API ("matt")
// address the same person as the canonical form.
func ParseUser(raw string) (User, error) {
	raw = strings.TrimSpace(raw)
	for _, u := range AllowedUsers() {
		if strings.EqualFold(raw, string(u)) {
			return u, nil
		}
	}
	return "", ErrInvalidUser
}

func (d Draft) Validate() error {
	if _, err := ParseUser(string(d.User)); err != nil {
		return err
	}
	if d.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(d.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(d.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

func (p Patch) Validate() error {
	if p.User != nil {
		if _, err := ParseUser(string(*p.User)); err != nil {
			return err
		}
	}
	if p.Amount != nil && p.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Apply overwrites the expense's fields with the patch's non-nil ones and
// stamps the update metadata.
func (p Patch) Apply(e *Expense, now time.Time) {
	if p.User != nil {
		e.User = *p.User
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	e.UpdatedAt = &now
	if p.UpdatedBy != "" {
		e.UpdatedBy = p.UpdatedBy
	}
}
