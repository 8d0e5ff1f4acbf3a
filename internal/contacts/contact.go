// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package contacts manages each account's private contact book.

Every operation is owner-scoped: the repository filters by the caller's
account id, so a contact id belonging to someone else behaves exactly like an
id that does not exist.
*/
package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/contactly/internal/platform/apperr"
)

// DateLayout is the wire format of a birthday.
const DateLayout = "2006-01-02"

// Client-facing messages.
const (
	MessageDuplicate = "Contact with this email or phone number already exists"
	MessageNotFound  = "Contact not found"
)

var (
	// ErrNotFound is returned by the service when the owner has no such contact.
	ErrNotFound = apperr.NotFound("Contact")

	// ErrDuplicate is returned when the owner already has a contact with the same email or phone number.
	ErrDuplicate = apperr.DuplicateContact(MessageDuplicate)
)

// Contact is a single entry in an account's contact book.
type Contact struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"-"`
	FirstName   string    `json:"firstname"`
	LastName    string    `json:"lastname"`
	Birthday    Date      `json:"birthday"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phonenumber"`
	Info        *string   `json:"info"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: parsed}, nil
}

// String implements [fmt.Stringer].
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements [json.Marshaler].
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("contacts: invalid date %q: %w", raw, err)
	}
	*d = parsed
	return nil
}

// Filter narrows a contact listing. Each non-empty field must appear as a
// case-sensitive substring of the matching column.
type Filter struct {
	FirstName string
	LastName  string
	Email     string
}

// Fields carries a partial update; nil fields keep their stored value.
type Fields struct {
	FirstName   *string
	LastName    *string
	Birthday    *Date
	Email       *string
	PhoneNumber *string
	Info        *string
}

// Empty reports whether no field is set.
func (f Fields) Empty() bool {
	return f.FirstName == nil && f.LastName == nil && f.Birthday == nil &&
		f.Email == nil && f.PhoneNumber == nil && f.Info == nil
}

// Field names used in requests and validation errors.
const (
	FieldFirstName   = "firstname"
	FieldLastName    = "lastname"
	FieldBirthday    = "birthday"
	FieldEmail       = "email"
	FieldPhoneNumber = "phonenumber"
	FieldInfo        = "info"
	FieldDays        = "days"
	FieldID          = "contact_id"
)
