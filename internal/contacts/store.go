// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts

import (
	"context"

	"github.com/taibuivan/contactly/pkg/pagination"
)

// Repository persists contacts. Every method is scoped to ownerID.
//
// Single-row lookups return (nil, nil) when the owner has no matching row;
// absence is not an error at this layer.
type Repository interface {
	List(context context.Context, ownerID string, filter Filter, page pagination.Params) ([]*Contact, error)
	GetByID(context context.Context, ownerID string, id int64) (*Contact, error)

	// Create assigns the id and timestamps on contact. A unique-key clash
	// yields [ErrDuplicate].
	Create(context context.Context, ownerID string, contact *Contact) error
	Update(context context.Context, ownerID string, id int64, fields Fields) (*Contact, error)

	// Delete returns the removed row.
	Delete(context context.Context, ownerID string, id int64) (*Contact, error)

	// ExistsDuplicate reports whether the owner has a contact with the email OR the phone number.
	ExistsDuplicate(context context.Context, ownerID, email, phoneNumber string) (bool, error)

	// UpcomingBirthdays returns contacts whose next birthday is within days of today,
	// ordered by (month, day).
	UpcomingBirthdays(context context.Context, ownerID string, days int) ([]*Contact, error)
}
