// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the PostgreSQL schema so
// query builders never repeat string literals.
package schema

// ContactTable represents the 'contacts.contact' table
type ContactTable struct {
	Table       string
	ID          string
	UserID      string
	FirstName   string
	LastName    string
	Birthday    string
	Email       string
	PhoneNumber string
	Info        string
	CreatedAt   string
	UpdatedAt   string

	// Unique constraint names, reported by PostgreSQL on violation.
	UniqueEmail string
	UniquePhone string
}

// Contact is the schema definition for contacts.contact
var Contact = ContactTable{
	Table:       "contacts.contact",
	ID:          "id",
	UserID:      "userid",
	FirstName:   "firstname",
	LastName:    "lastname",
	Birthday:    "birthday",
	Email:       "email",
	PhoneNumber: "phonenumber",
	Info:        "info",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",

	UniqueEmail: "uq_contact_user_email",
	UniquePhone: "uq_contact_user_phone",
}

// Columns returns all standard column names
func (t ContactTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.FirstName, t.LastName, t.Birthday,
		t.Email, t.PhoneNumber, t.Info, t.CreatedAt, t.UpdatedAt,
	}
}
