// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Username    string
	Email       string
	Password    string
	Role        string
	IsConfirmed string
	AvatarURL   string
	CreatedAt   string
	UpdatedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Username:    "username",
	Email:       "email",
	Password:    "passwordhash",
	Role:        "role",
	IsConfirmed: "isconfirmed",
	AvatarURL:   "avatarurl",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Password, t.Role,
		t.IsConfirmed, t.AvatarURL, t.CreatedAt, t.UpdatedAt,
	}
}
