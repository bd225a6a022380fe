package models

import "time"

// Account represents a row of the accounts table.
type Account struct {
	AccountID   string `db:"account_id"`
	OwnerID     string `db:"owner_id"`
	Name        string `db:"name"`
	AccountType string `db:"account_type"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// AccountMember represents a row of the account_members table.
type AccountMember struct {
	UserID    string    `db:"user_id"`
	AccountID string    `db:"account_id"`
	Role      string    `db:"role"`
	IsActive  bool      `db:"is_active"`
	JoinedAt  time.Time `db:"joined_at"`
}
