package models

import "time"

// User represents a row of the users table. PasswordHash never leaves the
// repository layer.
type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	DisplayName  string `db:"display_name"`
	PasswordHash string `db:"password_hash"`
	HasPremium   bool   `db:"has_premium"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
