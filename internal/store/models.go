package store

import "time"

// AuthUser is the stored account record. PasswordHash never leaves this
// package except through the password provider's comparison.
type AuthUser struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  *time.Time
	LastLoginIP  string
	CreatedAt    time.Time
}

type Order struct {
	ID         int64
	ClientName string
	Status     string
	TotalCents int64
	CreatedAt  time.Time
}

type MenuItem struct {
	ID         int64
	Name       string
	PriceCents int64
	Available  bool
	CreatedAt  time.Time
}
