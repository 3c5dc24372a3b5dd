package models

import "time"

type User struct {
	ID           int64
	Name         string
	UserName     string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// UserUpdate holds the fields of a partial update; nil means unchanged.
type UserUpdate struct {
	Name     *string
	UserName *string
	Email    *string
}
