package domain

import "time"

type Contact struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  time.Time // zero value means unknown
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
