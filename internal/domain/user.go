package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
	// RefreshToken mirrors the last issued refresh token. Empty means
	// revoked: the holder must log in again.
	RefreshToken string
	Role         string
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
