package domain

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // argon2id, PHC encoded
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
