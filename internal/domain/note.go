package domain

import "time"

type Note struct {
	ID        string
	UserID    string
	Title     string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
