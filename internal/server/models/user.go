package models

import "time"

// User is an account holder. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	UserName     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	Age          int       `json:"age"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"createdAt"`
}
