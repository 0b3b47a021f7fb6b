package models

import "time"

// StartingCoins is credited to every new account.
const StartingCoins = 1000

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`

	// Bcrypt hash, never serialized to clients. The store persists it under
	// its own document key.
	PasswordHash string `json:"-"`

	Coins float64 `json:"coins"`

	TotalWagered float64 `json:"total_wagered"`
	TotalWon     float64 `json:"total_won"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
