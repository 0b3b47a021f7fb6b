package games

import (
	"context"

	"coin-arcade-backend/internal/models"
)

// Ledger is the engines' only view of player money and audit state: a
// readable/writable coin balance plus an append-only history sink. The redis
// document store implements it in production; tests use an in-memory fake.
type Ledger interface {
	// Balance returns the player's current coins.
	Balance(ctx context.Context, userID string) (float64, error)

	// Debit removes amount from the player's balance and returns the new
	// balance. Fails with ErrInsufficientBalance without any change when the
	// balance would go negative.
	Debit(ctx context.Context, userID string, amount float64) (float64, error)

	// Credit adds amount to the player's balance and returns the new balance.
	Credit(ctx context.Context, userID string, amount float64) (float64, error)

	// AppendHistory records one settled round. Records are never mutated.
	AppendHistory(ctx context.Context, rec *models.HistoryRecord) error
}

// Broadcaster pushes live updates to a connected player. Implementations
// must never block settlement; every method is fire-and-forget.
type Broadcaster interface {
	BalanceUpdate(userID string, balance float64)
	RoundUpdate(userID, gameID string, multiplier float64)
}
