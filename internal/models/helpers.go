package models

import (
	"math"

	"github.com/google/uuid"
)

// NewID returns an opaque collision-resistant identifier. Used for users,
// round sessions and history records alike; ids carry no encoded meaning.
func NewID() string {
	return uuid.NewString()
}

// Round2 rounds a coin amount to 2 decimal places. All payouts go through
// this before touching a balance.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
