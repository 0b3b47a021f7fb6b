package models

import (
	"slices"
	"time"
)

type RoundStatus string

const (
	RoundActive    RoundStatus = "active"
	RoundLost      RoundStatus = "lost"
	RoundWon       RoundStatus = "won"
	RoundCashedOut RoundStatus = "cashed_out"
)

// Terminal reports whether the round can no longer be advanced.
func (s RoundStatus) Terminal() bool {
	return s != RoundActive
}

// RoundSession is one in-flight mines round. The wager is debited when the
// session is created and the hazard layout is fixed for the session's
// lifetime; only Revealed, Multiplier and Status change afterwards.
type RoundSession struct {
	ID      string
	OwnerID string
	Wager   float64

	// Hazards[i] is true when tile i hides a mine. Never sent to clients.
	Hazards []bool
	Mines   int

	Revealed   []int
	Multiplier float64
	Status     RoundStatus

	StartedAt time.Time
}

// SafeTiles is the number of reveals needed to win the round.
func (rs *RoundSession) SafeTiles() int {
	return len(rs.Hazards) - rs.Mines
}

func (rs *RoundSession) IsRevealed(tileID int) bool {
	return slices.Contains(rs.Revealed, tileID)
}

// Tile is the client-safe view of one board cell. IsMine is only meaningful
// for revealed tiles; unrevealed tiles always report false so the hazard
// layout never leaks mid-round.
type Tile struct {
	ID       int  `json:"id"`
	Revealed bool `json:"revealed"`
	IsMine   bool `json:"isMine"`
}

// ClientGrid renders the board for the client. When exposeHazards is set
// (after a loss) every mine is shown regardless of reveal state.
func (rs *RoundSession) ClientGrid(exposeHazards bool) []Tile {
	grid := make([]Tile, len(rs.Hazards))
	for i := range rs.Hazards {
		revealed := rs.IsRevealed(i)
		grid[i] = Tile{
			ID:       i,
			Revealed: revealed || (exposeHazards && rs.Hazards[i]),
			IsMine:   (revealed || exposeHazards) && rs.Hazards[i],
		}
	}
	return grid
}
