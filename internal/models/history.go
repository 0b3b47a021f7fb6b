package models

import "time"

type GameResult string

const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// HistoryRecord is one settled round. Records are append-only: they are
// written exactly once on settlement and never mutated.
type HistoryRecord struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Game      string         `json:"game"`
	GameName  string         `json:"game_name"`
	BetAmount float64        `json:"bet_amount"`
	Result    GameResult     `json:"result"`
	CoinsWon  float64        `json:"coins_won"`
	CoinsLost float64        `json:"coins_lost"`
	GameData  map[string]any `json:"game_data,omitempty"`
	PlayedAt  time.Time      `json:"played_at"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}
