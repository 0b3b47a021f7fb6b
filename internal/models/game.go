package models

import "time"

type GameCategory string

const (
	CategoryEarning GameCategory = "earning"
	CategoryFarming GameCategory = "farming"
	CategoryRoom    GameCategory = "room"
)

// Game is a catalog entry for one playable game.
type Game struct {
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Route       string       `json:"route"`
	Category    GameCategory `json:"category"`
	IsActive    bool         `json:"is_active"`
	MinBet      float64      `json:"min_bet"`
	MaxBet      float64      `json:"max_bet"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Catalog slugs referenced by the engines when recording history.
const (
	GameMines  = "mines"
	GameDice   = "dice"
	GameSudoku = "sudoku"
)
