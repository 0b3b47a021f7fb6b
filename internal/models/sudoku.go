package models

import "time"

type SudokuDifficulty string

const (
	SudokuEasy   SudokuDifficulty = "easy"
	SudokuMedium SudokuDifficulty = "medium"
	SudokuHard   SudokuDifficulty = "hard"
)

func (d SudokuDifficulty) Valid() bool {
	switch d {
	case SudokuEasy, SudokuMedium, SudokuHard:
		return true
	}
	return false
}

// MaxSudokuLevel is the number of levels per difficulty. Levels unlock
// sequentially: level n is playable once level n-1 is completed.
const MaxSudokuLevel = 30

// SudokuGame is a farming puzzle: no wager, a fixed coin reward on completion.
// Stored as a document so an in-progress puzzle survives restarts (unlike
// wagered rounds, nothing is at stake here). UserGrid and PencilMarks hold
// the player's working state between saves.
type SudokuGame struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Difficulty SudokuDifficulty `json:"difficulty"`
	Level      int              `json:"level"`
	Puzzle     [9][9]int        `json:"puzzle"`
	// Solution is serialized for storage only; handlers must respond with
	// SudokuStartResult, never with the raw document.
	Solution    [9][9]int   `json:"solution"`
	UserGrid    [9][9]int   `json:"user_grid"`
	PencilMarks [9][9][]int `json:"pencil_marks"`
	Completed   bool        `json:"completed"`
	CoinsWon    float64     `json:"coins_won"`
	TimeSpent   int         `json:"time_spent"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at,omitzero"`
}

// SudokuProgressEntry aggregates one difficulty's progression for a player.
type SudokuProgressEntry struct {
	CompletedLevels int     `json:"completedLevels"`
	TotalTime       int     `json:"totalTime"`
	TotalCoins      float64 `json:"totalCoins"`
}

// SudokuProgress maps each difficulty to the player's aggregate progression.
type SudokuProgress map[SudokuDifficulty]*SudokuProgressEntry

// Completed returns the number of completed levels at the given difficulty.
func (p SudokuProgress) Completed(d SudokuDifficulty) int {
	if e := p[d]; e != nil {
		return e.CompletedLevels
	}
	return 0
}
