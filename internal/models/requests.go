package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Bet fields deliberately omit "required": a zero bet is legal free play.
type MinesStartRequest struct {
	Bet   float64 `json:"bet" binding:"min=0,max=10000"`
	Mines int     `json:"mines" binding:"required,min=1,max=24"`
}

type MinesRevealRequest struct {
	TileID int `json:"tileId" binding:"min=0,max=24"`
}

type DicePlayRequest struct {
	Bet    float64 `json:"bet" binding:"min=0,max=10000"`
	Target int     `json:"target" binding:"required,min=2,max=99"`
	Over   bool    `json:"over"`
}

type SudokuStartRequest struct {
	Difficulty SudokuDifficulty `json:"difficulty" binding:"required"`
	Level      int              `json:"level" binding:"required,min=1,max=30"`
}

// SudokuUpdateRequest saves one move. Number with PencilMark toggles a mark;
// Number alone places it (0 clears the cell); TimeSpent is the client's
// running clock in seconds.
type SudokuUpdateRequest struct {
	GameID     string `json:"gameId" binding:"required"`
	Row        int    `json:"row" binding:"min=0,max=8"`
	Col        int    `json:"col" binding:"min=0,max=8"`
	Number     *int   `json:"number" binding:"omitempty,min=0,max=9"`
	PencilMark bool   `json:"pencilMark"`
	TimeSpent  int    `json:"timeSpent" binding:"min=0"`
}

type SudokuResetRequest struct {
	GameID string `json:"gameId" binding:"required"`
}

type SudokuSubmitRequest struct {
	GameID string    `json:"gameId" binding:"required"`
	Grid   [9][9]int `json:"grid" binding:"required"`
}

type SudokuStartResult struct {
	GameID      string           `json:"gameId"`
	Difficulty  SudokuDifficulty `json:"difficulty"`
	Level       int              `json:"level"`
	Puzzle      [9][9]int        `json:"puzzle"`
	UserGrid    [9][9]int        `json:"userGrid"`
	PencilMarks [9][9][]int      `json:"pencilMarks"`
}

type SudokuUpdateResult struct {
	GameID      string      `json:"gameId"`
	UserGrid    [9][9]int   `json:"userGrid"`
	PencilMarks [9][9][]int `json:"pencilMarks"`
	Completed   bool        `json:"completed"`
	CoinsWon    float64     `json:"coinsWon"`
	TimeSpent   int         `json:"timeSpent"`
	Balance     float64     `json:"balance"`
}

type SudokuSubmitResult struct {
	GameID    string  `json:"gameId"`
	Completed bool    `json:"completed"`
	CoinsWon  float64 `json:"coinsWon"`
	Balance   float64 `json:"balance"`
}

type MinesStartResult struct {
	GameID  string  `json:"gameId"`
	Grid    []Tile  `json:"grid"`
	Balance float64 `json:"balance"`
}

type MinesRevealResult struct {
	GameID     string  `json:"gameId"`
	IsMine     bool    `json:"isMine"`
	TileID     int     `json:"tileId"`
	Multiplier float64 `json:"multiplier"`
	Grid       []Tile  `json:"grid"`
	GameOver   bool    `json:"gameOver"`
	Win        bool    `json:"win"`
	Winnings   float64 `json:"winnings,omitempty"`
	Balance    float64 `json:"balance"`
}

type MinesCashoutResult struct {
	GameID        string  `json:"gameId"`
	Multiplier    float64 `json:"multiplier"`
	TilesRevealed int     `json:"tilesRevealed"`
	Winnings      float64 `json:"winnings"`
	Balance       float64 `json:"balance"`
}

type DicePlayResult struct {
	Rolled     float64 `json:"rolled"`
	Target     int     `json:"target"`
	Over       bool    `json:"over"`
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Winnings   float64 `json:"winnings"`
	Balance    float64 `json:"balance"`
}
