package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"slices"
	"time"

	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/models"
)

var (
	ErrPuzzleCompleted = errors.New("puzzle already completed")
	ErrLevelLocked     = errors.New("level locked")
)

var sudokuRewards = map[models.SudokuDifficulty]float64{
	models.SudokuEasy:   10,
	models.SudokuMedium: 20,
	models.SudokuHard:   30,
}

var sudokuBlanks = map[models.SudokuDifficulty]int{
	models.SudokuEasy:   30,
	models.SudokuMedium: 45,
	models.SudokuHard:   55,
}

// baseSolution is a valid filled grid; every puzzle is a symmetry-preserving
// transformation of it (digit relabeling plus row/column/band shuffles), so
// generated solutions are always valid without a solver.
var baseSolution = [9][9]int{
	{5, 3, 4, 6, 7, 8, 9, 1, 2},
	{6, 7, 2, 1, 9, 5, 3, 4, 8},
	{1, 9, 8, 3, 4, 2, 5, 6, 7},
	{8, 5, 9, 7, 6, 1, 4, 2, 3},
	{4, 2, 6, 8, 5, 3, 7, 9, 1},
	{7, 1, 3, 9, 2, 4, 8, 5, 6},
	{9, 6, 1, 5, 3, 7, 2, 8, 4},
	{2, 8, 7, 4, 1, 9, 6, 3, 5},
	{3, 4, 5, 2, 8, 6, 1, 7, 9},
}

// SudokuStore is the persistence the sudoku service needs: puzzle documents,
// the per-user current-puzzle pointer, and the per-user progression doc.
// RedisStore implements it; tests use an in-memory fake.
type SudokuStore interface {
	SaveSudoku(ctx context.Context, game *models.SudokuGame) error
	GetSudoku(ctx context.Context, gameID string) (*models.SudokuGame, error)
	GetActiveSudoku(ctx context.Context, userID string) (*models.SudokuGame, error)
	GetSudokuProgress(ctx context.Context, userID string) (models.SudokuProgress, error)
	SaveSudokuProgress(ctx context.Context, userID string, progress models.SudokuProgress) error
}

// SudokuService hands out level-based puzzles and pays a fixed reward per
// completion. Levels unlock sequentially within each difficulty; no wager is
// involved.
type SudokuService struct {
	store  SudokuStore
	ledger games.Ledger
}

func NewSudokuService(store SudokuStore, ledger games.Ledger) *SudokuService {
	return &SudokuService{store: store, ledger: ledger}
}

// Start opens the given level, generating a fresh puzzle. Restarting an
// already-played level is allowed and replaces its previous state; a level
// beyond the player's progression is rejected.
func (s *SudokuService) Start(ctx context.Context, userID string, difficulty models.SudokuDifficulty, level int) (*models.SudokuStartResult, error) {
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: difficulty %q", games.ErrInvalidParameter, difficulty)
	}
	if level < 1 || level > models.MaxSudokuLevel {
		return nil, fmt.Errorf("%w: level must be in [1, %d], got %d", games.ErrInvalidParameter, models.MaxSudokuLevel, level)
	}

	if level > 1 {
		progress, err := s.store.GetSudokuProgress(ctx, userID)
		if err != nil {
			return nil, err
		}
		if completed := progress.Completed(difficulty); level > completed+1 {
			return nil, fmt.Errorf("%w: complete level %d first", ErrLevelLocked, completed+1)
		}
	}

	solution := generateSolution()
	puzzle := blankCells(solution, sudokuBlanks[difficulty])

	game := &models.SudokuGame{
		ID:         models.NewID(),
		UserID:     userID,
		Difficulty: difficulty,
		Level:      level,
		Puzzle:     puzzle,
		Solution:   solution,
		UserGrid:   puzzle,
		StartedAt:  time.Now(),
	}
	if err := s.store.SaveSudoku(ctx, game); err != nil {
		return nil, err
	}

	return startResult(game), nil
}

// Current returns the user's in-progress puzzle so a reload can resume it.
// A completed puzzle is not resumable.
func (s *SudokuService) Current(ctx context.Context, userID string) (*models.SudokuStartResult, error) {
	game, err := s.store.GetActiveSudoku(ctx, userID)
	if err != nil {
		return nil, err
	}
	if game.Completed {
		return nil, ErrNotFound
	}
	return startResult(game), nil
}

// Progress reports the user's progression per difficulty, with zero entries
// for difficulties never played.
func (s *SudokuService) Progress(ctx context.Context, userID string) (models.SudokuProgress, error) {
	progress, err := s.store.GetSudokuProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, difficulty := range []models.SudokuDifficulty{models.SudokuEasy, models.SudokuMedium, models.SudokuHard} {
		if progress[difficulty] == nil {
			progress[difficulty] = &models.SudokuProgressEntry{}
		}
	}
	return progress, nil
}

// Update saves one move: a pencil-mark toggle, or a placed number (0 clears
// the cell, placing clears the cell's marks). When the grid matches the
// solution the puzzle settles immediately.
func (s *SudokuService) Update(ctx context.Context, userID string, req *models.SudokuUpdateRequest) (*models.SudokuUpdateResult, error) {
	game, err := s.loadOwned(ctx, userID, req.GameID)
	if err != nil {
		return nil, err
	}
	if game.Completed {
		return nil, ErrPuzzleCompleted
	}
	if req.Row < 0 || req.Row > 8 || req.Col < 0 || req.Col > 8 {
		return nil, fmt.Errorf("%w: cell (%d,%d)", games.ErrInvalidParameter, req.Row, req.Col)
	}

	if req.Number != nil {
		n := *req.Number
		if n < 0 || n > 9 {
			return nil, fmt.Errorf("%w: number %d", games.ErrInvalidParameter, n)
		}
		if req.PencilMark {
			toggleMark(game, req.Row, req.Col, n)
		} else {
			game.UserGrid[req.Row][req.Col] = n
			game.PencilMarks[req.Row][req.Col] = nil
		}
	}
	game.TimeSpent = req.TimeSpent

	balance, err := s.settleIfSolved(ctx, game)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveSudoku(ctx, game); err != nil {
		return nil, err
	}

	return &models.SudokuUpdateResult{
		GameID:      game.ID,
		UserGrid:    game.UserGrid,
		PencilMarks: game.PencilMarks,
		Completed:   game.Completed,
		CoinsWon:    game.CoinsWon,
		TimeSpent:   game.TimeSpent,
		Balance:     balance,
	}, nil
}

// Submit checks a whole grid at once. A correct first submission credits the
// difficulty reward exactly once and advances progression; an incorrect grid
// just reports not-completed.
func (s *SudokuService) Submit(ctx context.Context, userID, gameID string, grid [9][9]int) (*models.SudokuSubmitResult, error) {
	game, err := s.loadOwned(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}
	if game.Completed {
		return nil, ErrPuzzleCompleted
	}

	game.UserGrid = grid
	balance, err := s.settleIfSolved(ctx, game)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveSudoku(ctx, game); err != nil {
		log.Printf("sudoku: failed to save %s after submit: %v", game.ID, err)
	}

	return &models.SudokuSubmitResult{
		GameID:    game.ID,
		Completed: game.Completed,
		CoinsWon:  game.CoinsWon,
		Balance:   balance,
	}, nil
}

// Reset restores the puzzle to its initial state, discarding the working
// grid, pencil marks and clock.
func (s *SudokuService) Reset(ctx context.Context, userID, gameID string) (*models.SudokuStartResult, error) {
	game, err := s.loadOwned(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	game.UserGrid = game.Puzzle
	game.PencilMarks = [9][9][]int{}
	game.TimeSpent = 0
	game.Completed = false
	game.CoinsWon = 0
	game.CompletedAt = time.Time{}
	game.StartedAt = time.Now()

	if err := s.store.SaveSudoku(ctx, game); err != nil {
		return nil, err
	}
	return startResult(game), nil
}

func (s *SudokuService) loadOwned(ctx context.Context, userID, gameID string) (*models.SudokuGame, error) {
	game, err := s.store.GetSudoku(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.UserID != userID {
		return nil, ErrNotFound
	}
	return game, nil
}

// settleIfSolved credits the reward, advances progression and records
// history when the working grid matches the solution. Returns the balance
// either way (post-credit when solved).
func (s *SudokuService) settleIfSolved(ctx context.Context, game *models.SudokuGame) (float64, error) {
	if game.UserGrid != game.Solution {
		return s.ledger.Balance(ctx, game.UserID)
	}

	reward := sudokuRewards[game.Difficulty]
	balance, err := s.ledger.Credit(ctx, game.UserID, reward)
	if err != nil {
		return 0, fmt.Errorf("%w: crediting sudoku reward: %v", games.ErrInternal, err)
	}

	game.Completed = true
	game.CoinsWon = reward
	game.CompletedAt = time.Now()

	s.advanceProgress(ctx, game, reward)

	rec := &models.HistoryRecord{
		ID:       models.NewID(),
		UserID:   game.UserID,
		Game:     models.GameSudoku,
		GameName: "Sudoku",
		Result:   models.ResultWin,
		CoinsWon: reward,
		PlayedAt: time.Now(),
		GameData: map[string]any{
			"difficulty": game.Difficulty,
			"level":      game.Level,
			"timeSpent":  game.TimeSpent,
		},
	}
	if err := s.ledger.AppendHistory(ctx, rec); err != nil {
		log.Printf("sudoku: history write failed for %s: %v", game.UserID, err)
	}

	return balance, nil
}

// advanceProgress bumps the completed-level counter when this level is the
// next one in sequence; replays of earlier levels only add to the totals.
func (s *SudokuService) advanceProgress(ctx context.Context, game *models.SudokuGame, reward float64) {
	progress, err := s.store.GetSudokuProgress(ctx, game.UserID)
	if err != nil {
		log.Printf("sudoku: failed to load progress for %s: %v", game.UserID, err)
		return
	}

	entry := progress[game.Difficulty]
	if entry == nil {
		entry = &models.SudokuProgressEntry{}
		progress[game.Difficulty] = entry
	}
	if game.Level == entry.CompletedLevels+1 {
		entry.CompletedLevels++
	}
	entry.TotalTime += game.TimeSpent
	entry.TotalCoins += reward

	if err := s.store.SaveSudokuProgress(ctx, game.UserID, progress); err != nil {
		log.Printf("sudoku: failed to save progress for %s: %v", game.UserID, err)
	}
}

func startResult(game *models.SudokuGame) *models.SudokuStartResult {
	return &models.SudokuStartResult{
		GameID:      game.ID,
		Difficulty:  game.Difficulty,
		Level:       game.Level,
		Puzzle:      game.Puzzle,
		UserGrid:    game.UserGrid,
		PencilMarks: game.PencilMarks,
	}
}

func toggleMark(game *models.SudokuGame, row, col, n int) {
	marks := game.PencilMarks[row][col]
	if i := slices.Index(marks, n); i >= 0 {
		game.PencilMarks[row][col] = slices.Delete(marks, i, i+1)
		return
	}
	marks = append(marks, n)
	slices.Sort(marks)
	game.PencilMarks[row][col] = marks
}

// generateSolution derives a fresh valid grid from baseSolution: relabel the
// digits, then shuffle rows within each band, columns within each stack, and
// the bands and stacks themselves. All four operations preserve validity.
func generateSolution() [9][9]int {
	var grid [9][9]int

	relabel := rand.Perm(9)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			grid[r][c] = relabel[baseSolution[r][c]-1] + 1
		}
	}

	rowOrder := shuffledBandOrder()
	colOrder := shuffledBandOrder()

	var out [9][9]int
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			out[r][c] = grid[rowOrder[r]][colOrder[c]]
		}
	}
	return out
}

// shuffledBandOrder returns a permutation of 0..8 that keeps each index
// within its original 3-row band, with the bands themselves reordered.
func shuffledBandOrder() [9]int {
	bands := rand.Perm(3)
	var order [9]int
	for b := 0; b < 3; b++ {
		inner := rand.Perm(3)
		for i := 0; i < 3; i++ {
			order[b*3+i] = bands[b]*3 + inner[i]
		}
	}
	return order
}

func blankCells(solution [9][9]int, count int) [9][9]int {
	puzzle := solution
	for _, pos := range rand.Perm(81)[:count] {
		puzzle[pos/9][pos%9] = 0
	}
	return puzzle
}
