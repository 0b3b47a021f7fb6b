package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-arcade-backend/internal/models"
)

type fakeSudokuStore struct {
	games    map[string]*models.SudokuGame
	active   map[string]string
	progress map[string]models.SudokuProgress
}

func newFakeSudokuStore() *fakeSudokuStore {
	return &fakeSudokuStore{
		games:    make(map[string]*models.SudokuGame),
		active:   make(map[string]string),
		progress: make(map[string]models.SudokuProgress),
	}
}

func (f *fakeSudokuStore) SaveSudoku(_ context.Context, game *models.SudokuGame) error {
	f.games[game.ID] = game
	f.active[game.UserID] = game.ID
	return nil
}

func (f *fakeSudokuStore) GetSudoku(_ context.Context, gameID string) (*models.SudokuGame, error) {
	game, ok := f.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return game, nil
}

func (f *fakeSudokuStore) GetActiveSudoku(ctx context.Context, userID string) (*models.SudokuGame, error) {
	gameID, ok := f.active[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return f.GetSudoku(ctx, gameID)
}

func (f *fakeSudokuStore) GetSudokuProgress(_ context.Context, userID string) (models.SudokuProgress, error) {
	if p, ok := f.progress[userID]; ok {
		return p, nil
	}
	return models.SudokuProgress{}, nil
}

func (f *fakeSudokuStore) SaveSudokuProgress(_ context.Context, userID string, progress models.SudokuProgress) error {
	f.progress[userID] = progress
	return nil
}

type stubLedger struct {
	balances map[string]float64
	history  []*models.HistoryRecord
}

func (l *stubLedger) Balance(_ context.Context, userID string) (float64, error) {
	return l.balances[userID], nil
}

func (l *stubLedger) Debit(_ context.Context, userID string, amount float64) (float64, error) {
	l.balances[userID] -= amount
	return l.balances[userID], nil
}

func (l *stubLedger) Credit(_ context.Context, userID string, amount float64) (float64, error) {
	l.balances[userID] += amount
	return l.balances[userID], nil
}

func (l *stubLedger) AppendHistory(_ context.Context, rec *models.HistoryRecord) error {
	l.history = append(l.history, rec)
	return nil
}

func newSudokuFixture() (*SudokuService, *fakeSudokuStore, *stubLedger) {
	store := newFakeSudokuStore()
	ledger := &stubLedger{balances: map[string]float64{"alice": 1000}}
	return NewSudokuService(store, ledger), store, ledger
}

// solveLevel starts the level and submits its stored solution.
func solveLevel(t *testing.T, svc *SudokuService, store *fakeSudokuStore, difficulty models.SudokuDifficulty, level int) {
	t.Helper()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", difficulty, level)
	require.NoError(t, err)

	sub, err := svc.Submit(ctx, "alice", res.GameID, store.games[res.GameID].Solution)
	require.NoError(t, err)
	require.True(t, sub.Completed)
}

func TestSudokuStartValidation(t *testing.T) {
	svc, _, _ := newSudokuFixture()
	ctx := context.Background()

	_, err := svc.Start(ctx, "alice", "extreme", 1)
	assert.Error(t, err)

	_, err = svc.Start(ctx, "alice", models.SudokuEasy, 0)
	assert.Error(t, err)

	_, err = svc.Start(ctx, "alice", models.SudokuEasy, models.MaxSudokuLevel+1)
	assert.Error(t, err)
}

func TestSudokuLevelsUnlockSequentially(t *testing.T) {
	svc, store, ledger := newSudokuFixture()
	ctx := context.Background()

	_, err := svc.Start(ctx, "alice", models.SudokuEasy, 2)
	assert.ErrorIs(t, err, ErrLevelLocked)

	solveLevel(t, svc, store, models.SudokuEasy, 1)
	assert.Equal(t, 1010.0, ledger.balances["alice"], "easy completion pays 10")

	// Level 2 is now unlocked; level 4 is still out of reach.
	_, err = svc.Start(ctx, "alice", models.SudokuEasy, 2)
	assert.NoError(t, err)
	_, err = svc.Start(ctx, "alice", models.SudokuEasy, 4)
	assert.ErrorIs(t, err, ErrLevelLocked)

	// Progression is per difficulty.
	_, err = svc.Start(ctx, "alice", models.SudokuHard, 2)
	assert.ErrorIs(t, err, ErrLevelLocked)
}

func TestSudokuProgress(t *testing.T) {
	svc, store, _ := newSudokuFixture()
	ctx := context.Background()

	progress, err := svc.Progress(ctx, "alice")
	require.NoError(t, err)
	for _, d := range []models.SudokuDifficulty{models.SudokuEasy, models.SudokuMedium, models.SudokuHard} {
		require.NotNil(t, progress[d])
		assert.Equal(t, 0, progress[d].CompletedLevels)
	}

	solveLevel(t, svc, store, models.SudokuEasy, 1)
	solveLevel(t, svc, store, models.SudokuEasy, 2)
	solveLevel(t, svc, store, models.SudokuMedium, 1)

	progress, err = svc.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, progress[models.SudokuEasy].CompletedLevels)
	assert.Equal(t, 20.0, progress[models.SudokuEasy].TotalCoins)
	assert.Equal(t, 1, progress[models.SudokuMedium].CompletedLevels)
	assert.Equal(t, 20.0, progress[models.SudokuMedium].TotalCoins)
	assert.Equal(t, 0, progress[models.SudokuHard].CompletedLevels)
}

func TestSudokuReplayDoesNotSkipLevels(t *testing.T) {
	svc, store, _ := newSudokuFixture()

	solveLevel(t, svc, store, models.SudokuEasy, 1)
	solveLevel(t, svc, store, models.SudokuEasy, 1)

	progress, err := svc.Progress(context.Background(), "alice")
	require.NoError(t, err)
	// Replaying pays again but never counts as new progression.
	assert.Equal(t, 1, progress[models.SudokuEasy].CompletedLevels)
	assert.Equal(t, 20.0, progress[models.SudokuEasy].TotalCoins)
}

func TestSudokuUpdateSettlesOnFinalNumber(t *testing.T) {
	svc, store, ledger := newSudokuFixture()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", models.SudokuEasy, 1)
	require.NoError(t, err)
	game := store.games[res.GameID]

	// Fill all but one cell, then place the last number through Update.
	var row, col int
	game.UserGrid = game.Solution
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if game.Puzzle[r][c] == 0 {
				row, col = r, c
			}
		}
	}
	game.UserGrid[row][col] = 0

	final := game.Solution[row][col]
	result, err := svc.Update(ctx, "alice", &models.SudokuUpdateRequest{
		GameID:    res.GameID,
		Row:       row,
		Col:       col,
		Number:    &final,
		TimeSpent: 90,
	})
	require.NoError(t, err)

	assert.True(t, result.Completed)
	assert.Equal(t, 10.0, result.CoinsWon)
	assert.Equal(t, 1010.0, result.Balance)

	require.Len(t, ledger.history, 1)
	assert.Equal(t, models.ResultWin, ledger.history[0].Result)
	assert.Equal(t, 1, ledger.history[0].GameData["level"])
	assert.Equal(t, 90, ledger.history[0].GameData["timeSpent"])

	// Time accrues on the progression totals.
	progress, err := svc.Progress(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 90, progress[models.SudokuEasy].TotalTime)

	_, err = svc.Update(ctx, "alice", &models.SudokuUpdateRequest{GameID: res.GameID, TimeSpent: 91})
	assert.ErrorIs(t, err, ErrPuzzleCompleted)
}

func TestSudokuUpdatePencilMarks(t *testing.T) {
	svc, _, _ := newSudokuFixture()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", models.SudokuEasy, 1)
	require.NoError(t, err)

	mark := func(n int) *models.SudokuUpdateResult {
		v := n
		result, err := svc.Update(ctx, "alice", &models.SudokuUpdateRequest{
			GameID: res.GameID, Row: 0, Col: 0, Number: &v, PencilMark: true,
		})
		require.NoError(t, err)
		return result
	}

	mark(7)
	result := mark(3)
	assert.Equal(t, []int{3, 7}, result.PencilMarks[0][0], "marks stay sorted")

	// Toggling an existing mark removes it.
	result = mark(7)
	assert.Equal(t, []int{3}, result.PencilMarks[0][0])

	// Placing a number clears the cell's marks.
	v := 5
	result, err = svc.Update(ctx, "alice", &models.SudokuUpdateRequest{
		GameID: res.GameID, Row: 0, Col: 0, Number: &v,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.UserGrid[0][0])
	assert.Empty(t, result.PencilMarks[0][0])
}

func TestSudokuUpdateOwnership(t *testing.T) {
	svc, _, _ := newSudokuFixture()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", models.SudokuEasy, 1)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "mallory", &models.SudokuUpdateRequest{GameID: res.GameID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSudokuReset(t *testing.T) {
	svc, _, _ := newSudokuFixture()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", models.SudokuEasy, 1)
	require.NoError(t, err)

	v := 9
	_, err = svc.Update(ctx, "alice", &models.SudokuUpdateRequest{
		GameID: res.GameID, Row: 0, Col: 0, Number: &v, TimeSpent: 120,
	})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "alice", &models.SudokuUpdateRequest{
		GameID: res.GameID, Row: 1, Col: 1, Number: &v, PencilMark: true, TimeSpent: 130,
	})
	require.NoError(t, err)

	reset, err := svc.Reset(ctx, "alice", res.GameID)
	require.NoError(t, err)
	assert.Equal(t, res.Puzzle, reset.UserGrid)
	assert.Empty(t, reset.PencilMarks[1][1])
}

func TestSudokuSubmitWrongGrid(t *testing.T) {
	svc, store, ledger := newSudokuFixture()
	ctx := context.Background()

	res, err := svc.Start(ctx, "alice", models.SudokuEasy, 1)
	require.NoError(t, err)

	wrong := store.games[res.GameID].Solution
	wrong[0][0] = wrong[0][1]
	sub, err := svc.Submit(ctx, "alice", res.GameID, wrong)
	require.NoError(t, err)
	assert.False(t, sub.Completed)
	assert.Equal(t, 1000.0, ledger.balances["alice"])
	assert.Empty(t, ledger.history)
}

func assertValidSudoku(t *testing.T, grid [9][9]int) {
	t.Helper()

	check := func(kind string, idx int, cells [9]int) {
		var seen [10]bool
		for _, v := range cells {
			require.True(t, v >= 1 && v <= 9, "%s %d holds %d", kind, idx, v)
			require.False(t, seen[v], "%s %d repeats %d", kind, idx, v)
			seen[v] = true
		}
	}

	for r := 0; r < 9; r++ {
		check("row", r, grid[r])
	}
	for c := 0; c < 9; c++ {
		var col [9]int
		for r := 0; r < 9; r++ {
			col[r] = grid[r][c]
		}
		check("column", c, col)
	}
	for b := 0; b < 9; b++ {
		var box [9]int
		for i := 0; i < 9; i++ {
			box[i] = grid[b/3*3+i/3][b%3*3+i%3]
		}
		check("box", b, box)
	}
}

func TestGenerateSolutionIsValid(t *testing.T) {
	for i := 0; i < 20; i++ {
		assertValidSudoku(t, generateSolution())
	}
}

func TestGenerateSolutionVaries(t *testing.T) {
	first := generateSolution()
	for i := 0; i < 10; i++ {
		if generateSolution() != first {
			return
		}
	}
	t.Fatal("generator produced the same grid repeatedly")
}

func TestBlankCells(t *testing.T) {
	solution := generateSolution()

	for _, difficulty := range []models.SudokuDifficulty{models.SudokuEasy, models.SudokuMedium, models.SudokuHard} {
		want := sudokuBlanks[difficulty]
		puzzle := blankCells(solution, want)

		blanks := 0
		for r := 0; r < 9; r++ {
			for c := 0; c < 9; c++ {
				if puzzle[r][c] == 0 {
					blanks++
				} else {
					assert.Equal(t, solution[r][c], puzzle[r][c], "filled cell changed")
				}
			}
		}
		assert.Equal(t, want, blanks, "difficulty %s", difficulty)
	}

	assert.NotEqual(t, solution, blankCells(solution, 30))
}

func TestSudokuRewardsCoverDifficulties(t *testing.T) {
	assert.Equal(t, 10.0, sudokuRewards[models.SudokuEasy])
	assert.Equal(t, 20.0, sudokuRewards[models.SudokuMedium])
	assert.Equal(t, 30.0, sudokuRewards[models.SudokuHard])
}
