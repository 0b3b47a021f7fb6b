package services

import (
	"context"
	"log"
	"time"

	"coin-arcade-backend/internal/models"
)

var defaultGames = []*models.Game{
	{
		Slug:        models.GameDice,
		Title:       "Dice Game",
		Description: "Throw the dice and test your luck",
		Image:       "/assets/games/dice.png",
		Route:       "/games/dicegame",
		Category:    models.CategoryEarning,
		IsActive:    true,
		MinBet:      10,
		MaxBet:      1000,
	},
	{
		Slug:        models.GameMines,
		Title:       "Mines",
		Description: "Navigate through mines to earn coins",
		Image:       "/assets/games/mines.png",
		Route:       "/games/minesgame",
		Category:    models.CategoryEarning,
		IsActive:    true,
		MinBet:      10,
		MaxBet:      1000,
	},
	{
		Slug:        models.GameSudoku,
		Title:       "Sudoku",
		Description: "Solve logic puzzles to earn coins",
		Image:       "/assets/games/sudoku.png",
		Route:       "/games/sudoku",
		Category:    models.CategoryFarming,
		IsActive:    true,
	},
	{
		Slug:        "tictactoe",
		Title:       "Tic-Tac-Toe",
		Description: "Play this simple game to earn coins",
		Image:       "/assets/games/tictactoe.png",
		Route:       "/games/tictactoe",
		Category:    models.CategoryFarming,
		IsActive:    true,
		MinBet:      5,
		MaxBet:      500,
	},
	{
		Slug:        "chess",
		Title:       "Chess Arena",
		Description: "Play with AI or real players to earn coins",
		Image:       "/assets/games/chess.png",
		Route:       "/games/chess",
		Category:    models.CategoryRoom,
		IsActive:    true,
		MinBet:      20,
		MaxBet:      2000,
	},
}

// SeedGames populates the catalog on first boot. Idempotent: an already
// seeded catalog is left untouched.
func SeedGames(ctx context.Context, store *RedisStore) error {
	count, err := store.CountGames(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, game := range defaultGames {
		game.CreatedAt = time.Now()
		if err := store.SaveGame(ctx, game); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d catalog games", len(defaultGames))
	return nil
}
