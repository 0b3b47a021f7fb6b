package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/services"
)

// respondGameError maps engine error kinds to HTTP statuses with a specific
// reason, so the client can tell insufficient funds from a missing round
// from a cooldown.
func respondGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, games.ErrInvalidParameter), errors.Is(err, games.ErrInvalidTile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, games.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, games.ErrNoActiveRound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No active game found"})
	case errors.Is(err, games.ErrRoundActive):
		c.JSON(http.StatusConflict, gin.H{"error": "A game is already in progress"})
	case errors.Is(err, games.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before your next move"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrPuzzleCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Puzzle already completed"})
	case errors.Is(err, services.ErrLevelLocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
