package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/models"
)

type DiceHandler struct {
	engine *games.DiceEngine
}

func NewDiceHandler(engine *games.DiceEngine) *DiceHandler {
	return &DiceHandler{engine: engine}
}

func (h *DiceHandler) Play(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.DicePlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.engine.Play(c.Request.Context(), userID, req.Bet, req.Target, req.Over)
	if err != nil {
		respondGameError(c, err)
		return
	}

	message := "Better luck next time!"
	if result.Win {
		message = "Congratulations! You won!"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"message": message,
	})
}
