package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/models"
)

type MinesHandler struct {
	engine *games.MinesEngine
}

func NewMinesHandler(engine *games.MinesEngine) *MinesHandler {
	return &MinesHandler{engine: engine}
}

func (h *MinesHandler) Start(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.MinesStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.engine.Start(c.Request.Context(), userID, req.Bet, req.Mines)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"gameId":  result.GameID,
		"grid":    result.Grid,
		"balance": result.Balance,
		"message": "Game started successfully",
	})
}

func (h *MinesHandler) Reveal(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.MinesRevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.engine.Reveal(c.Request.Context(), userID, req.TileID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *MinesHandler) CashOut(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.engine.CashOut(c.Request.Context(), userID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"message": "Successfully cashed out!",
	})
}
