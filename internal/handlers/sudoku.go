package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/models"
	"coin-arcade-backend/internal/services"
)

type SudokuHandler struct {
	service *services.SudokuService
}

func NewSudokuHandler(service *services.SudokuService) *SudokuHandler {
	return &SudokuHandler{service: service}
}

func (h *SudokuHandler) Start(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.SudokuStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.Start(c.Request.Context(), userID, req.Difficulty, req.Level)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    result,
	})
}

func (h *SudokuHandler) Current(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.service.Current(c.Request.Context(), userID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    result,
	})
}

func (h *SudokuHandler) Progress(c *gin.Context) {
	userID := c.GetString("user_id")

	progress, err := h.service.Progress(c.Request.Context(), userID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *SudokuHandler) Update(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.SudokuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.Update(c.Request.Context(), userID, &req)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *SudokuHandler) Reset(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.SudokuResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.Reset(c.Request.Context(), userID, req.GameID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    result,
	})
}

func (h *SudokuHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.SudokuSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.Submit(c.Request.Context(), userID, req.GameID, req.Grid)
	if err != nil {
		respondGameError(c, err)
		return
	}

	message := "Not solved yet, keep going!"
	if result.Completed {
		message = "Puzzle solved! Coins awarded."
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"message": message,
	})
}
