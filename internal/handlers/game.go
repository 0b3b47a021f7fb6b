package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/models"
	"coin-arcade-backend/internal/services"
)

// GameHandler serves the catalog and history endpoints.
type GameHandler struct {
	store *services.RedisStore
}

func NewGameHandler(store *services.RedisStore) *GameHandler {
	return &GameHandler{store: store}
}

func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.store.ListGames(c.Request.Context(), "")
	if err != nil {
		respondGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) ListGamesByCategory(c *gin.Context) {
	category := models.GameCategory(c.Param("category"))
	games, err := h.store.ListGames(c.Request.Context(), category)
	if err != nil {
		respondGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	game, err := h.store.GetGame(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// GetHistory returns the authenticated user's settled rounds, newest first.
// ?game= narrows to one catalog slug.
func (h *GameHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	game := c.Query("game")

	records, pagination, err := h.store.GetHistory(c.Request.Context(), userID, game, page, limit)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history":    records,
		"pagination": pagination,
	})
}
