package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-arcade-backend/internal/services"
)

type UserHandler struct {
	store *services.RedisStore
}

func NewUserHandler(store *services.RedisStore) *UserHandler {
	return &UserHandler{store: store}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.store.Balance(c.Request.Context(), userID)
	if err != nil {
		respondGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
