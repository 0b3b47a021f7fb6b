package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"coin-arcade-backend/internal/models"
)

func TestUserDocumentKeepsPasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           models.NewID(),
		Username:     "alice",
		Email:        "alice@example.com",
		Phone:        "+1000000",
		PasswordHash: string(hash),
		Coins:        models.StartingCoins,
		CreatedAt:    time.Now(),
	}

	data, err := marshalUser(user)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"password_hash"`)

	restored, err := unmarshalUser(data)
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)
	assert.Equal(t, user.Coins, restored.Coins)

	// A login against the restored document must still verify.
	require.NotEmpty(t, restored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(restored.PasswordHash), []byte("hunter22")))
}

func TestUserAPIResponseOmitsPasswordHash(t *testing.T) {
	data, err := json.Marshal(&models.User{ID: "u1", Username: "alice", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}
