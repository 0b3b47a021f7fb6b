package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"coin-arcade-backend/internal/config"
	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/models"
)

const (
	keyUser           = "user:%s"
	keyUsernameIndex  = "index:username:%s"
	keyEmailIndex     = "index:email:%s"
	keyPhoneIndex     = "index:phone:%s"
	keyGame           = "game:%s"
	keyGameSet        = "games"
	keyHistory        = "history:%s"
	keyUserHistory    = "user:%s:history"
	keyUserGameHist   = "user:%s:history:%s"
	keySudoku         = "sudoku:%s"
	keyActiveSudoku   = "user:%s:sudoku"
	keySudokuProgress = "user:%s:sudoku:progress"

	historyTTL    = 30 * 24 * time.Hour
	historyRetain = 500
	sudokuGameTTL = 7 * 24 * time.Hour
)

var (
	ErrUserExists = errors.New("username, email or phone already in use")
	ErrNotFound   = errors.New("not found")
)

// RedisStore is the document store behind the platform: user accounts with
// their coin balance, the game catalog, history records and sudoku puzzles.
// It implements games.Ledger for the wagering engines.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// CreateUser persists a new account and claims its unique username, email
// and phone. Fails with ErrUserExists when any identifier is taken.
func (s *RedisStore) CreateUser(ctx context.Context, user *models.User) error {
	indexes := map[string]string{
		fmt.Sprintf(keyUsernameIndex, strings.ToLower(user.Username)): user.ID,
		fmt.Sprintf(keyEmailIndex, strings.ToLower(user.Email)):       user.ID,
		fmt.Sprintf(keyPhoneIndex, user.Phone):                        user.ID,
	}

	var claimed []string
	for key, id := range indexes {
		ok, err := s.client.SetNX(ctx, key, id, 0).Result()
		if err != nil {
			s.releaseIndexes(ctx, claimed)
			return fmt.Errorf("failed to claim identifier: %w", err)
		}
		if !ok {
			s.releaseIndexes(ctx, claimed)
			return ErrUserExists
		}
		claimed = append(claimed, key)
	}

	if err := s.saveUser(ctx, user); err != nil {
		s.releaseIndexes(ctx, claimed)
		return err
	}
	return nil
}

func (s *RedisStore) releaseIndexes(ctx context.Context, keys []string) {
	if len(keys) > 0 {
		s.client.Del(ctx, keys...)
	}
}

// userDoc is the stored shape of an account. The API model hides the
// password hash from JSON, so the document carries it under its own key.
type userDoc struct {
	*models.User
	PasswordHash string `json:"password_hash"`
}

func marshalUser(user *models.User) ([]byte, error) {
	return json.Marshal(&userDoc{User: user, PasswordHash: user.PasswordHash})
}

func unmarshalUser(data []byte) (*models.User, error) {
	doc := userDoc{User: &models.User{}}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.User.PasswordHash = doc.PasswordHash
	return doc.User, nil
}

func (s *RedisStore) saveUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	data, err := marshalUser(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return s.client.Set(ctx, fmt.Sprintf(keyUser, user.ID), data, 0).Err()
}

func (s *RedisStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keyUser, userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user, err := unmarshalUser([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return user, nil
}

// GetUserByIdentifier resolves a login identifier (username or email).
func (s *RedisStore) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.ToLower(identifier)
	for _, key := range []string{
		fmt.Sprintf(keyUsernameIndex, identifier),
		fmt.Sprintf(keyEmailIndex, identifier),
	} {
		id, err := s.client.Get(ctx, key).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve identifier: %w", err)
		}
		return s.GetUser(ctx, id)
	}
	return nil, ErrNotFound
}

// debitScript atomically checks and moves coins out of the user document, so
// two concurrent stakes can never both pass the same balance check.
var debitScript = redis.NewScript(`
	local key = KEYS[1]
	local amount = tonumber(ARGV[1])

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("user not found")
	end

	local user = cjson.decode(data)
	if user.coins < amount then
		return redis.error_reply("insufficient balance")
	end

	user.coins = user.coins - amount
	user.total_wagered = (user.total_wagered or 0) + amount

	redis.call("SET", key, cjson.encode(user))
	return tostring(user.coins)
`)

var creditScript = redis.NewScript(`
	local key = KEYS[1]
	local amount = tonumber(ARGV[1])

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("user not found")
	end

	local user = cjson.decode(data)
	user.coins = user.coins + amount
	user.total_won = (user.total_won or 0) + amount

	redis.call("SET", key, cjson.encode(user))
	return tostring(user.coins)
`)

func (s *RedisStore) Balance(ctx context.Context, userID string) (float64, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Coins, nil
}

func (s *RedisStore) Debit(ctx context.Context, userID string, amount float64) (float64, error) {
	res, err := debitScript.Run(ctx, s.client, []string{fmt.Sprintf(keyUser, userID)}, amount).Result()
	if err != nil {
		if strings.Contains(err.Error(), "insufficient balance") {
			return 0, games.ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to debit %s: %w", userID, err)
	}
	return parseBalance(res)
}

func (s *RedisStore) Credit(ctx context.Context, userID string, amount float64) (float64, error) {
	res, err := creditScript.Run(ctx, s.client, []string{fmt.Sprintf(keyUser, userID)}, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to credit %s: %w", userID, err)
	}
	return parseBalance(res)
}

func parseBalance(res any) (float64, error) {
	str, ok := res.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected balance reply %T", res)
	}
	return strconv.ParseFloat(str, 64)
}

// AppendHistory stores the record and indexes it on the user's timeline and
// the user's per-game timeline, keeping the most recent entries.
func (s *RedisStore) AppendHistory(ctx context.Context, rec *models.HistoryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	if err := s.client.Set(ctx, fmt.Sprintf(keyHistory, rec.ID), data, historyTTL).Err(); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}

	score := float64(rec.PlayedAt.UnixNano())
	for _, key := range []string{
		fmt.Sprintf(keyUserHistory, rec.UserID),
		fmt.Sprintf(keyUserGameHist, rec.UserID, rec.Game),
	} {
		if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: rec.ID}).Err(); err != nil {
			return fmt.Errorf("failed to index history record: %w", err)
		}
		s.client.ZRemRangeByRank(ctx, key, 0, int64(-historyRetain-1))
	}
	return nil
}

// GetHistory returns the user's settled rounds, newest first. game narrows
// to a single catalog slug; empty means all games.
func (s *RedisStore) GetHistory(ctx context.Context, userID, game string, page, limit int) ([]*models.HistoryRecord, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	key := fmt.Sprintf(keyUserHistory, userID)
	if game != "" {
		key = fmt.Sprintf(keyUserGameHist, userID, game)
	}

	total, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to count history: %w", err)
	}

	start := int64((page - 1) * limit)
	ids, err := s.client.ZRevRange(ctx, key, start, start+int64(limit)-1).Result()
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list history: %w", err)
	}

	records := make([]*models.HistoryRecord, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, fmt.Sprintf(keyHistory, id)).Result()
		if err != nil {
			// Expired record still indexed; skip it.
			continue
		}
		var rec models.HistoryRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		records = append(records, &rec)
	}

	pagination := models.Pagination{
		CurrentPage:  page,
		TotalPages:   int((total + int64(limit) - 1) / int64(limit)),
		TotalItems:   total,
		ItemsPerPage: limit,
	}
	return records, pagination, nil
}

func (s *RedisStore) SaveGame(ctx context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(keyGame, game.Slug), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return s.client.SAdd(ctx, keyGameSet, game.Slug).Err()
}

func (s *RedisStore) GetGame(ctx context.Context, slug string) (*models.Game, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keyGame, slug)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &game, nil
}

// ListGames returns the active catalog. category narrows the result; empty
// means all categories.
func (s *RedisStore) ListGames(ctx context.Context, category models.GameCategory) ([]*models.Game, error) {
	slugs, err := s.client.SMembers(ctx, keyGameSet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	var result []*models.Game
	for _, slug := range slugs {
		game, err := s.GetGame(ctx, slug)
		if err != nil {
			continue
		}
		if !game.IsActive {
			continue
		}
		if category != "" && game.Category != category {
			continue
		}
		result = append(result, game)
	}
	return result, nil
}

func (s *RedisStore) CountGames(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, keyGameSet).Result()
}

func (s *RedisStore) SaveSudoku(ctx context.Context, game *models.SudokuGame) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal sudoku game: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(keySudoku, game.ID), data, sudokuGameTTL).Err(); err != nil {
		return fmt.Errorf("failed to save sudoku game: %w", err)
	}
	return s.client.Set(ctx, fmt.Sprintf(keyActiveSudoku, game.UserID), game.ID, sudokuGameTTL).Err()
}

// GetSudokuProgress loads the user's progression. A user with no progression
// yet gets an empty map, not an error.
func (s *RedisStore) GetSudokuProgress(ctx context.Context, userID string) (models.SudokuProgress, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keySudokuProgress, userID)).Result()
	if err == redis.Nil {
		return models.SudokuProgress{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sudoku progress: %w", err)
	}

	var progress models.SudokuProgress
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sudoku progress: %w", err)
	}
	return progress, nil
}

func (s *RedisStore) SaveSudokuProgress(ctx context.Context, userID string, progress models.SudokuProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal sudoku progress: %w", err)
	}
	// No TTL: progression is durable, unlike the in-flight puzzle documents.
	return s.client.Set(ctx, fmt.Sprintf(keySudokuProgress, userID), data, 0).Err()
}

// GetActiveSudoku follows the user's current-puzzle pointer.
func (s *RedisStore) GetActiveSudoku(ctx context.Context, userID string) (*models.SudokuGame, error) {
	gameID, err := s.client.Get(ctx, fmt.Sprintf(keyActiveSudoku, userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active sudoku: %w", err)
	}
	return s.GetSudoku(ctx, gameID)
}

func (s *RedisStore) GetSudoku(ctx context.Context, gameID string) (*models.SudokuGame, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(keySudoku, gameID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sudoku game: %w", err)
	}

	var game models.SudokuGame
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sudoku game: %w", err)
	}
	return &game, nil
}
