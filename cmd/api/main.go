package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"coin-arcade-backend/internal/config"
	"coin-arcade-backend/internal/games"
	"coin-arcade-backend/internal/handlers"
	"coin-arcade-backend/internal/middleware"
	"coin-arcade-backend/internal/services"
)

const staleRoundAge = 30 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := services.NewRedisStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer store.Close()

	if err := services.SeedGames(context.Background(), store); err != nil {
		log.Fatalf("Failed to seed game catalog: %v", err)
	}

	jwtService := services.NewJWTService(cfg)
	sessionStore := games.NewMemorySessionStore()

	wsHandler := handlers.NewWebSocketHandler(store)

	minesEngine := games.NewMinesEngine(store, sessionStore, wsHandler)
	diceEngine := games.NewDiceEngine(store, wsHandler)
	sudokuService := services.NewSudokuService(store, store)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			if n := minesEngine.SweepStale(context.Background(), staleRoundAge); n > 0 {
				log.Printf("Cashed out %d abandoned rounds", n)
			}
		}
	}()

	authHandler := handlers.NewAuthHandler(store, jwtService)
	userHandler := handlers.NewUserHandler(store)
	gameHandler := handlers.NewGameHandler(store)
	minesHandler := handlers.NewMinesHandler(minesEngine)
	diceHandler := handlers.NewDiceHandler(diceEngine)
	sudokuHandler := handlers.NewSudokuHandler(sudokuService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.GET("/ws", wsHandler.HandleWebSocket)

		gamesGroup := protected.Group("/games")
		{
			gamesGroup.GET("", gameHandler.ListGames)
			gamesGroup.GET("/category/:category", gameHandler.ListGamesByCategory)
			gamesGroup.GET("/history", gameHandler.GetHistory)
			gamesGroup.GET("/balance", userHandler.GetBalance)
			gamesGroup.GET("/info/:slug", gameHandler.GetGame)

			mines := gamesGroup.Group("/mines")
			{
				mines.POST("/start", minesHandler.Start)
				mines.POST("/reveal", minesHandler.Reveal)
				mines.POST("/cashout", minesHandler.CashOut)
			}

			dice := gamesGroup.Group("/dice")
			{
				dice.POST("/play", diceHandler.Play)
			}

			sudoku := gamesGroup.Group("/sudoku")
			{
				sudoku.POST("/start", sudokuHandler.Start)
				sudoku.GET("/current", sudokuHandler.Current)
				sudoku.GET("/progress", sudokuHandler.Progress)
				sudoku.POST("/update", sudokuHandler.Update)
				sudoku.POST("/reset", sudokuHandler.Reset)
				sudoku.POST("/submit", sudokuHandler.Submit)
			}
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
