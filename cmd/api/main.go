package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm/logger"

	"github.com/yourusername/wordduel-api/internal/config"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	"github.com/yourusername/wordduel-api/internal/handler"
	"github.com/yourusername/wordduel-api/internal/metrics"
	"github.com/yourusername/wordduel-api/internal/middleware"
	pgRepo "github.com/yourusername/wordduel-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/wordduel-api/internal/repository/redis"
	"github.com/yourusername/wordduel-api/internal/service"
	"github.com/yourusername/wordduel-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	isProduction := gin.Mode() == gin.ReleaseMode

	logLevel := logger.Info
	if isProduction {
		logLevel = logger.Warn
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), logLevel)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Redis опционален: без него лидерборд читается из БД, а лимиты не применяются
	var redisClient redis.UniversalClient
	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		client, err := database.NewUniversalRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")

		repo, err := redisRepo.NewCacheRepo(client, cfg.Redis.KeyPrefix)
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		redisClient = client
		cacheRepo = repo
	} else {
		log.Println("Redis отключен: кеш лидерборда и rate limit неактивны")
	}

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.NewMetrics("wordduel", registry)

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	dictRepo := pgRepo.NewDictionaryRepo(db)
	wordRepo := pgRepo.NewWordRepo(db)
	gameRepo := pgRepo.NewGameRepo(db)

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo, cacheRepo, cfg.Leaderboard.CacheTTL, cfg.Leaderboard.MaxPageSize)
	adminService := service.NewAdminService(userRepo, userService)
	dictService := service.NewDictionaryService(dictRepo, wordRepo)
	gameService := service.NewGameService(gameRepo, dictRepo, wordRepo, userRepo, userService, appMetrics)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(adminService)
	dictHandler := handler.NewDictionaryHandler(dictService)
	gameHandler := handler.NewGameHandler(gameService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimiter(redisClient, appMetrics)

	authLimit := middleware.DefaultAuthRateLimitConfig()
	if cfg.RateLimit.AuthMaxRequests > 0 {
		authLimit.MaxRequests = cfg.RateLimit.AuthMaxRequests
	}
	if cfg.RateLimit.AuthWindow > 0 {
		authLimit.Window = cfg.RateLimit.AuthWindow
	}

	// Инициализируем роутер Gin
	router := gin.Default()

	// В production не доверяем прокси-заголовкам
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.HTTPMetrics(appMetrics))

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			middleware.HeaderUID, middleware.HeaderPwhash, middleware.HeaderRequestID,
		},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			log.Printf("[Health] База данных недоступна: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		api.POST("/register", rateLimiter.Limit(authLimit), authHandler.Register)
		api.POST("/login", rateLimiter.Limit(authLimit), authHandler.Login)
		api.POST("/verify", authMiddleware.RequireCredentials(), authHandler.Verify)

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Пользователи
		userWithID := api.Group("/user/:id")
		userWithID.Use(middleware.ExtractUintParam("id", "userID"))
		{
			userWithID.GET("", userHandler.GetProfile)
			userWithID.POST("/update", authMiddleware.RequireCredentials(), userHandler.UpdateProfile)
		}

		// Администрирование
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireCredentials())
		{
			admin.POST("/check", adminHandler.Check)

			rootOnly := admin.Group("")
			rootOnly.Use(authMiddleware.RootOnly())
			{
				rootOnly.GET("/users", adminHandler.ListUsers)

				adminUser := rootOnly.Group("/user/:id")
				adminUser.Use(middleware.ExtractUintParam("id", "userID"))
				{
					adminUser.POST("/reset-password", adminHandler.ResetPassword)
					adminUser.POST("/delete", adminHandler.DeleteUser)
					adminUser.POST("/restore", adminHandler.RestoreUser)
				}
			}
		}

		// Словари
		authed := api.Group("")
		authed.Use(authMiddleware.RequireCredentials())
		{
			authed.GET("/dicts", dictHandler.ListDictionaries)
			authed.POST("/dict", dictHandler.CreateDictionary)

			dictWithID := authed.Group("/dict/:id")
			dictWithID.Use(middleware.ExtractUintParam("id", "dictID"))
			{
				dictWithID.PUT("", dictHandler.RenameDictionary)
				dictWithID.DELETE("", dictHandler.DeleteDictionary)
				dictWithID.GET("/words", dictHandler.ListWords)
				dictWithID.POST("/word", dictHandler.AddWord)
				dictWithID.POST("/import-csv", dictHandler.ImportCSV)
				dictWithID.GET("/export-csv", dictHandler.ExportCSV)
				dictWithID.GET("/export-xlsx", dictHandler.ExportXLSX)
				dictWithID.POST("/import-xlsx", dictHandler.ImportXLSX)
			}

			wordWithID := authed.Group("/word/:id")
			wordWithID.Use(middleware.ExtractUintParam("id", "wordID"))
			{
				wordWithID.PUT("", dictHandler.UpdateWord)
				wordWithID.DELETE("", dictHandler.DeleteWord)
			}

			// Игры
			authed.POST("/game/create", gameHandler.CreateGame)
			authed.GET("/game/list", gameHandler.ListGames)

			gameWithID := authed.Group("/game/:id")
			gameWithID.Use(middleware.ExtractUintParam("id", "gameID"))
			{
				gameWithID.GET("", gameHandler.GetGame)
				gameWithID.POST("/join", gameHandler.JoinGame)
				gameWithID.POST("/leave", gameHandler.LeaveGame)
				gameWithID.POST("/start", gameHandler.StartGame)
				gameWithID.POST("/answer", gameHandler.SubmitAnswer)
				gameWithID.POST("/end", gameHandler.EndGame)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server exited properly")
}
