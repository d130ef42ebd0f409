// Package bootstrap assembles the application: config, logging,
// infrastructure, services, hub, workers and the HTTP server.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/costantinodig/youdj-vote/internal/handler/http"
	wsHandler "github.com/costantinodig/youdj-vote/internal/handler/websocket"
	"github.com/costantinodig/youdj-vote/internal/hub"
	gormpersistence "github.com/costantinodig/youdj-vote/internal/infra/persistence/gorm"
	"github.com/costantinodig/youdj-vote/internal/infra/setup"
	"github.com/costantinodig/youdj-vote/internal/middleware"
	"github.com/costantinodig/youdj-vote/internal/service"
	"github.com/costantinodig/youdj-vote/internal/tasks"
	"github.com/costantinodig/youdj-vote/internal/worker"
)

// Config holds everything read from the environment.
type Config struct {
	DBUser          string
	DBPassword      string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ServerPort      string
	LogLevel        string
	AppEnv          string
	KeyPrefix       string
	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration
	RoomIdleTTL     time.Duration
	SweepSchedule   string
}

// LoadConfig reads the environment, with .env as an optional overlay.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // env vars alone are fine

	cfg := &Config{
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          os.Getenv("DB_NAME"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		AppEnv:          os.Getenv("APP_ENV"),
		KeyPrefix:       os.Getenv("REDIS_KEY_PREFIX"),
		CORSOrigin:      os.Getenv("CORS_ALLOWED_ORIGIN"),
		RateLimitMax:    100,
		RateLimitWindow: 1 * time.Second,
		RoomIdleTTL:     72 * time.Hour,
		SweepSchedule:   "@every 1h",
	}

	redisDBStr := os.Getenv("REDIS_DB")
	cfg.RedisDB, _ = strconv.Atoi(redisDBStr)

	if cfg.ServerPort == "" {
		cfg.ServerPort = "4000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ydj:"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:5173"
	}
	if cfg.DBHost == "" {
		cfg.DBHost = "127.0.0.1"
	}
	if cfg.DBPort == "" {
		cfg.DBPort = "3306"
	}
	if cfg.DBName == "" {
		cfg.DBName = "youdj_vote"
	}
	if ttl := os.Getenv("ROOM_IDLE_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			cfg.RoomIdleTTL = time.Duration(hours) * time.Hour
		}
	}
	if cfg.DBUser == "" {
		return nil, fmt.Errorf("environment variable DB_USER must be set")
	}
	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("environment variable DB_PASSWORD must be set")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// App holds the assembled components for Start/Shutdown.
type App struct {
	Config         *Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	AsynqClient    *asynq.Client
	WorkerServer   *worker.WorkerServer
	Hub            *hub.Hub
	HttpServer     *http.Server
	redisClientOpt asynq.RedisClientOpt
	scheduler      *asynq.Scheduler
}

// NewApp builds and wires every component.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded")

	// Infrastructure
	db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)

	// Repositories
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	songRepo := gormpersistence.NewGormSongRepository(db)
	voteRepo := gormpersistence.NewGormVoteRepository(db)
	playlistRepo := gormpersistence.NewGormPlaylistRepository(db)
	stateRepo := gormpersistence.NewGormStateRepository(db)

	// Services
	notifier := tasks.NewAsynqNotifier(asynqClient)
	roomService := service.NewRoomService(roomRepo)
	catalogService := service.NewCatalogService(songRepo, roomService, notifier)
	voteService := service.NewVoteService(voteRepo, songRepo, roomService, notifier)
	playlistService := service.NewPlaylistService(playlistRepo, songRepo, roomService, notifier)
	playbackService := service.NewPlaybackService(stateRepo, songRepo, roomService, notifier)
	syncService := service.NewSyncService(catalogService, playlistService, playbackService)
	log.Info("Services initialized")

	// Hub
	hubInstance := hub.NewHub(syncService, redisClient, cfg.KeyPrefix)

	// Handlers
	roomHandler := httpHandler.NewRoomHandler(roomService)
	songHandler := httpHandler.NewSongHandler(catalogService)
	voteHandler := httpHandler.NewVoteHandler(voteService)
	playlistHandler := httpHandler.NewPlaylistHandler(playlistService)
	playbackHandler := httpHandler.NewPlaybackHandler(playbackService)
	websocketHandler := wsHandler.NewWebSocketHandler(hubInstance, roomService)

	// Worker
	broadcastHandler := worker.NewEventBroadcastHandler(redisClient, cfg.KeyPrefix)
	sweepHandler := worker.NewRoomSweepHandler(roomRepo, cfg.RoomIdleTTL)
	workerServer := worker.NewWorkerServer(redisClientOpt, broadcastHandler, sweepHandler, log)

	// Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(corsMiddleware(cfg.CORSOrigin))
	router.Use(middleware.Session())

	api := router.Group("/api")
	api.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))
	{
		api.GET("/health", roomHandler.Health)
		api.POST("/rooms", roomHandler.CreateRoom)
		api.POST("/rooms/:code/songs", songHandler.AddSong)
		api.GET("/rooms/:code/songs", songHandler.ListSongs)
		api.POST("/rooms/:code/vote", voteHandler.CastVote)
		api.POST("/rooms/:code/mini", playlistHandler.SetMiniPlaylist)
		api.GET("/rooms/:code/mini", playlistHandler.GetMiniPlaylist)
		api.POST("/rooms/:code/play", playbackHandler.SetPlaying)
		api.GET("/rooms/:code/state", playbackHandler.GetState)
	}
	router.GET("/ws/rooms/:code", websocketHandler.HandleConnection)
	log.Info("Router setup complete")

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		WorkerServer:   workerServer,
		Hub:            hubInstance,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}, nil
}

// Start launches the hub, worker, scheduler and HTTP server.
func (a *App) Start() {
	go a.Hub.Run()
	go a.WorkerServer.Start()
	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
}

func (a *App) registerPeriodicTasks() {
	a.scheduler = asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})

	task, err := tasks.NewRoomSweepTask()
	if err != nil {
		a.Log.Errorf("Failed to create room sweep task: %v", err)
		return
	}
	entryID, err := a.scheduler.Register(a.Config.SweepSchedule, task, asynq.Queue("low"))
	if err != nil {
		a.Log.Errorf("Could not register periodic room sweep task: %v", err)
	} else {
		a.Log.Infof("Room sweep registered with schedule '%s' (EntryID: %s)", a.Config.SweepSchedule, entryID)
	}

	go func() {
		if err := a.scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			a.Log.Errorf("Asynq scheduler Run() failed: %v", err)
		}
	}()
}

// Shutdown stops everything in dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if a.Hub != nil {
		a.Hub.StopAllSubscriptions()
	}
	if a.scheduler != nil {
		a.scheduler.Shutdown()
	}
	if a.WorkerServer != nil {
		a.WorkerServer.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	a.Log.Info("Application shutdown complete.")
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggerMiddleware logs each request with latency and status-class level.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
		} else if statusCode >= 500 {
			entry.Error("Server error")
		} else if statusCode >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request handled")
		}
	}
}
