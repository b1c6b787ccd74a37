package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/Abhijitam01/drawr/internal/handler/http"
	wsHandler "github.com/Abhijitam01/drawr/internal/handler/websocket"
	"github.com/Abhijitam01/drawr/internal/hub"
	"github.com/Abhijitam01/drawr/internal/infra/discovery"
	gormpersistence "github.com/Abhijitam01/drawr/internal/infra/persistence/gorm"
	"github.com/Abhijitam01/drawr/internal/infra/setup"
	redisstate "github.com/Abhijitam01/drawr/internal/infra/state/redis"
	"github.com/Abhijitam01/drawr/internal/middleware"
	"github.com/Abhijitam01/drawr/internal/service"
	"github.com/Abhijitam01/drawr/internal/tasks"
	"github.com/Abhijitam01/drawr/internal/worker"
)

// App holds the wired server components.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	Worker      *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server
	advertiser  *discovery.Advertiser
}

// Handlers groups what NewRouter mounts.
type Handlers struct {
	Auth  *httpHandler.AuthHandler
	Room  *httpHandler.RoomHandler
	Shape *httpHandler.ShapeHandler
	WS    *wsHandler.WebSocketHandler
}

func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		logrus.Errorf("Failed to load config: %v", err)
		return nil, err
	}

	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s, Env: %s)", cfg.LogLevel, cfg.AppEnv)

	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.WithField("driver", cfg.DB.Driver).Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Redis and Asynq clients initialized")

	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	shapeRepo := gormpersistence.NewGormShapeRepository(db)
	chatRepo := gormpersistence.NewGormChatRepository(db)
	sceneCache := redisstate.NewRedisSceneCache(redisClient, cfg.KeyPrefix)

	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	roomService := service.NewRoomService(roomRepo)
	sceneService := service.NewSceneService(shapeRepo, sceneCache, cfg.SceneCacheTTL)
	chatSink := tasks.NewQueueChatSink(asynqClient, "default")
	collabService := service.NewCollaborationService(shapeRepo, sceneCache, chatSink)
	log.Info("Services initialized")

	hubInstance := hub.NewHub(collabService)
	workerServer := worker.NewWorkerServer(redisClientOpt, chatRepo, hubInstance, sceneService, log)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := NewRouter(cfg, log, redisClient, Handlers{
		Auth:  httpHandler.NewAuthHandler(authService),
		Room:  httpHandler.NewRoomHandler(roomService),
		Shape: httpHandler.NewShapeHandler(sceneService),
		WS:    wsHandler.NewWebSocketHandler(hubInstance, authService, cfg.CORSOrigin),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Application assembled successfully")
	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		Worker:      workerServer,
		Hub:         hubInstance,
		HttpServer:  httpServer,
	}, nil
}

// NewRouter mounts the HTTP and WebSocket routes. redisClient may be nil, in
// which case /api is not rate limited.
func NewRouter(cfg *Config, log *logrus.Logger, redisClient *redis.Client, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORSOrigin))

	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	api := router.Group("/api")
	if redisClient != nil {
		api.Use(middleware.RateLimit(redisClient, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
	}
	roomRoutes := api.Group("/rooms", middleware.Auth(cfg.JWTSecret))
	{
		roomRoutes.POST("", h.Room.CreateRoom)
		roomRoutes.POST("/join", h.Room.JoinRoom)
		roomRoutes.GET("/:roomId", h.Room.GetRoom)
		roomRoutes.GET("/:roomId/shapes", h.Shape.ListShapes)
	}

	router.GET("/ws", middleware.Auth(cfg.JWTSecret), h.WS.HandleConnection)
	return router
}

// Start launches the hub, the worker and the HTTP listener in the background.
func (a *App) Start() error {
	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	if err := a.Worker.Start(); err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()

	if a.Config.MDNSEnabled {
		port, _ := strconv.Atoi(a.Config.ServerPort)
		adv, err := discovery.Advertise(a.Config.MDNSInstance, port)
		if err != nil {
			a.Log.WithError(err).Warn("mDNS advertisement disabled")
		} else {
			a.advertiser = adv
		}
	}
	return nil
}

// Shutdown stops accepting requests, closes live sockets and releases the
// infrastructure clients.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	if err := a.advertiser.Shutdown(); err != nil {
		a.Log.WithError(err).Warn("Error stopping mDNS advertisement")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// Hijacked WebSocket connections are not closed by http.Server.Shutdown.
	a.Hub.Shutdown()
	a.Worker.Shutdown()

	if err := a.AsynqClient.Close(); err != nil {
		a.Log.Errorf("Error closing Asynq client: %v", err)
	}
	if err := a.RedisClient.Close(); err != nil {
		a.Log.Errorf("Error closing Redis connection: %v", err)
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}
	a.Log.Info("Application shutdown complete.")
}
