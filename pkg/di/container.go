package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gofiber-todo/application/serviceimpl"
	"gofiber-todo/domain/ports"
	"gofiber-todo/domain/repositories"
	"gofiber-todo/domain/services"
	"gofiber-todo/infrastructure/messaging"
	natspkg "gofiber-todo/infrastructure/nats"
	"gofiber-todo/infrastructure/postgres"
	redispkg "gofiber-todo/infrastructure/redis"
	"gofiber-todo/infrastructure/telegram"
	"gofiber-todo/infrastructure/websocket"
	"gofiber-todo/interfaces/api/handlers"
	"gofiber-todo/interfaces/api/middleware"
	"gofiber-todo/interfaces/api/routes"
	"gofiber-todo/pkg/config"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/scheduler"

	"golang.org/x/time/rate"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client // cache หน้า categories (optional)
	NATSClient     *natspkg.Client  // domain events (optional)
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository     repositories.UserRepository
	TaskRepository     repositories.TaskRepository
	CategoryRepository repositories.CategoryRepository

	// Services
	UserService     services.UserService
	TaskService     services.TaskService
	CategoryService services.CategoryService
	ReminderService services.ReminderService

	// Messaging Ports
	EventPublisher  ports.EventPublisherPort
	EventSubscriber ports.EventSubscriberPort
	Cache           ports.CachePort
	Notifier        ports.NotifierPort

	// WebSocket
	Hub              *websocket.Hub
	EventBroadcaster *websocket.EventBroadcaster

	hubCancel context.CancelFunc
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initNotifications(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	if err := c.initRealtime(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:    c.Config.Database.Driver,
		Host:      c.Config.Database.Host,
		Port:      c.Config.Database.Port,
		User:      c.Config.Database.User,
		Password:  c.Config.Database.Password,
		DBName:    c.Config.Database.DBName,
		SSLMode:   c.Config.Database.SSLMode,
		SQLiteDSN: c.Config.Database.SQLiteDSN,
		LogLevel:  c.Config.Database.LogLevel,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", c.Config.Database.Driver, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Redis (optional - graceful degradation)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.Cache = redisClient
			logger.Info("Redis client initialized")
		}
	} else {
		logger.Info("Redis not configured, category view cache disabled")
	}

	// NATS (optional) ไม่มี = ไม่มี realtime update
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.initMessagingPorts()
			logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
		}
	} else {
		logger.Info("NATS not configured, domain events disabled")
	}

	return nil
}

func (c *Container) initMessagingPorts() {
	prefix := c.Config.NATS.SubjectPrefix
	conn := c.NATSClient.Conn()

	c.EventPublisher = messaging.NewNATSEventPublisher(conn, prefix)
	c.EventSubscriber = messaging.NewNATSEventSubscriber(natspkg.NewSubscriber(conn, prefix))
	logger.Info("Messaging ports initialized", "prefix", prefix)
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.CategoryRepository = postgres.NewCategoryRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initNotifications() error {
	notifier, err := telegram.NewTelegramNotifier(c.Config.Telegram.BotToken)
	if err != nil {
		// token ผิดไม่ควรทำให้ API ล่ม
		logger.Warn("Telegram notifier initialization failed (reminders disabled)", "error", err)
		notifier = telegram.NewTelegramNotifierWithSender(nil)
	}
	c.Notifier = notifier
	logger.Info("Telegram notifier initialized", "enabled", c.Notifier.IsEnabled())
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret, c.Config.JWT.TTL)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.CategoryRepository, c.EventPublisher, c.Cache)
	c.CategoryService = serviceimpl.NewCategoryService(c.CategoryRepository, c.EventPublisher, c.Cache)
	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	loc, err := time.LoadLocation(c.Config.Reminder.Timezone)
	if err != nil {
		logger.Warn("Invalid reminder timezone, falling back to UTC", "timezone", c.Config.Reminder.Timezone, "error", err)
		loc = time.UTC
	}

	c.EventScheduler = scheduler.NewEventScheduler(loc)
	c.ReminderService = serviceimpl.NewReminderService(
		c.UserRepository,
		c.TaskRepository,
		c.Notifier,
		c.EventPublisher,
		c.EventScheduler,
	)

	if !c.Config.Reminder.Enabled {
		logger.Info("Reminder digest disabled")
		return nil
	}

	if err := c.ReminderService.Schedule(c.Config.Reminder.Cron); err != nil {
		return err
	}
	c.EventScheduler.Start()
	logger.Info("Event scheduler started", "cron", c.Config.Reminder.Cron, "timezone", loc.String())
	return nil
}

func (c *Container) initRealtime() error {
	c.Hub = websocket.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	c.hubCancel = cancel
	go c.Hub.Run(ctx)

	if c.EventSubscriber == nil {
		logger.Warn("Event subscriber not available, websocket will not receive updates")
		return nil
	}

	c.EventBroadcaster = websocket.NewEventBroadcaster(c.EventSubscriber, c.Hub)
	if err := c.EventBroadcaster.Start(); err != nil {
		logger.Warn("Failed to start event broadcaster", "error", err)
		return nil
	}

	logger.Info("Event broadcaster started (NATS → WebSocket)")
	return nil
}

// HealthCheck สถานะ dependency สำหรับ /health
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{
		"database": "ok",
		"redis":    "disabled",
		"nats":     "disabled",
	}

	if sqlDB, err := c.DB.DB(); err != nil {
		status["database"] = "error"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		status["database"] = "error"
	}

	if c.RedisClient != nil {
		status["redis"] = "ok"
		if err := c.RedisClient.Ping(ctx); err != nil {
			status["redis"] = "error"
		}
	}

	if c.NATSClient != nil {
		status["nats"] = "ok"
		if !c.NATSClient.IsConnected() {
			status["nats"] = "error"
		}
	}

	return status
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventBroadcaster != nil {
		c.EventBroadcaster.Stop()
		logger.Info("Event broadcaster stopped")
	}

	if c.hubCancel != nil {
		c.hubCancel()
		logger.Info("WebSocket hub stopped")
	}

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.NATSClient != nil {
		c.NATSClient.Close()
		logger.Info("NATS connection closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:     c.UserService,
		TaskService:     c.TaskService,
		CategoryService: c.CategoryService,
		AuthCookie: handlers.CookieConfig{
			Name:   c.Config.Auth.CookieName,
			TTL:    c.Config.JWT.TTL,
			Secure: c.Config.IsProduction(),
		},
	}
}

func (c *Container) GetRouteOptions() routes.Options {
	return routes.Options{
		Auth: middleware.AuthConfig{
			JWTSecret:  c.Config.JWT.Secret,
			LoginURL:   c.Config.Auth.LoginURL,
			CookieName: c.Config.Auth.CookieName,
		},
		RateLimit: rate.Limit(c.Config.Auth.RateLimit),
		RateBurst: c.Config.Auth.RateBurst,
		Hub:       c.Hub,
		Health:    c.HealthCheck,
	}
}
