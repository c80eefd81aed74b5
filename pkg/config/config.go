package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	NATS     NATSConfig // domain events -> websocket
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Log      LogConfig
	Reminder ReminderConfig
	Telegram TelegramConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	CORSOrigins string // comma-separated, "*" = ทุก origin
}

type DatabaseConfig struct {
	Driver    string // postgres, sqlite
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	SSLMode   string
	SQLiteDSN string
	LogLevel  string // silent, error, warn, info
}

// RedisConfig cache หน้า categories (ว่าง = ไม่ใช้ cache)
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

// NATSConfig ว่าง = ไม่ส่ง event (websocket ไม่มี realtime update)
type NATSConfig struct {
	URL           string // nats://localhost:4222
	SubjectPrefix string // todo.events
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthConfig พฤติกรรมตอนยังไม่ login
type AuthConfig struct {
	LoginURL   string  // redirect ไปหน้านี้ถ้า client ขอ HTML
	CookieName string  // อ่าน token จาก cookie ได้ด้วย
	RateLimit  float64 // request ต่อวินาทีต่อ IP (0 = ปิด)
	RateBurst  int
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type ReminderConfig struct {
	Enabled  bool
	Cron     string // 0 8 * * *
	Timezone string
}

type TelegramConfig struct {
	BotToken string
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "168h"))
	if err != nil {
		jwtTTL = 7 * 24 * time.Hour
	}

	rateLimit, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	rateBurst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40"))

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Todo"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Driver:    getEnv("DB_DRIVER", "postgres"),
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "5432"),
			User:      getEnv("DB_USER", "postgres"),
			Password:  getEnv("DB_PASSWORD", ""),
			DBName:    getEnv("DB_NAME", "todo"),
			SSLMode:   getEnv("DB_SSL_MODE", "disable"),
			SQLiteDSN: getEnv("DB_SQLITE_DSN", "data/todo.db"),
			LogLevel:  getEnv("DB_LOG_LEVEL", "warn"),
		},
		NATS: NATSConfig{
			URL:           os.Getenv("NATS_URL"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "todo.events"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			TTL:    jwtTTL,
		},
		Auth: AuthConfig{
			LoginURL:   getEnv("AUTH_LOGIN_URL", "/login"),
			CookieName: getEnv("AUTH_COOKIE_NAME", "auth_token"),
			RateLimit:  rateLimit,
			RateBurst:  rateBurst,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "both"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Reminder: ReminderConfig{
			Enabled:  getEnv("REMINDER_ENABLED", "false") == "true",
			Cron:     getEnv("REMINDER_CRON", "0 8 * * *"),
			Timezone: getEnv("REMINDER_TIMEZONE", "UTC"),
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// AllowedOrigins แปลง CORS_ORIGINS เป็น slice
func (c *AppConfig) AllowedOrigins() []string {
	var origins []string
	for _, p := range strings.Split(c.CORSOrigins, ",") {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
