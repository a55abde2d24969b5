package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MigrationsPath - источник миграций для golang-migrate
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Enabled: без Redis лидерборд не кешируется, а rate limit не применяется
	Enabled bool `mapstructure:"enabled"`

	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// KeyPrefix: префикс ключей кеша
	KeyPrefix string `mapstructure:"key_prefix"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// RateLimitConfig - лимит попыток register/login с одного IP
type RateLimitConfig struct {
	AuthMaxRequests int           `mapstructure:"auth_max_requests"`
	AuthWindow      time.Duration `mapstructure:"auth_window"`
}

// LeaderboardConfig - кеширование лидерборда
type LeaderboardConfig struct {
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	MaxPageSize int           `mapstructure:"max_page_size"`
}

// CORSConfig - разрешённые источники для браузерных клиентов
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// PostgresURL формирует URL подключения для golang-migrate
func (d *DatabaseConfig) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)

	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_path", "file://migrations")

	vip.SetDefault("redis.enabled", true)
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.key_prefix", "wordduel:")

	vip.SetDefault("ratelimit.auth_max_requests", 10)
	vip.SetDefault("ratelimit.auth_window", time.Minute)

	vip.SetDefault("leaderboard.cache_ttl", 30*time.Second)
	vip.SetDefault("leaderboard.max_page_size", 100)

	vip.SetDefault("cors.allow_origins", []string{"http://localhost:3000", "http://localhost:5173"})
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Новый экземпляр Viper, чтобы избежать глобального состояния

	setDefaults(vip)

	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	vip.BindEnv("database.migrations_path", "DATABASE_MIGRATIONS_PATH")

	// Привязка для секции Redis
	vip.BindEnv("redis.enabled", "REDIS_ENABLED")
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// Rate limit и лидерборд
	vip.BindEnv("ratelimit.auth_max_requests", "RATELIMIT_AUTH_MAX_REQUESTS")
	vip.BindEnv("ratelimit.auth_window", "RATELIMIT_AUTH_WINDOW")
	vip.BindEnv("leaderboard.cache_ttl", "LEADERBOARD_CACHE_TTL")
	vip.BindEnv("leaderboard.max_page_size", "LEADERBOARD_MAX_PAGE_SIZE")

	vip.BindEnv("cors.allow_origins", "CORS_ALLOW_ORIGINS")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файла может не быть: тогда работают переменные окружения и умолчания
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database User: %s", cfg.Database.User)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Database SSLMode: %s", cfg.Database.SSLMode)
		log.Printf("Redis Enabled: %t, Mode: %s, Addr: %s", cfg.Redis.Enabled, cfg.Redis.Mode, cfg.Redis.Addr)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Auth rate limit: %d / %s", cfg.RateLimit.AuthMaxRequests, cfg.RateLimit.AuthWindow)
		log.Printf("Leaderboard cache TTL: %s", cfg.Leaderboard.CacheTTL)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if os.Getenv("GIN_MODE") == "release" && c.Database.Password == "" {
		return fmt.Errorf("database password is required in release mode (check DATABASE_PASSWORD env var)")
	}
	if c.Redis.Enabled && len(c.Redis.Addrs) == 0 && c.Redis.Addr == "" {
		return fmt.Errorf("redis is enabled but neither REDIS_ADDRS nor REDIS_ADDR is set")
	}
	if c.Leaderboard.MaxPageSize < 1 {
		return fmt.Errorf("leaderboard.max_page_size must be positive")
	}
	return nil
}
