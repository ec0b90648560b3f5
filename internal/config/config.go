package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"steamsync-api/internal/repository"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Auth       AuthConfig
	Steam      SteamConfig
	Cache      CacheConfig
	Database   DatabaseConfig
	Pagination PaginationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8000"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"steamsync-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// AuthConfig holds token signing and admin bootstrap settings.
type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Seeded at startup when both are set and the admin does not exist yet.
	BootstrapAdminUsername string `envconfig:"ADMIN_USERNAME" default:""`
	BootstrapAdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

// SteamConfig holds upstream Steam API settings.
type SteamConfig struct {
	APIKey       string        `envconfig:"STEAM_API_KEY" required:"true"`
	APIBaseURL   string        `envconfig:"STEAM_API_BASE_URL" default:"https://api.steampowered.com"`
	StoreBaseURL string        `envconfig:"STEAM_STORE_BASE_URL" default:"https://store.steampowered.com"`
	CommunityURL string        `envconfig:"STEAM_COMMUNITY_BASE_URL" default:"https://steamcommunity.com"`
	Timeout      time.Duration `envconfig:"STEAM_TIMEOUT" default:"10s"`
	GameCacheTTL time.Duration `envconfig:"STEAM_GAME_CACHE_TTL" default:"6h"`
}

// CacheConfig holds cache settings for upstream game details.
type CacheConfig struct {
	Type string `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"steamsync:cache"`
}

// DatabaseConfig holds relational store settings.
type DatabaseConfig struct {
	Type string `envconfig:"DB_TYPE" default:"sqlite"` // sqlite, postgres or mysql
	Path string `envconfig:"DB_PATH" default:"./data/steamsync.db"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"steamsync"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASS" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// PaginationConfig bounds list endpoints.
type PaginationConfig struct {
	DefaultLimit int `envconfig:"PAGINATION_DEFAULT_LIMIT" default:"20"`
	MinLimit     int `envconfig:"PAGINATION_MIN_LIMIT" default:"1"`
	MaxLimit     int `envconfig:"PAGINATION_MAX_LIMIT" default:"100"`
}

// Dialect normalizes DB_TYPE, accepting the same aliases as the repository layer.
func (d *DatabaseConfig) Dialect() (repository.Dialect, error) {
	return repository.ParseDialect(d.Type)
}

// DSN returns the driver-specific data source name for the configured type.
// An unsupported type yields the sqlite DSN; Load rejects it before that matters.
func (d *DatabaseConfig) DSN() string {
	dialect, _ := d.Dialect()
	switch dialect {
	case repository.DialectPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
	case repository.DialectMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&clientFoundRows=true",
			d.User, d.Password, d.Host, d.Port, d.Name)
	default:
		return fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", d.Path)
	}
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("failed to load config: JWT_SECRET is empty")
	}
	if cfg.Steam.APIKey == "" {
		return nil, fmt.Errorf("failed to load config: STEAM_API_KEY is empty")
	}
	if _, err := cfg.Database.Dialect(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
// A missing JWT_SECRET or STEAM_API_KEY is fatal here, never at request time.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
