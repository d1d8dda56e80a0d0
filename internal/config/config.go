package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	PrefsBackendPostgres = "postgres"
	PrefsBackendBolt     = "bolt"
)

type Config struct {
	Environment   string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr      string        `mapstructure:"HTTP_ADDR"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	RunMigrations bool          `mapstructure:"RUN_MIGRATIONS"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	PrefsBackend  string        `mapstructure:"PREFS_BACKEND"`
	PrefsBoltPath string        `mapstructure:"PREFS_BOLT_PATH"`
	PrefsCacheTTL time.Duration `mapstructure:"PREFS_CACHE_TTL"`
	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	CSRFKey       string        `mapstructure:"CSRF_KEY"`
	CookieSecure  bool          `mapstructure:"COOKIE_SECURE"`
	TelegramToken string        `mapstructure:"TELEGRAM_TOKEN"`
	GridPageSize  int           `mapstructure:"GRID_PAGE_SIZE"`
	Timezone      string        `mapstructure:"TIMEZONE"`
}

var keys = []string{
	"ENV", "LOG_LEVEL", "HTTP_ADDR", "DB_DSN", "RUN_MIGRATIONS",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"PREFS_BACKEND", "PREFS_BOLT_PATH", "PREFS_CACHE_TTL",
	"JWT_SECRET", "CSRF_KEY", "COOKIE_SECURE",
	"TELEGRAM_TOKEN", "GRID_PAGE_SIZE", "TIMEZONE",
}

// Load читает .env (если есть), затем переменные окружения поверх значений по умолчанию
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PREFS_BACKEND", PrefsBackendPostgres)
	v.SetDefault("PREFS_BOLT_PATH", "data/prefs.db")
	v.SetDefault("PREFS_CACHE_TTL", "24h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("GRID_PAGE_SIZE", 50)
	v.SetDefault("TIMEZONE", "UTC")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv не участвует в Unmarshal для ключей без значения по умолчанию
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	return v
}

// FromViper собирает и проверяет конфигурацию из готового экземпляра viper
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if len(c.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(c.CSRFKey))
	}
	if c.PrefsBackend != PrefsBackendPostgres && c.PrefsBackend != PrefsBackendBolt {
		return fmt.Errorf("PREFS_BACKEND must be %q or %q, got %q", PrefsBackendPostgres, PrefsBackendBolt, c.PrefsBackend)
	}
	if c.GridPageSize <= 0 {
		return fmt.Errorf("GRID_PAGE_SIZE must be positive, got %d", c.GridPageSize)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

// Location возвращает часовой пояс для отображения слотов
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
