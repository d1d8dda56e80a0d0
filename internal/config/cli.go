package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CLIConfig настройки gradectl. Базе данных и секретам сервера они не нужны
type CLIConfig struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	BaseURL     string `mapstructure:"BASE_URL"`
	Token       string `mapstructure:"GRADECTL_TOKEN"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
}

var cliKeys = []string{"ENV", "LOG_LEVEL", "BASE_URL", "GRADECTL_TOKEN", "JWT_SECRET"}

// LoadCLI читает .env, если он есть, и переменные окружения
func LoadCLI() (*CLIConfig, error) {
	_ = godotenv.Load(".env")
	return CLIFromViper(newCLIViper())
}

func newCLIViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("BASE_URL", "http://localhost:8080")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range cliKeys {
		_ = v.BindEnv(k)
	}

	return v
}

// CLIFromViper собирает настройки gradectl из готового экземпляра viper
func CLIFromViper(v *viper.Viper) (*CLIConfig, error) {
	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode cli config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL must not be empty")
	}
	return &cfg, nil
}
