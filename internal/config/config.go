package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration.
// Expiration must be a duration string in the config file ("1h", "60m").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// GeminiConfig configures the plan generator backend. Timeout bounds a
// single generation call; generation is slow, so it defaults well above
// normal HTTP client timeouts.
type GeminiConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Nested keys map to env vars with underscores:
	// gemini.api_key -> GEMINI_API_KEY
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fitness_ai")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.endpoint", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.timeout", "90s")
	viper.SetDefault("logging.level", "info")

	err = viper.ReadInConfig()
	// A missing config file is fine: defaults plus env vars are enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
