// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort        = 8080
	defaultServerHost        = "0.0.0.0"
	defaultReadTimeout       = 30 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultDatabasePath      = "./data/youkebox.db"
	defaultLogLevel          = "info"
	defaultLogPretty         = false
	defaultPollInterval      = 250 * time.Millisecond
	defaultIdleRetryInterval = 1 * time.Second
	defaultYouTubeBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultArtworkDir        = "./data/artwork"
	envPrefix                = "YOUKEBOX"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Player   PlayerConfig
	YouTube  YouTubeConfig
	Artwork  ArtworkConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// PlayerConfig holds playback scheduler tuning.
// PollInterval bounds how quickly a skip or stop takes effect while a
// video is playing; IdleRetryInterval bounds how quickly a freshly
// enqueued video is picked up in an idle room.
type PlayerConfig struct {
	PollInterval      time.Duration
	IdleRetryInterval time.Duration
}

// YouTubeConfig holds the external metadata API configuration
type YouTubeConfig struct {
	APIKey  string
	BaseURL string
}

// ArtworkConfig holds room artwork storage configuration
type ArtworkConfig struct {
	Dir string
}

// Load reads configuration from .env file, config files, environment variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/youkebox")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)

	v.SetDefault("player.pollinterval", defaultPollInterval)
	v.SetDefault("player.idleretryinterval", defaultIdleRetryInterval)

	v.SetDefault("youtube.baseurl", defaultYouTubeBaseURL)

	v.SetDefault("artwork.dir", defaultArtworkDir)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	if c.Player.PollInterval <= 0 {
		return fmt.Errorf("invalid poll interval: %v (must be > 0)", c.Player.PollInterval)
	}
	if c.Player.IdleRetryInterval <= 0 {
		return fmt.Errorf("invalid idle retry interval: %v (must be > 0)", c.Player.IdleRetryInterval)
	}

	if c.YouTube.BaseURL == "" {
		return fmt.Errorf("youtube base url must not be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
