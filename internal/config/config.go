package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	VK        VKConfig        `yaml:"vk"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Admin     AdminConfig     `yaml:"admin"`
	Bot       BotConfig       `yaml:"bot"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// VKConfig holds social network API configuration
type VKConfig struct {
	GroupToken        string        `yaml:"group_token"`
	UserToken         string        `yaml:"user_token"`
	GroupID           int64         `yaml:"group_id"`
	APIVersion        string        `yaml:"api_version"`
	BaseURL           string        `yaml:"base_url"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RetryAttempts     uint          `yaml:"retry_attempts"`
	Timeout           time.Duration `yaml:"timeout"`
	LongPollWait      int           `yaml:"long_poll_wait"`
	// Callback API, used instead of long poll when enabled
	CallbackEnabled  bool   `yaml:"callback_enabled"`
	CallbackSecret   string `yaml:"callback_secret"`
	ConfirmationCode string `yaml:"confirmation_code"`
}

// DiscoveryConfig holds partner search parameters
type DiscoveryConfig struct {
	AgeSpread     int    `yaml:"age_spread"`
	SearchStatus  int    `yaml:"search_status"`
	PageSize      int    `yaml:"page_size"`
	TopPhotos     int    `yaml:"top_photos"`
	ProfileDomain string `yaml:"profile_domain"`
	SkipFavorites bool   `yaml:"skip_favorites"`
}

// AdminConfig holds admin API and chat control configuration
type AdminConfig struct {
	JWTSecret string  `yaml:"jwt_secret"`
	UserIDs   []int64 `yaml:"user_ids"`
}

// BotConfig holds chat presentation settings
type BotConfig struct {
	// RepositoryURL is linked from the greeting, omitted when empty
	RepositoryURL string `yaml:"repository_url"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used for keys missing from the file
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			DBName:  "VKinder",
			SSLMode: "disable",
		},
		VK: VKConfig{
			APIVersion:        "5.199",
			BaseURL:           "https://api.vk.com/method/",
			RequestsPerSecond: 3,
			RetryAttempts:     3,
			Timeout:           30 * time.Second,
			LongPollWait:      25,
		},
		Discovery: DiscoveryConfig{
			AgeSpread:     5,
			SearchStatus:  6, // actively searching
			PageSize:      1000,
			TopPhotos:     3,
			ProfileDomain: "vk.com",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// applyEnv overrides secrets from the environment
func (c *Config) applyEnv() {
	if v := os.Getenv("VKGROUPTOKEN"); v != "" {
		c.VK.GroupToken = v
	}
	if v := os.Getenv("VKUSERTOKEN"); v != "" {
		c.VK.UserToken = v
	}
	if v := os.Getenv("PSQLPASS"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		c.Admin.JWTSecret = v
	}
}

// Validate checks that required settings are present
func (c *Config) Validate() error {
	if c.VK.GroupToken == "" {
		return fmt.Errorf("vk.group_token is required")
	}
	if c.VK.UserToken == "" {
		return fmt.Errorf("vk.user_token is required")
	}
	if c.VK.GroupID == 0 {
		return fmt.Errorf("vk.group_id is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.VK.CallbackEnabled && c.VK.ConfirmationCode == "" {
		return fmt.Errorf("vk.confirmation_code is required when callback is enabled")
	}
	if c.Discovery.TopPhotos <= 0 {
		return fmt.Errorf("discovery.top_photos must be positive")
	}
	if c.Discovery.PageSize <= 0 || c.Discovery.PageSize > 1000 {
		return fmt.Errorf("discovery.page_size must be between 1 and 1000")
	}
	return nil
}

// IsAdmin reports whether the user may control the bot from chat
func (c *AdminConfig) IsAdmin(userID int64) bool {
	for _, id := range c.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
