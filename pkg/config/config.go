package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	// Required: sessions are unusable without a signing secret, so
	// startup fails instead of falling back to an insecure default.
	SessionSecret string `mapstructure:"session_secret"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional storage and asset settings
	DBPath    string `mapstructure:"db_path"`
	StaticDir string `mapstructure:"static_dir"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional session settings
	SessionTTLHours int `mapstructure:"session_ttl_hours"`

	ConfigPath string
}

const (
	DefaultConfigPath      = "config.yml"
	DefaultAPIHost         = "127.0.0.1"
	DefaultAPIPort         = 8080
	DefaultDBPath          = "users.db"
	DefaultStaticDir       = "web/static"
	DefaultSessionTTLHours = 24
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("static_dir", DefaultStaticDir)
	v.SetDefault("session_ttl_hours", DefaultSessionTTLHours)

	// Allow environment variable overrides
	v.SetEnvPrefix("AUTHDESK")
	v.AutomaticEnv()
	_ = v.BindEnv("session_secret")

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// Default config file is optional; the environment can carry
		// the whole configuration.
		v.SetConfigFile(DefaultConfigPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		configPath = DefaultConfigPath
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret is required (set it in the config file or AUTHDESK_SESSION_SECRET)")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535")
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("AUTHDESK_DEV_MODE") == "1"
}
