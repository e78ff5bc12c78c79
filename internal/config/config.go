package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultHomeDir = ".walletauth"

// Session store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config contains client and development backend configuration parameters.
type Config struct {
	LogLevel   int     `env:"LOG_LEVEL" envDefault:"0"`
	AppName    string  `env:"APP_NAME" envDefault:"Litentry"`
	StorageKey string  `env:"STORAGE_KEY" envDefault:"litentry"`
	API        API     `envPrefix:"API_"`
	Session    Session `envPrefix:"SESSION_"`
	Redis      Redis   `envPrefix:"REDIS_"`
	Wallet     Wallet  `envPrefix:"WALLET_"`
	Events     Events  `envPrefix:"EVENTS_"`
	Server     Server  `envPrefix:"SERVER_"`
}

// API contains backend connection parameters.
type API struct {
	URL string `env:"URL" envDefault:"http://localhost:3001/api/v1"`
}

// Session contains session persistence parameters.
type Session struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	Dir     string `env:"DIR"`
}

// Redis contains redis connection parameters.
type Redis struct {
	URL string `env:"URL" envDefault:"redis://localhost:6379/0"`
}

// Wallet contains local keyring parameters.
type Wallet struct {
	KeyFile string `env:"KEY_FILE"`
}

// Events contains notification stream parameters.
type Events struct {
	Stream bool   `env:"STREAM" envDefault:"false"`
	Topic  string `env:"TOPIC" envDefault:"walletauth.notifications"`
}

// Server contains development backend parameters.
type Server struct {
	Addr       string        `env:"ADDR" envDefault:":3001"`
	BasePath   string        `env:"BASE_PATH" envDefault:"/api/v1"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Session.Backend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	if cfg.Session.Dir == "" || cfg.Wallet.KeyFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		if cfg.Session.Dir == "" {
			cfg.Session.Dir = filepath.Join(home, defaultHomeDir)
		}
		if cfg.Wallet.KeyFile == "" {
			cfg.Wallet.KeyFile = filepath.Join(home, defaultHomeDir, "keys")
		}
	}

	return &cfg, nil
}

// Origin returns the scheme and host of the backend URL. Persisted sessions are scoped to it.
func (a API) Origin() (string, error) {
	u, err := url.Parse(a.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("api url %q must be absolute", a.URL)
	}
	return u.Scheme + "://" + u.Host, nil
}
