package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sync"
	"time"

	apperrors "a11yowl/pkg/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env       string          `mapstructure:"env"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Poll      PollConfig      `mapstructure:"poll"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Discord   DiscordConfig   `mapstructure:"discord"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SecureCookies   bool          `mapstructure:"secure_cookies"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// RateLimitConfig bounds scan submissions per visitor. A zero
// PerMinute disables limiting.
type RateLimitConfig struct {
	PerMinute float64 `mapstructure:"per_minute"`
	Burst     int     `mapstructure:"burst"`
}

type StoreConfig struct {
	Backend       string        `mapstructure:"backend"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type DiscordConfig struct {
	Token     string `mapstructure:"token"`
	ChannelID string `mapstructure:"channel_id"`
}

type TelemetryConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Headers     string `mapstructure:"headers"`
	ServiceName string `mapstructure:"service_name"`
}

// Defaults returns every key with its default value.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"env":                     "development",
		"log.level":               "info",
		"server.host":             "0.0.0.0",
		"server.port":             3000,
		"server.shutdown_timeout": 10 * time.Second,
		"server.secure_cookies":   false,
		"backend.base_url":        "http://localhost:8000",
		"backend.timeout":         30 * time.Second,
		"poll.timeout":            120 * time.Second,
		"poll.tick_interval":      time.Second,
		"rate_limit.per_minute":   6.0,
		"rate_limit.burst":        3,
		"store.backend":           StoreMemory,
		"store.key_prefix":        "a11yowl:",
		"store.ttl":               90 * 24 * time.Hour,
		"store.redis_addr":        "localhost:6379",
		"store.redis_password":    "",
		"store.redis_db":          0,
		"database.host":           "localhost",
		"database.port":           5432,
		"database.user":           "a11yowl",
		"database.password":       "a11yowl",
		"database.name":           "a11yowl",
		"database.sslmode":        "disable",
		"discord.token":           "",
		"discord.channel_id":      "",
		"telemetry.endpoint":      "",
		"telemetry.headers":       "",
		"telemetry.service_name":  "a11yowl-web",
	}
}

// Loader reads configuration and keeps it current while the config file
// changes.
type Loader struct {
	v *viper.Viper

	mu        sync.RWMutex
	current   *Config
	listeners []func(*Config)
}

// Load reads .env (when present), the optional a11yowl.yaml and A11YOWL_*
// environment variables.
func Load(configPath string) (*Loader, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	if configPath == "" {
		configPath = GetConfigPath()
	}

	v, err := NewViperConfigWithOptions(ConfigOptions{
		ConfigPath:  configPath,
		ConfigName:  "a11yowl",
		ConfigType:  "yaml",
		EnvPrefix:   "A11YOWL",
		DefaultsMap: Defaults(),
	})
	if err != nil {
		return nil, err
	}

	// Deployment environments set the backend URL without our prefix.
	if err := v.BindEnv("backend.base_url", "A11YOWL_BACKEND_BASE_URL", "API_URL", "NEXT_PUBLIC_API_URL"); err != nil {
		return nil, fmt.Errorf("binding backend url env: %w", err)
	}
	if err := v.BindEnv("discord.token", "A11YOWL_DISCORD_TOKEN", "DISCORD_TOKEN"); err != nil {
		return nil, fmt.Errorf("binding discord token env: %w", err)
	}
	if err := v.BindEnv("env", "A11YOWL_ENV", "ENV"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &Loader{v: v, current: cfg}, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return apperrors.NewConfigError("server.port", c.Server.Port, "must be between 0 and 65535")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("backend.base_url", c.Backend.BaseURL, "must be an absolute http(s) URL")
	}
	if c.RateLimit.PerMinute < 0 {
		return apperrors.NewConfigError("rate_limit.per_minute", c.RateLimit.PerMinute, "must not be negative")
	}
	if c.RateLimit.PerMinute > 0 && c.RateLimit.Burst < 1 {
		return apperrors.NewConfigError("rate_limit.burst", c.RateLimit.Burst, "must be at least 1 when limiting is enabled")
	}
	switch c.Store.Backend {
	case StoreMemory, StoreRedis, StorePostgres:
	default:
		return apperrors.NewConfigError("store.backend", c.Store.Backend, "must be one of memory, redis, postgres")
	}
	if c.Poll.Timeout <= 0 {
		return apperrors.NewConfigError("poll.timeout", c.Poll.Timeout, "must be positive")
	}
	return nil
}

// Config returns the latest valid configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers fn to run after every successful reload.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// Watch reloads the config file when it changes on disk. Invalid edits are
// logged and ignored; the previous configuration stays in effect.
func (l *Loader) Watch() {
	if l.v.ConfigFileUsed() == "" {
		log.Debug("No config file in use, not watching for changes")
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.reload(e.Name)
	})
	l.v.WatchConfig()
	log.Infof("Watching config file %s for changes", l.v.ConfigFileUsed())
}

func (l *Loader) reload(name string) {
	cfg, err := decode(l.v)
	if err != nil {
		log.WithError(err).Warnf("Ignoring invalid config change in %s", name)
		return
	}

	l.mu.Lock()
	l.current = cfg
	listeners := append([]func(*Config){}, l.listeners...)
	l.mu.Unlock()

	log.Infof("Reloaded config from %s", name)
	for _, fn := range listeners {
		fn(cfg)
	}
}
