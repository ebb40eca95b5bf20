package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string        `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI       string        `env:"DATABASE_URI"`
	PublicBaseURL     string        `env:"PUBLIC_BASE_URL"`
	TokenSecret       string        `env:"TOKEN_SECRET" envDefault:"change-me-in-production"`
	ClerkPasswordHash string        `env:"CLERK_PASSWORD_HASH"`
	ClerkSessionTTL   time.Duration `env:"CLERK_SESSION_TTL" envDefault:"12h"`
	CORSOrigins       []string      `env:"CORS_ORIGINS" envSeparator:","`
	QRSize            int           `env:"QR_SIZE" envDefault:"300"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Notify NotifyConfig
}

// NotifyConfig configures delivery of gift links to an outbound webhook.
type NotifyConfig struct {
	WebhookURL   string        `env:"NOTIFY_WEBHOOK_URL"`
	PollInterval time.Duration `env:"NOTIFY_POLL_INTERVAL" envDefault:"3s"`
	Workers      int           `env:"NOTIFY_WORKERS" envDefault:"2"`
	BatchSize    int           `env:"NOTIFY_BATCH_SIZE" envDefault:"16"`
	MaxAttempts  int           `env:"NOTIFY_MAX_ATTEMPTS" envDefault:"5"`
	Lease        time.Duration `env:"NOTIFY_LEASE" envDefault:"1m"`
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultQRSize          = 300
	defaultShutdownTimeout = 10 * time.Second
	defaultClerkSessionTTL = 12 * time.Hour
	defaultPollInterval    = 3 * time.Second
	defaultWorkers         = 2
	defaultBatchSize       = 16
	defaultMaxAttempts     = 5
	defaultLease           = time.Minute
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], environMap(os.Environ()))
}

// NotificationsEnabled reports whether gift links should be pushed to a webhook.
func (c *Config) NotificationsEnabled() bool {
	return c.Notify.WebhookURL != ""
}

// ClerkAuthEnabled reports whether redemption requires a clerk session.
func (c *Config) ClerkAuthEnabled() bool {
	return c.ClerkPasswordHash != ""
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flags := flag.NewFlagSet("giftpromo", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "Database URI (postgres://... or sqlite://path)")
	flags.StringVar(&cfg.PublicBaseURL, "base-url", cfg.PublicBaseURL, "Public base URL used in gift links and QR codes")
	flags.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing clerk session tokens")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, text)")
	flags.IntVar(&cfg.QRSize, "qr-size", cfg.QRSize, "QR image size in pixels")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	flags.DurationVar(&cfg.ClerkSessionTTL, "clerk-session-ttl", cfg.ClerkSessionTTL, "Lifetime of clerk session tokens")
	flags.StringVar(&cfg.Notify.WebhookURL, "notify-url", cfg.Notify.WebhookURL, "Webhook receiving gift link notifications")
	flags.DurationVar(&cfg.Notify.PollInterval, "notify-interval", cfg.Notify.PollInterval, "Interval between notification polls")
	flags.IntVar(&cfg.Notify.Workers, "notify-workers", cfg.Notify.Workers, "Number of concurrent notification workers")
	flags.IntVar(&cfg.Notify.BatchSize, "notify-batch", cfg.Notify.BatchSize, "Maximum notifications per polling batch")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if secretFile := environ["TOKEN_SECRET_FILE"]; secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if hashFile := environ["CLERK_PASSWORD_HASH_FILE"]; hashFile != "" {
		content, err := os.ReadFile(hashFile)
		if err != nil {
			return nil, fmt.Errorf("read clerk password hash file: %w", err)
		}
		cfg.ClerkPasswordHash = strings.TrimSpace(string(content))
	}

	cfg.normalize()

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.ClerkAuthEnabled() && cfg.TokenSecret == defaultTokenSecret {
		return nil, fmt.Errorf("token secret must be set when clerk auth is enabled")
	}

	if cfg.NotificationsEnabled() && cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base URL must be provided when notifications are enabled")
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")

	if c.RunAddress == "" {
		c.RunAddress = defaultRunAddress
	}
	c.TokenSecret = strings.TrimSpace(c.TokenSecret)
	if c.TokenSecret == "" {
		c.TokenSecret = defaultTokenSecret
	}
	if c.QRSize <= 0 {
		c.QRSize = defaultQRSize
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.ClerkSessionTTL <= 0 {
		c.ClerkSessionTTL = defaultClerkSessionTTL
	}
	if c.Notify.PollInterval <= 0 {
		c.Notify.PollInterval = defaultPollInterval
	}
	if c.Notify.Workers <= 0 {
		c.Notify.Workers = defaultWorkers
	}
	if c.Notify.BatchSize <= 0 {
		c.Notify.BatchSize = defaultBatchSize
	}
	if c.Notify.MaxAttempts <= 0 {
		c.Notify.MaxAttempts = defaultMaxAttempts
	}
	if c.Notify.Lease <= 0 {
		c.Notify.Lease = defaultLease
	}

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
}

func environMap(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
