package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies Telegram webhook settings (run_mode: webhook).
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// WhatsappConfig configures the WhatsApp-bridge HTTP endpoint.
type WhatsappConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"WHATSAPP_ENABLED"`
	Listen  string `yaml:"listen" envconfig:"WHATSAPP_LISTEN"`
	Port    int    `yaml:"port" envconfig:"WHATSAPP_PORT"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// DatabaseConfig holds connection settings for the optional sales journal.
// An empty host disables the journal entirely.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// Enabled reports whether a journal database is configured.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.Host) != ""
}

// CatalogConfig points at the stock spreadsheet feed.
type CatalogConfig struct {
	FeedURL string `yaml:"feed_url" envconfig:"CATALOG_FEED_URL"`
	// PageURL is the public catalog link sent to customers on request.
	PageURL string `yaml:"page_url" envconfig:"CATALOG_PAGE_URL"`
}

// OrdersConfig points at the order spreadsheet feed and tracking page.
type OrdersConfig struct {
	FeedURL     string `yaml:"feed_url" envconfig:"ORDERS_FEED_URL"`
	TrackingURL string `yaml:"tracking_url" envconfig:"ORDERS_TRACKING_URL"`
}

// NotifyConfig carries SMTP settings and fixed destination addresses.
type NotifyConfig struct {
	SMTPHost     string `yaml:"smtp_host" envconfig:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" envconfig:"SMTP_PORT"`
	SMTPUser     string `yaml:"smtp_user" envconfig:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" envconfig:"SMTP_PASSWORD"`
	From         string `yaml:"from" envconfig:"NOTIFY_FROM"`
	ReturnsDesk  string `yaml:"returns_desk" envconfig:"NOTIFY_RETURNS_DESK"`
	Operator     string `yaml:"operator" envconfig:"NOTIFY_OPERATOR"`
}

// SpeechConfig configures the speech-to-text service.
type SpeechConfig struct {
	URL   string `yaml:"url" envconfig:"SPEECH_URL"`
	Token string `yaml:"token" envconfig:"SPEECH_TOKEN"`
}

// VisionConfig configures the image-model matcher service.
type VisionConfig struct {
	URL string `yaml:"url" envconfig:"VISION_URL"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// UpdateMessage identifies plain text messages for rate limit exclusions.
	UpdateMessage = "message"
	// UpdatePhoto identifies photo uploads for rate limit exclusions.
	UpdatePhoto = "photo"
	// UpdateAudio identifies voice and audio notes for rate limit exclusions.
	UpdateAudio = "audio"
)

// RateLimitConfig holds settings for rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "message": standard text messages
// - "photo": photo uploads (product and proof images)
// - "audio": voice and audio notes
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates everything the bot needs at process start.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Whatsapp  WhatsappConfig  `yaml:"whatsapp"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Orders    OrdersConfig    `yaml:"orders"`
	Notify    NotifyConfig    `yaml:"notify"`
	Speech    SpeechConfig    `yaml:"speech"`
	Vision    VisionConfig    `yaml:"vision"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if strings.TrimSpace(cfg.Catalog.FeedURL) == "" {
		return fmt.Errorf("catalog.feed_url is required")
	}
	if strings.TrimSpace(cfg.Orders.FeedURL) == "" {
		return fmt.Errorf("orders.feed_url is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.Whatsapp.Enabled {
		if strings.TrimSpace(cfg.Whatsapp.Listen) == "" {
			cfg.Whatsapp.Listen = "0.0.0.0"
		}
		if cfg.Whatsapp.Port <= 0 {
			return fmt.Errorf("whatsapp.port must be > 0 when whatsapp.enabled is true")
		}
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	}

	if cfg.Notify.SMTPPort <= 0 {
		cfg.Notify.SMTPPort = 587
	}

	allowed := map[string]struct{}{
		UpdateMessage: {},
		UpdatePhoto:   {},
		UpdateAudio:   {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: message, photo, audio", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
