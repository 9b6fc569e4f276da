package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// StatsConfig specifies how the balldontlie API is reached and paged.
type StatsConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"NBA_BASE_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"NBA_REQUEST_TIMEOUT"`
	PerPage        int           `yaml:"per_page" envconfig:"NBA_PER_PAGE"`
	SearchPerPage  int           `yaml:"search_per_page" envconfig:"NBA_SEARCH_PER_PAGE"`
	TeamCacheTTL   time.Duration `yaml:"team_cache_ttl" envconfig:"NBA_TEAM_CACHE_TTL"`
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

// RateLimitConfig holds settings for per-user rate limiting.
// ExcludeUpdates accepts update types to bypass limiting:
// - "callback": Telegram callback button presses
// - "message": standard text messages
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

const (
	defaultBaseURL        = "https://www.balldontlie.io/api/v1"
	defaultRequestTimeout = 10 * time.Second
	defaultPerPage        = 5
	defaultSearchPerPage  = 25
	defaultTeamCacheTTL   = 24 * time.Hour
)

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Stats     StatsConfig     `yaml:"stats"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from an optional YAML file, a local .env file, and
// environment variables. An empty path skips the YAML layer.
func Load(path string) (*Config, error) {
	var cfg Config

	// Mirror of the original deployment habit: secrets live in .env next to
	// the binary. A missing file is not an error.
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.Token) == "" {
		return fmt.Errorf("telegram token is required")
	}
	if cfg.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram admin_id is required for operator alerts")
	}
	if cfg.Telegram.LongPollTimeoutSeconds < 0 {
		return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
	}

	if strings.TrimSpace(cfg.Stats.BaseURL) == "" {
		cfg.Stats.BaseURL = defaultBaseURL
	}
	cfg.Stats.BaseURL = strings.TrimRight(cfg.Stats.BaseURL, "/")
	if cfg.Stats.RequestTimeout <= 0 {
		cfg.Stats.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Stats.PerPage <= 0 {
		cfg.Stats.PerPage = defaultPerPage
	}
	if cfg.Stats.SearchPerPage <= 0 {
		cfg.Stats.SearchPerPage = defaultSearchPerPage
	}
	if cfg.Stats.TeamCacheTTL <= 0 {
		cfg.Stats.TeamCacheTTL = defaultTeamCacheTTL
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}
