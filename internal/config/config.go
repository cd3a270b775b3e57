package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "CLIMBCOACH_CONFIG"
	wpAPIURLEnv       = "WP_API_URL"
	wpCategorySlugEnv = "WP_CATEGORY_SLUG"
	formEndpointEnv   = "FORM_ENDPOINT"
	formEncodingEnv   = "FORM_ENCODING"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
	httpAddrEnv       = "HTTP_ADDR"
	wpPerPageEnv      = "WP_PER_PAGE"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	WordPress     WordPressConfig    `yaml:"wordpress"`
	Forms         FormsConfig        `yaml:"forms"`
	Database      DatabaseConfig     `yaml:"database"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// WordPressConfig points the content pipeline at a provider installation.
type WordPressConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	CategorySlug string        `yaml:"categorySlug"`
	PerPage      int           `yaml:"perPage"`
	CarouselSize int           `yaml:"carouselSize"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"userAgent"`
	Parallelism  int           `yaml:"parallelism"`

	// ProbeInterval re-checks the category slug in the background; negative disables.
	ProbeInterval time.Duration `yaml:"probeInterval"`
}

// FormsConfig describes the external form-submission endpoint.
type FormsConfig struct {
	Endpoint           string        `yaml:"endpoint"`
	Encoding           string        `yaml:"encoding"`
	Timeout            time.Duration `yaml:"timeout"`
	CountryCode        string        `yaml:"countryCode"`
	ContactFormName    string        `yaml:"contactFormName"`
	NewsletterFormName string        `yaml:"newsletterFormName"`
}

// DatabaseConfig describes the optional Postgres lead log. Empty DSN disables it.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	APIURL   string `yaml:"apiUrl"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(wpAPIURLEnv); v != "" {
		c.WordPress.BaseURL = v
	}
	if v := os.Getenv(wpCategorySlugEnv); v != "" {
		c.WordPress.CategorySlug = v
	}
	if v := os.Getenv(wpPerPageEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.WordPress.PerPage = n
		} else {
			log.Printf("config: ignoring %s=%q: %v", wpPerPageEnv, v, err)
		}
	}

	if v := os.Getenv(formEndpointEnv); v != "" {
		c.Forms.Endpoint = v
	}
	if v := os.Getenv(formEncodingEnv); v != "" {
		c.Forms.Encoding = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Address = v
	}
}

// normalize keeps values inside the bounds the provider and endpoint accept.
func (c *Config) normalize() {
	defaults := defaultConfig()

	if c.WordPress.PerPage < 1 || c.WordPress.PerPage > 100 {
		log.Printf("config: perPage %d out of range, reverting to %d", c.WordPress.PerPage, defaults.WordPress.PerPage)
		c.WordPress.PerPage = defaults.WordPress.PerPage
	}
	if c.WordPress.CarouselSize < 1 || c.WordPress.CarouselSize > 100 {
		c.WordPress.CarouselSize = defaults.WordPress.CarouselSize
	}
	if c.WordPress.Timeout <= 0 {
		c.WordPress.Timeout = defaults.WordPress.Timeout
	}
	if c.WordPress.Parallelism < 1 {
		c.WordPress.Parallelism = defaults.WordPress.Parallelism
	}
	if c.WordPress.ProbeInterval < 0 {
		c.WordPress.ProbeInterval = 0
	}

	switch c.Forms.Encoding {
	case "multipart", "json":
	default:
		log.Printf("config: unknown form encoding %q, reverting to %s", c.Forms.Encoding, defaults.Forms.Encoding)
		c.Forms.Encoding = defaults.Forms.Encoding
	}
	if c.Forms.Timeout <= 0 {
		c.Forms.Timeout = defaults.Forms.Timeout
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.Address != "" {
		base.Server.Address = override.Server.Address
	}
	if override.Server.ReadTimeout > 0 {
		base.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout > 0 {
		base.Server.WriteTimeout = override.Server.WriteTimeout
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.WordPress.BaseURL != "" {
		base.WordPress.BaseURL = override.WordPress.BaseURL
	}
	if override.WordPress.CategorySlug != "" {
		base.WordPress.CategorySlug = override.WordPress.CategorySlug
	}
	if override.WordPress.PerPage != 0 {
		base.WordPress.PerPage = override.WordPress.PerPage
	}
	if override.WordPress.CarouselSize != 0 {
		base.WordPress.CarouselSize = override.WordPress.CarouselSize
	}
	if override.WordPress.Timeout > 0 {
		base.WordPress.Timeout = override.WordPress.Timeout
	}
	if override.WordPress.UserAgent != "" {
		base.WordPress.UserAgent = override.WordPress.UserAgent
	}
	if override.WordPress.Parallelism != 0 {
		base.WordPress.Parallelism = override.WordPress.Parallelism
	}
	if override.WordPress.ProbeInterval != 0 {
		base.WordPress.ProbeInterval = override.WordPress.ProbeInterval
	}

	if override.Forms.Endpoint != "" {
		base.Forms.Endpoint = override.Forms.Endpoint
	}
	if override.Forms.Encoding != "" {
		base.Forms.Encoding = override.Forms.Encoding
	}
	if override.Forms.Timeout > 0 {
		base.Forms.Timeout = override.Forms.Timeout
	}
	if override.Forms.CountryCode != "" {
		base.Forms.CountryCode = override.Forms.CountryCode
	}
	if override.Forms.ContactFormName != "" {
		base.Forms.ContactFormName = override.Forms.ContactFormName
	}
	if override.Forms.NewsletterFormName != "" {
		base.Forms.NewsletterFormName = override.Forms.NewsletterFormName
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.APIURL != "" {
		base.Notifications.Telegram.APIURL = override.Notifications.Telegram.APIURL
	}
	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		WordPress: WordPressConfig{
			BaseURL:      "https://blog.nxtmt.ventures/wp-json/wp/v2",
			CategorySlug: "climb-coach",
			PerPage:      10,
			CarouselSize: 6,
			Timeout:      10 * time.Second,
			UserAgent:    "ClimbCoach/1.0",
			Parallelism:  4,

			ProbeInterval: 5 * time.Minute,
		},
		Forms: FormsConfig{
			Endpoint:           "https://api.new.website/api/submit-form/",
			Encoding:           "multipart",
			Timeout:            10 * time.Second,
			CountryCode:        "1",
			ContactFormName:    "Coach Contact Form",
			NewsletterFormName: "Newsletter Signup",
		},
		Database: DatabaseConfig{DSN: ""},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{APIURL: "https://api.telegram.org", BotToken: "", ChatID: ""},
		},
	}
}
