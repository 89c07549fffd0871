package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Store     StoreConfig     `mapstructure:"store"`
	Sites     SitesConfig     `mapstructure:"sites"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type OCRConfig struct {
	// Language is the Tesseract language code for the photo overlays.
	Language string `mapstructure:"language"`
	// MaxAttempts bounds how many times a failed recognition is retried.
	MaxAttempts int `mapstructure:"max_attempts"`
	// SiteKeyword is the hashtag keyword that marks a client tag.
	SiteKeyword string `mapstructure:"site_keyword"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type SitesConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type ReportConfig struct {
	// DebounceSeconds is the quiet period after the last capture before a
	// map report is generated.
	DebounceSeconds int    `mapstructure:"debounce_seconds"`
	OutputDir       string `mapstructure:"output_dir"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("ocr.language", "por")
	v.SetDefault("ocr.max_attempts", 3)
	v.SetDefault("ocr.site_keyword", "fazenda")
	v.SetDefault("store.path", "data/records.json")
	v.SetDefault("sites.path", "configs/sites.yaml")
	v.SetDefault("sites.watch", true)
	v.SetDefault("report.debounce_seconds", 60)
	v.SetDefault("report.output_dir", "data/reports")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", true)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOCAPTURE_OCR_LANGUAGE → ocr.language
	v.SetEnvPrefix("GEOCAPTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.OCR.Language == "" {
		errs = append(errs, "ocr.language is required")
	}
	if c.OCR.MaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("ocr.max_attempts must be at least 1, got %d", c.OCR.MaxAttempts))
	}
	if c.OCR.SiteKeyword == "" {
		errs = append(errs, "ocr.site_keyword is required")
	}
	if c.Store.Path == "" {
		errs = append(errs, "store.path is required")
	}
	if c.Sites.Path == "" {
		errs = append(errs, "sites.path is required")
	}
	if c.Report.DebounceSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("report.debounce_seconds must be positive, got %d", c.Report.DebounceSeconds))
	}
	if c.Report.OutputDir == "" {
		errs = append(errs, "report.output_dir is required")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
