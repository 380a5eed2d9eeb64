package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"standings-ticker/internal/league"
)

// Config represents the complete application configuration
type Config struct {
	Upstream UpstreamConfig          `mapstructure:"upstream"`
	Poller   PollerConfig            `mapstructure:"poller"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Display  DisplayConfig           `mapstructure:"display"`
	Server   ServerConfig            `mapstructure:"server"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Leagues  map[string]LeagueConfig `mapstructure:"leagues"`
}

// UpstreamConfig holds sports-data API configuration
type UpstreamConfig struct {
	SiteBaseURL string        `mapstructure:"site_base_url"`
	CoreBaseURL string        `mapstructure:"core_base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PollerConfig holds refresh loop configuration
type PollerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// CacheConfig holds cache storage configuration
type CacheConfig struct {
	Path          string        `mapstructure:"path"` // empty = in-memory only
	StandingsTTL  time.Duration `mapstructure:"standings_ttl"`
	TeamRecordTTL time.Duration `mapstructure:"team_record_ttl"`
}

// DisplayConfig holds the pixel display geometry and scroll behavior
type DisplayConfig struct {
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	SectionSpacing int     `mapstructure:"section_spacing"`
	ItemSpacing    int     `mapstructure:"item_spacing"`
	ScrollSpeed    float64 `mapstructure:"scroll_speed"` // pixels per second
	AssetsDir      string  `mapstructure:"assets_dir"`
}

// ServerConfig holds the HTTP surface configuration
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MetricsConfig holds telemetry configuration
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ServiceName  string `mapstructure:"service_name"`
	OtlpEndpoint string `mapstructure:"otlp_endpoint"`
	OtlpInsecure bool   `mapstructure:"otlp_insecure"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// LeagueConfig overrides the built-in defaults for one league
type LeagueConfig struct {
	Enabled  *bool  `mapstructure:"enabled"`
	TopTeams int    `mapstructure:"top_teams"`
	Season   int    `mapstructure:"season"`
	Level    int    `mapstructure:"level"`
	Sort     string `mapstructure:"sort"`
}

// Load reads configuration from an optional file and environment variables.
// A missing file is not an error; defaults and TICKER_* env vars apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TICKER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("upstream.site_base_url", "https://site.api.espn.com/apis/site/v2")
	v.SetDefault("upstream.core_base_url", "https://site.api.espn.com/apis/v2")
	v.SetDefault("upstream.timeout", "30s")

	v.SetDefault("poller.interval", "1h")

	v.SetDefault("cache.path", "")
	v.SetDefault("cache.standings_ttl", "1h")
	v.SetDefault("cache.team_record_ttl", "6h")

	v.SetDefault("display.width", 128)
	v.SetDefault("display.height", 32)
	v.SetDefault("display.section_spacing", 24)
	v.SetDefault("display.item_spacing", 10)
	v.SetDefault("display.scroll_speed", 20.0)
	v.SetDefault("display.assets_dir", "./assets/logos")

	v.SetDefault("server.port", 8080)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", "standings-ticker")
	v.SetDefault("metrics.otlp_endpoint", "")
	v.SetDefault("metrics.otlp_insecure", false)

	v.SetDefault("logging.level", "info")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Upstream.SiteBaseURL == "" {
		return fmt.Errorf("upstream.site_base_url is required")
	}
	if c.Upstream.CoreBaseURL == "" {
		return fmt.Errorf("upstream.core_base_url is required")
	}
	if c.Upstream.Timeout < time.Second {
		return fmt.Errorf("upstream.timeout must be at least 1 second")
	}

	if c.Poller.Interval < time.Minute {
		return fmt.Errorf("poller.interval must be at least 1 minute")
	}

	if c.Cache.StandingsTTL < time.Minute {
		return fmt.Errorf("cache.standings_ttl must be at least 1 minute")
	}
	if c.Cache.TeamRecordTTL < time.Minute {
		return fmt.Errorf("cache.team_record_ttl must be at least 1 minute")
	}

	if c.Display.Width < 1 || c.Display.Height < 1 {
		return fmt.Errorf("display.width and display.height must be positive")
	}
	if c.Display.ScrollSpeed <= 0 {
		return fmt.Errorf("display.scroll_speed must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	for key, lc := range c.Leagues {
		if lc.TopTeams < 0 {
			return fmt.Errorf("leagues.%s.top_teams must not be negative", key)
		}
		if lc.Season < 0 {
			return fmt.Errorf("leagues.%s.season must not be negative", key)
		}
	}
	return nil
}

// LeagueOverrides converts the per-league config into registry overrides.
func (c *Config) LeagueOverrides() map[string]league.Override {
	if len(c.Leagues) == 0 {
		return nil
	}
	overrides := make(map[string]league.Override, len(c.Leagues))
	for key, lc := range c.Leagues {
		overrides[key] = league.Override{
			Enabled:  lc.Enabled,
			TopTeams: lc.TopTeams,
			Season:   lc.Season,
			Level:    lc.Level,
			Sort:     lc.Sort,
		}
	}
	return overrides
}
