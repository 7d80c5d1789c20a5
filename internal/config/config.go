package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	FeedsFile           string        `mapstructure:"feeds_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`

	FetchConnectTimeoutMs int64         `mapstructure:"fetch_connect_timeout_ms"`
	FetchReadTimeoutMs    int64         `mapstructure:"fetch_read_timeout_ms"`
	FetchConnectTimeout   time.Duration `mapstructure:"-"`
	FetchReadTimeout      time.Duration `mapstructure:"-"`

	EnrichReports   bool           `mapstructure:"enrich_reports"`
	DisplayTimezone string         `mapstructure:"display_timezone"`
	DisplayLocation *time.Location `mapstructure:"-" json:"-"`
	MetricsAddr     string         `mapstructure:"metrics_addr"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "quake-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 300) // seconds
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/quakes.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("fetch_connect_timeout_ms", 15000)
	v.SetDefault("fetch_read_timeout_ms", 10000)
	v.SetDefault("enrich_reports", false)
	v.SetDefault("display_timezone", "Local")
	v.SetDefault("metrics_addr", ":9090")
}

func (cfg *Config) finalize() error {
	if cfg.PollIntervalSeconds <= 0 {
		return fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	if cfg.FetchConnectTimeoutMs <= 0 {
		return fmt.Errorf("invalid fetch_connect_timeout_ms (must be positive milliseconds)")
	}
	if cfg.FetchReadTimeoutMs <= 0 {
		return fmt.Errorf("invalid fetch_read_timeout_ms (must be positive milliseconds)")
	}
	cfg.FetchConnectTimeout = time.Duration(cfg.FetchConnectTimeoutMs) * time.Millisecond
	cfg.FetchReadTimeout = time.Duration(cfg.FetchReadTimeoutMs) * time.Millisecond

	loc, err := loadLocation(cfg.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("invalid display_timezone: %w", err)
	}
	cfg.DisplayLocation = loc

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
