package config

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

var (
	errConfigRead    = errors.New("failed to read config file")
	errConfigInvalid = errors.New("invalid configuration")
)

const (
	ConfigDirName      = "premscout"
	DefaultConfigName  = "premscout"
	EnvPrefix          = "premscout"
	DefaultHTTPTimeout = 20 * time.Second
)

type Config struct {
	DatasetURL       string        `mapstructure:"dataset_url" validate:"required"`
	HeadshotsURL     string        `mapstructure:"headshots_url"`
	HeadshotsBaseURL string        `mapstructure:"headshots_base_url" validate:"required,url"`
	CacheDir         string        `mapstructure:"cache_dir" validate:"required"`
	UseCache         bool          `mapstructure:"use_cache"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
	Retries          int           `mapstructure:"retries" validate:"gte=0,lte=10"`
	UserAgent        string        `mapstructure:"user_agent"`

	Addr        string `mapstructure:"addr" validate:"required"`
	MCPPath     string `mapstructure:"mcp_path" validate:"required,startswith=/"`
	RequireAuth bool   `mapstructure:"require_auth"`
	AuthHeader  string `mapstructure:"auth_header" validate:"required"`
	APIKey      string `mapstructure:"api_key" validate:"required_if=RequireAuth true"`

	PageSize int `mapstructure:"page_size" validate:"gte=1,lte=500"`

	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`

	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsService string `mapstructure:"metrics_service"`
}

// Path returns the absolute path of name inside the premscout config directory.
func Path(name string) string {
	return filepath.Join(xdg.ConfigHome, ConfigDirName, name)
}

// CachePath returns the default feed cache directory.
func CachePath() string {
	return filepath.Join(xdg.CacheHome, ConfigDirName)
}
