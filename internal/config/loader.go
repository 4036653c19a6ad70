package config

import (
	"errors"
	"strings"

	"github.com/WTMsoft/PremScout/internal/feed"
	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/query"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles setting up viper and loading configuration from defaults,
// an optional config file, the environment and bound flags.
type Loader struct {
	*viper.Viper
	validate *validator.Validate
}

func NewLoader() *Loader {
	loader := Loader{Viper: viper.New(), validate: validator.New()}
	loader.SetDefault("dataset_url", feed.DefaultDatasetURL)
	loader.SetDefault("headshots_url", "")
	loader.SetDefault("headshots_base_url", headshot.DefaultBaseURL)
	loader.SetDefault("cache_dir", CachePath())
	loader.SetDefault("use_cache", false)
	loader.SetDefault("http_timeout", DefaultHTTPTimeout)
	loader.SetDefault("retries", 3)
	loader.SetDefault("user_agent", "premscout/1.0")
	loader.SetDefault("addr", ":8080")
	loader.SetDefault("mcp_path", "/mcp")
	loader.SetDefault("require_auth", false)
	loader.SetDefault("auth_header", "X-API-Key")
	loader.SetDefault("api_key", "")
	loader.SetDefault("page_size", query.DefaultPageSize)
	loader.SetDefault("log_level", "info")
	loader.SetDefault("log_format", "text")
	loader.SetDefault("metrics_enabled", true)
	loader.SetDefault("metrics_service", "premscout")
	loader.SetConfigName(DefaultConfigName)
	loader.SetConfigType("yaml")
	loader.SetEnvPrefix(EnvPrefix)
	loader.AddConfigPath(Path(""))
	loader.AddConfigPath(".")
	loader.AutomaticEnv()

	return &loader
}

// BindFlags lets command line flags override every other source. Flag names
// use dashes, config keys use underscores.
func (cl *Loader) BindFlags(flags *pflag.FlagSet, keys ...string) error {
	var errs []error
	for _, key := range keys {
		name := flagName(key)
		if f := flags.Lookup(name); f != nil {
			errs = append(errs, cl.BindPFlag(key, f))
		}
	}
	return errors.Join(errs...)
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func (cl *Loader) Path() string {
	return cl.ConfigFileUsed()
}

// Read loads and validates the configuration. A missing config file is not an error.
func (cl *Loader) Read() (Config, error) {
	if err := cl.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return Config{}, errors.Join(err, errConfigRead)
		}
	}

	var config Config
	if err := cl.Unmarshal(&config); err != nil {
		return Config{}, errors.Join(err, errConfigRead)
	}

	if err := cl.validate.Struct(config); err != nil {
		return Config{}, errors.Join(err, errConfigInvalid)
	}

	return config, nil
}
