// Package config loads dashboard configuration from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SPACE_DASHBOARD_NASA_API_KEY.
const EnvPrefix = "SPACE_DASHBOARD"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Cache     CacheConfig     `mapstructure:"cache"`
	NASA      NASAConfig      `mapstructure:"nasa"`
	Translate TranslateConfig `mapstructure:"translate"`
	Astronomy AstronomyConfig `mapstructure:"astronomy"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	SpaceDevs SpaceDevsConfig `mapstructure:"spacedevs"`
	Astronaut AstronautConfig `mapstructure:"astronaut"`
	HTTP      HTTPConfig      `mapstructure:"http"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration. configFile may be empty, in which case config.yaml
// is searched in the working directory, ./configs and ~/.space-dashboard; a
// missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".space-dashboard"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the last loaded configuration, or nil.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultCachePath is ~/.space-dashboard/cache.db.
func DefaultCachePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".space-dashboard", "cache.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 15)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stderr")

	v.SetDefault("cache.backend", "sqlite")
	v.SetDefault("cache.path", DefaultCachePath())
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("nasa.base_url", "https://api.nasa.gov")
	v.SetDefault("nasa.api_key", "DEMO_KEY")

	v.SetDefault("translate.base_url", "https://translate.googleapis.com")

	v.SetDefault("astronomy.base_url", "https://api.astronomyapi.com")
	v.SetDefault("astronomy.api_key", "")

	v.SetDefault("weather.base_url", "https://api.weatherapi.com")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.location", "São Paulo")

	v.SetDefault("spacedevs.base_url", "https://ll.thespacedevs.com")
	v.SetDefault("spacedevs.agency_id", 44)
	v.SetDefault("spacedevs.limit", 50)

	v.SetDefault("astronaut.seed", "")

	v.SetDefault("http.timeout_seconds", 15)
}
