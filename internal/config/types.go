package config

import "fmt"

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port" validate:"min=1,max=65535"`
	Mode            string   `mapstructure:"mode" validate:"oneof=debug release test"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout" validate:"min=1"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type CacheConfig struct {
	Backend string      `mapstructure:"backend" validate:"oneof=sqlite redis"`
	Path    string      `mapstructure:"path" validate:"required_if=Backend sqlite"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type NASAConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
}

type TranslateConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type AstronomyConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
}

type WeatherConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"required,url"`
	APIKey   string `mapstructure:"api_key"`
	Location string `mapstructure:"location" validate:"required"`
}

type SpaceDevsConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"required,url"`
	AgencyID int    `mapstructure:"agency_id" validate:"min=1"`
	Limit    int    `mapstructure:"limit" validate:"min=1,max=100"`
}

type AstronautConfig struct {
	Seed string `mapstructure:"seed"`
}

type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"min=1"`
}
