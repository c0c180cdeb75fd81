package config

import (
	"time"

	"gtrends-go/pkg/chart"
	"gtrends-go/pkg/logger"
	"gtrends-go/pkg/trends"
)

type Config struct {
	Trends TrendsConfig  `mapstructure:"trends"`
	Chart  chart.Options `mapstructure:"chart"`
	Server ServerConfig  `mapstructure:"server"`
	Logger logger.Config `mapstructure:"logger"`
}

// TrendsConfig carries the client settings plus the defaults applied to
// queries that leave country or resolution unset.
type TrendsConfig struct {
	trends.Config `mapstructure:",squash"`
	Country       string        `mapstructure:"country"`
	Resolution    string        `mapstructure:"resolution"`
	Sleep         time.Duration `mapstructure:"sleep"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
