package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"gtrends-go/pkg/chart"
	"gtrends-go/pkg/trends"
)

const EnvPrefix = "GTRENDS"

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
	path   string
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath on top of the built-in defaults. An empty path
// loads defaults and GTRENDS_* environment variables only.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = configPath
	m.setupViper()

	config, err := m.read()
	if err != nil {
		return nil, err
	}
	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) read() (*Config, error) {
	if m.path != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (m *manager) setupViper() {
	if m.path != "" {
		m.viper.SetConfigFile(m.path)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper)
}

// setDefaults registers every key so that environment overrides are seen
// by Unmarshal.
func setDefaults(v *viper.Viper) {
	tc := trends.DefaultConfig()
	v.SetDefault("trends.base_url", tc.BaseURL)
	v.SetDefault("trends.host_language", tc.HostLanguage)
	v.SetDefault("trends.tz_offset", tc.TZOffset)
	v.SetDefault("trends.timeout", tc.Timeout)
	v.SetDefault("trends.max_retries", tc.MaxRetries)
	v.SetDefault("trends.retry_delay", tc.RetryDelay)
	v.SetDefault("trends.connection.max_conns_per_host", tc.Connection.MaxConnsPerHost)
	v.SetDefault("trends.connection.max_idle_conn_duration", tc.Connection.MaxIdleConnDuration)
	v.SetDefault("trends.connection.dial_timeout", tc.Connection.DialTimeout)
	v.SetDefault("trends.connection.read_timeout", tc.Connection.ReadTimeout)
	v.SetDefault("trends.connection.write_timeout", tc.Connection.WriteTimeout)
	v.SetDefault("trends.country", "US")
	v.SetDefault("trends.resolution", string(trends.ResolutionRegion))
	v.SetDefault("trends.sleep", 0)

	co := chart.DefaultOptions()
	v.SetDefault("chart.width_inches", co.WidthInches)
	v.SetDefault("chart.height_inches", co.HeightInches)
	v.SetDefault("chart.dense_threshold", co.DenseThreshold)
	v.SetDefault("chart.dense_font_size", co.DenseFontSize)
	v.SetDefault("chart.default_font_size", co.DefaultFontSize)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.time_format", "")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if _, err := language.Parse(config.Trends.HostLanguage); err != nil {
		return fmt.Errorf("invalid host_language %q: %w", config.Trends.HostLanguage, err)
	}

	if strings.TrimSpace(config.Trends.Country) == "" {
		return fmt.Errorf("country cannot be empty")
	}
	config.Trends.Country = strings.ToUpper(strings.TrimSpace(config.Trends.Country))

	res, err := trends.ParseResolution(config.Trends.Resolution)
	if err != nil {
		return err
	}
	config.Trends.Resolution = string(res)

	if config.Trends.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if config.Chart.WidthInches <= 0 || config.Chart.HeightInches <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	return nil
}
