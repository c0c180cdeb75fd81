package trends

import (
	"net"
	"time"

	"github.com/valyala/fasthttp"
)

// ConnectionConfig holds configuration for the outbound fasthttp client
type ConnectionConfig struct {
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `mapstructure:"max_idle_conn_duration"`
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout"`
}

// DefaultConnectionConfig suits a handful of sequential requests.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     4,
		MaxIdleConnDuration: 90 * time.Second,
		DialTimeout:         10 * time.Second,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        10 * time.Second,
	}
}

// NewHTTPClient builds a fasthttp client from config, filling zero fields
// with defaults.
func NewHTTPClient(config ConnectionConfig) *fasthttp.Client {
	def := DefaultConnectionConfig()
	if config.MaxConnsPerHost <= 0 {
		config.MaxConnsPerHost = def.MaxConnsPerHost
	}
	if config.MaxIdleConnDuration <= 0 {
		config.MaxIdleConnDuration = def.MaxIdleConnDuration
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = def.DialTimeout
	}
	if config.ReadTimeout <= 0 {
		config.ReadTimeout = def.ReadTimeout
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = def.WriteTimeout
	}

	dialTimeout := config.DialTimeout
	return &fasthttp.Client{
		Name:                "gtrends-go/1.0",
		MaxConnsPerHost:     config.MaxConnsPerHost,
		MaxIdleConnDuration: config.MaxIdleConnDuration,
		ReadTimeout:         config.ReadTimeout,
		WriteTimeout:        config.WriteTimeout,
		Dial: func(addr string) (net.Conn, error) {
			return fasthttp.DialTimeout(addr, dialTimeout)
		},
	}
}
