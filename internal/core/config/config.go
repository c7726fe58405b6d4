package config

import (
	"time"

	"github.com/vietddude/relay/internal/core/domain"
	redisclient "github.com/vietddude/relay/internal/infra/redis"
	"github.com/vietddude/relay/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	Chains   []ChainConfig      `yaml:"chains"`
	Engine   EngineConfig       `yaml:"engine"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// EngineConfig holds decision-engine settings.
type EngineConfig struct {
	MaxConcurrentTrades int           `yaml:"max_concurrent_trades"`
	RPCMaxAttempts      int           `yaml:"rpc_max_attempts"`
	ProbeInterval       time.Duration `yaml:"probe_interval"`
}

// ChainConfig holds settings for one supported blockchain.
type ChainConfig struct {
	Chain     domain.Chain     `yaml:"chain"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// EndpointConfig holds settings for one RPC endpoint.
type EndpointConfig struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	Priority     int    `yaml:"priority"`       // lower = preferred
	MaxPerSecond int    `yaml:"max_per_second"` // provider's advertised rate limit
	Transport    string `yaml:"transport"`      // http (default) or grpc
}
