package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Engine.MaxConcurrentTrades == 0 {
		cfg.Engine.MaxConcurrentTrades = 10
	}
	if cfg.Engine.RPCMaxAttempts == 0 {
		cfg.Engine.RPCMaxAttempts = 3
	}
	if cfg.Engine.ProbeInterval == 0 {
		cfg.Engine.ProbeInterval = 30 * time.Second
	}

	for i := range cfg.Chains {
		for j := range cfg.Chains[i].Endpoints {
			ep := &cfg.Chains[i].Endpoints[j]
			if ep.Priority == 0 {
				ep.Priority = j + 1
			}
			if ep.MaxPerSecond == 0 {
				ep.MaxPerSecond = 10
			}
			if ep.Transport == "" {
				ep.Transport = "http"
			}
		}
	}
}

func validate(cfg *AppConfig) error {
	if len(cfg.Chains) == 0 {
		return fmt.Errorf("config: at least one chain is required")
	}

	for _, chain := range cfg.Chains {
		if !chain.Chain.Valid() {
			return fmt.Errorf("config: unsupported chain %q", chain.Chain)
		}
		if len(chain.Endpoints) == 0 {
			return fmt.Errorf("config: chain %s has no endpoints", chain.Chain)
		}

		names := make(map[string]struct{}, len(chain.Endpoints))
		for _, ep := range chain.Endpoints {
			if ep.Name == "" || ep.URL == "" {
				return fmt.Errorf("config: chain %s has an endpoint without name or url", chain.Chain)
			}
			if _, dup := names[ep.Name]; dup {
				return fmt.Errorf("config: chain %s has duplicate endpoint %q", chain.Chain, ep.Name)
			}
			names[ep.Name] = struct{}{}
			if ep.Transport != "http" && ep.Transport != "grpc" {
				return fmt.Errorf("config: endpoint %s has unknown transport %q", ep.Name, ep.Transport)
			}
		}
	}
	return nil
}
