// Package config loads the interceptor's own configuration: the refresh
// queue size and which rejection policy to apply. Everything else
// (provider credentials, transport settings) is the host application's
// concern and is out of scope here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Config Structures
// =============================================================================

// InterceptorConfig is the on-disk shape of the interceptor's own knobs.
type InterceptorConfig struct {
	// QueueSize bounds how many requests may wait on one in-flight refresh.
	// Zero or unset falls back to refresh.DefaultQueueSize.
	QueueSize int `yaml:"queue_size"`

	// RejectionPolicy selects which responses trigger a refresh: "default"
	// (any 401, plus any other non-2xx with a credential attached) or
	// "401_only".
	RejectionPolicy string `yaml:"rejection_policy,omitempty"`
}

// Policy name constants accepted in RejectionPolicy.
const (
	PolicyDefault  = "default"
	Policy401Only  = "401_only"
	defaultPolicy  = PolicyDefault
	defaultQueueSz = 1
)

// =============================================================================
// Configuration Loading
// =============================================================================

// Load reads and parses an InterceptorConfig from a YAML file.
func Load(filename string) (*InterceptorConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg InterceptorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *InterceptorConfig) applyDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSz
	}
	if c.RejectionPolicy == "" {
		c.RejectionPolicy = defaultPolicy
	}
}

// Valid reports whether RejectionPolicy names a policy this package knows
// how to translate into an interceptor.RejectionPolicy.
func (c *InterceptorConfig) Valid() bool {
	switch c.RejectionPolicy {
	case PolicyDefault, Policy401Only:
		return true
	default:
		return false
	}
}
