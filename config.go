package tandemsync

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries everything the sync core needs for one signed-in session.
// All fields can come from the environment under the TANDEM_ prefix, or be
// filled in directly by the embedding app.
type Config struct {
	// BaseURL is the backend origin, e.g. https://api.tandem.example.
	BaseURL string `envconfig:"BASE_URL"`

	// AuthToken is the session bearer token. Empty means signed out;
	// Start becomes a no-op until a token is present.
	AuthToken string `envconfig:"AUTH_TOKEN"`

	// SpaceID names the shared space of the two partners. Empty means the
	// partner link has not completed yet; Start becomes a no-op.
	SpaceID string `envconfig:"SPACE_ID"`

	// DBPath locates the local SQLite file holding collections and the
	// pending queue. Use WithStore to supply a store directly instead.
	DBPath string `envconfig:"DB_PATH" default:"tandemsync.db"`

	// FlushInterval is the periodic safety-net cadence for retrying
	// queued operations.
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"30s"`

	// ProbeInterval is how often the backend health endpoint is probed
	// to track reachability.
	ProbeInterval time.Duration `envconfig:"PROBE_INTERVAL" default:"15s"`

	// HTTPTimeout bounds each individual backend request.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`

	// MetricsAddr, when set, is the listen address the daemon serves
	// Prometheus metrics on. The library ignores it.
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// LoadConfig reads Config from TANDEM_-prefixed environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("TANDEM", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults fills zero-valued tunables for configs built in code rather
// than through envconfig.
func (c *Config) setDefaults() {
	if c.DBPath == "" {
		c.DBPath = "tandemsync.db"
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 30 * time.Second
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 15 * time.Second
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}
