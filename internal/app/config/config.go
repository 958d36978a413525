package config

import (
	"net/url"
	"time"
)

// Config holds runtime settings for the HumDaddy client.
//
// Durations control the auto-save debounce machinery; amounts are in cents.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	DebounceWindow   time.Duration
	SavedRevertDelay time.Duration
	ErrorRevertDelay time.Duration

	MinPayoutCents int64

	DataDir             string
	DeepLinkScheme      string
	DeepLinkHTTPSPrefix string

	// LogFormat selects the logger backend: "json" or "text".
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:4000"
	c.RequestTimeout = 10 * time.Second
	c.DebounceWindow = 1 * time.Second
	c.SavedRevertDelay = 1500 * time.Millisecond
	c.ErrorRevertDelay = 4 * time.Second
	c.MinPayoutCents = 10000
	c.DataDir = "humdaddy"
	c.DeepLinkScheme = "humdaddy"
	c.DeepLinkHTTPSPrefix = "https://humdaddy.app/"
	c.LogFormat = "json"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. An unparseable base URL is replaced with the
// default rather than propagated.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		var d Config
		d.LoadDefaults()
		c.APIBaseURL = d.APIBaseURL
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		c.LogFormat = "json"
	}
}
