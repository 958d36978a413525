package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/johanthomias/HumDaddy-mobile/internal/flagx"
	"github.com/johanthomias/HumDaddy-mobile/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`

	DebounceWindow   timex.Duration `json:"debounce_window"`
	SavedRevertDelay timex.Duration `json:"saved_revert_delay"`
	ErrorRevertDelay timex.Duration `json:"error_revert_delay"`

	MinPayoutCents int64 `json:"min_payout_cents"`

	DataDir             string `json:"data_dir"`
	DeepLinkScheme      string `json:"deep_link_scheme"`
	DeepLinkHTTPSPrefix string `json:"deep_link_https_prefix"`

	LogFormat string `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file selected
// via -c or -config (flagx.JsonConfigFlags). Missing fields keep the current
// value; read or unmarshal errors panic, matching the fail-fast startup
// path.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DebounceWindow.Duration > 0 {
		cfg.DebounceWindow = time.Duration(jc.DebounceWindow.Duration)
	}
	if jc.SavedRevertDelay.Duration > 0 {
		cfg.SavedRevertDelay = time.Duration(jc.SavedRevertDelay.Duration)
	}
	if jc.ErrorRevertDelay.Duration > 0 {
		cfg.ErrorRevertDelay = time.Duration(jc.ErrorRevertDelay.Duration)
	}
	if jc.MinPayoutCents > 0 {
		cfg.MinPayoutCents = jc.MinPayoutCents
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.DeepLinkScheme != "" {
		cfg.DeepLinkScheme = jc.DeepLinkScheme
	}
	if jc.DeepLinkHTTPSPrefix != "" {
		cfg.DeepLinkHTTPSPrefix = jc.DeepLinkHTTPSPrefix
	}
	if jc.LogFormat != "" {
		cfg.LogFormat = jc.LogFormat
	}
}
