package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a fetch run. All values
// originate from Viper so the pipeline can be configured via files, env
// vars, or CLI flags.
type Config struct {
	BaseURL        string
	Locale         string
	UserAgent      string
	RequestTimeout time.Duration
	Concurrency    int
	SkipPrefixes   []string
	AllowList      []string
	OutputDir      string
	StorePath      string
}

// SetDefaults registers the default configuration values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.base_url", "https://play.google.com")
	v.SetDefault("store.locale", "en")
	v.SetDefault("store.user_agent", "playmeta/0.1")
	v.SetDefault("store.path", "")
	v.SetDefault("http.timeout", "15s")
	v.SetDefault("pipeline.concurrency", 1)
	v.SetDefault("resolver.skip_prefixes", []string{"com.android"})
	v.SetDefault("resolver.allow_list", []string{"com.android.chrome"})
	v.SetDefault("output.dir", ".")
	v.SetDefault("logging.development", true)
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		BaseURL:        strings.TrimRight(v.GetString("store.base_url"), "/"),
		Locale:         v.GetString("store.locale"),
		UserAgent:      v.GetString("store.user_agent"),
		RequestTimeout: v.GetDuration("http.timeout"),
		Concurrency:    v.GetInt("pipeline.concurrency"),
		SkipPrefixes:   normalizePrefixes(v.GetStringSlice("resolver.skip_prefixes")),
		AllowList:      normalizePrefixes(v.GetStringSlice("resolver.allow_list")),
		OutputDir:      v.GetString("output.dir"),
		StorePath:      v.GetString("store.path"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("store.base_url must be set")
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("store.base_url must be an absolute URL, got %q", c.BaseURL)
	}
	if c.Locale == "" {
		return fmt.Errorf("store.locale must be set")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("store.user_agent must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("pipeline.concurrency must be > 0")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output.dir must be set")
	}
	return nil
}

// SearchURL builds the store search endpoint for a raw query.
func (c Config) SearchURL(query string) string {
	return fmt.Sprintf("%s/store/search?q=%s&c=apps", c.BaseURL, url.QueryEscape(query))
}

// DetailURL builds the detail-page endpoint for a canonical application ID.
func (c Config) DetailURL(appID string) string {
	return fmt.Sprintf("%s/store/apps/details?id=%s&hl=%s", c.BaseURL, url.QueryEscape(appID), url.QueryEscape(c.Locale))
}

func normalizePrefixes(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{})
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
