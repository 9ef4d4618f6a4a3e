package pythontorust

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string // Site name shown in the header and <title>
	URL         string // Canonical URL (default "http://localhost:1313")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	ContentDir string // Markdown articles (default "content")
	StaticDir  string // Assets copied verbatim (default "static")
	OutputDir  string // Build target (default "public")

	SubscribeURL  string // External form endpoint the subscription form posts to
	MaxImageWidth int    // Content images wider than this are downscaled (default 800)

	Addr            string // Preview server listen address (default ":1313")
	PreviewPassword string // Enables the draft preview login when set
	SessionSecret   string // Session encryption secret for the preview login
	CachePath       string // SQLite render cache; empty disables caching
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Python to Rust"
	}
	if c.URL == "" {
		c.URL = "http://localhost:1313"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "static"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = 800
	}
	if c.Addr == "" {
		c.Addr = ":1313"
	}
}

// LoadConfig reads config.yaml (or the file given) and environment
// variables prefixed with PTR_, returning a SiteConfig with defaults
// applied. A missing config file is fine; defaults and env cover it.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PTR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return SiteConfig{}, fmt.Errorf("read config: %w", err)
		}
		if path != "" {
			return SiteConfig{}, fmt.Errorf("config file %s not found: %w", path, err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithRenderCache enables the SQLite render cache at the given path.
func WithRenderCache(path string) Option {
	return func(a *App) {
		a.Config.CachePath = path
	}
}

// WithDrafts includes draft pages in builds.
func WithDrafts() Option {
	return func(a *App) {
		a.IncludeDrafts = true
	}
}
