// Package pythontorust is the engine behind a blog about learning Rust
// with a Python background. The articles are Markdown files under
// content/; the engine renders them into a static site: one HTML page
// per article with a "more from this series" listing of the sibling
// pages in the same section, plus section listings, a home page, an RSS
// feed and a sitemap.
//
// Users of the package provide templates via the ViewFuncs struct, and
// the engine handles content loading, rendering, and the preview server.
package pythontorust

import (
	"fmt"

	"github.com/a-h/templ"
)

// ViewFuncs holds the templ components the engine calls when rendering
// pages. This is the inversion-of-control mechanism that keeps template
// ownership with the site, not the engine.
type ViewFuncs struct {
	Home     func(site *Site, cfg SiteConfig) templ.Component
	Article  func(page *Page, siblings []*Page, cfg SiteConfig) templ.Component
	Section  func(section *Section, cfg SiteConfig) templ.Component
	NotFound func(cfg SiteConfig) templ.Component
}

// App wires together configuration, the render cache, and the
// user-provided templates. Build and Serve hang off it.
type App struct {
	Config        SiteConfig
	Views         ViewFuncs
	IncludeDrafts bool

	cache *RenderCache
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// openCache opens the render cache if one is configured. It is lazy so
// commands that never render (check, new) pay nothing for it.
func (a *App) openCache() (*RenderCache, error) {
	if a.Config.CachePath == "" {
		return nil, nil
	}
	if a.cache != nil {
		return a.cache, nil
	}
	c, err := OpenRenderCache(a.Config.CachePath)
	if err != nil {
		return nil, fmt.Errorf("open render cache: %w", err)
	}
	a.cache = c
	return c, nil
}

// Close releases the render cache, if open.
func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
