package pythontorust

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BuildResult reports what a build produced.
type BuildResult struct {
	Pages  int
	Drafts map[string]struct{} // permalinks of pages built from drafts
}

// Build loads the content tree and renders the whole site into the
// output directory: one page per article, a listing page per section,
// the home page, feed.xml, sitemap.xml, robots.txt and a 404 page, plus
// static assets and downscaled content images.
func (a *App) Build(ctx context.Context) (*BuildResult, error) {
	site, err := a.loadSite()
	if err != nil {
		return nil, err
	}
	res, err := a.BuildSite(ctx, site)
	if err != nil {
		return nil, err
	}
	if err := a.pruneCache(site); err != nil {
		return nil, err
	}
	return res, nil
}

// loadSite reads the content tree into a fresh site graph, rendering
// article bodies through the render cache when one is configured.
func (a *App) loadSite() (*Site, error) {
	cache, err := a.openCache()
	if err != nil {
		return nil, err
	}
	loader := Loader{
		ContentDir:    a.Config.ContentDir,
		IncludeDrafts: a.IncludeDrafts,
		Cache:         cache,
	}
	return loader.Load()
}

// pruneCache drops render-cache rows for source files the site no
// longer contains.
func (a *App) pruneCache(site *Site) error {
	if a.cache == nil {
		return nil
	}
	live := make(map[string]struct{}, len(site.Pages))
	for _, p := range site.Pages {
		live[p.Source] = struct{}{}
	}
	if err := a.cache.Prune(live); err != nil {
		return fmt.Errorf("prune render cache: %w", err)
	}
	return nil
}

// BuildSite renders an already-loaded site graph into the output
// directory. The graph is read-only; pages render independently.
func (a *App) BuildSite(ctx context.Context, site *Site) (*BuildResult, error) {
	ctx, span := tracer.Start(ctx, "site.build",
		trace.WithAttributes(attribute.Int("site.pages", len(site.Pages))))
	defer span.End()

	cfg := a.Config
	out := cfg.OutputDir

	if err := os.RemoveAll(out); err != nil {
		return nil, fmt.Errorf("clean output dir %s: %w", out, err)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", out, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		if err := copyDir(cfg.StaticDir, out); err != nil {
			return nil, fmt.Errorf("copy static assets: %w", err)
		}
	}
	if err := copyImages(cfg.ContentDir, out, cfg.MaxImageWidth); err != nil {
		return nil, err
	}

	res := &BuildResult{Drafts: make(map[string]struct{})}

	for _, p := range site.Pages {
		siblings, err := site.Siblings(p)
		if err != nil {
			return nil, err
		}
		cmp := a.Views.Article(p, siblings, cfg)
		if p.Permalink == "/" {
			cmp = a.Views.Home(site, cfg)
		}
		if err := renderToFile(ctx, outputPath(out, p.Permalink), cmp); err != nil {
			return nil, err
		}
		if p.Draft {
			res.Drafts[p.Permalink] = struct{}{}
		}
		res.Pages++
	}

	// The home page exists even without a content/index.md.
	if site.Home() == nil {
		if err := renderToFile(ctx, filepath.Join(out, "index.html"), a.Views.Home(site, cfg)); err != nil {
			return nil, err
		}
	}

	if err := a.buildSections(ctx, site); err != nil {
		return nil, err
	}

	if err := renderToFile(ctx, filepath.Join(out, "404.html"), a.Views.NotFound(cfg)); err != nil {
		return nil, err
	}
	if err := writeXML(filepath.Join(out, "feed.xml"), func(w io.Writer) error {
		return WriteFeed(w, site.Pages, cfg)
	}); err != nil {
		return nil, err
	}
	if err := writeXML(filepath.Join(out, "sitemap.xml"), func(w io.Writer) error {
		return WriteSitemap(w, site.Pages, cfg)
	}); err != nil {
		return nil, err
	}
	robots := "User-agent: *\nAllow: /\nSitemap: " + strings.TrimRight(cfg.URL, "/") + "/sitemap.xml\n"
	if err := os.WriteFile(filepath.Join(out, "robots.txt"), []byte(robots), 0o644); err != nil {
		return nil, fmt.Errorf("write robots.txt: %w", err)
	}

	return res, nil
}

// buildSections writes a listing page for every section that doesn't
// already have a page claiming its directory index.
func (a *App) buildSections(ctx context.Context, site *Site) error {
	ids := make([]string, 0, len(site.Sections))
	for id := range site.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if id == DefaultSection {
			continue // the home page is its listing
		}
		sec := site.Sections[id]
		dest := filepath.Join(a.Config.OutputDir, filepath.FromSlash(id), "index.html")
		if _, err := os.Stat(dest); err == nil {
			continue // an index page owns this path
		}
		if err := renderToFile(ctx, dest, a.Views.Section(sec, a.Config)); err != nil {
			return err
		}
	}
	return nil
}

func outputPath(outDir, permalink string) string {
	rel := strings.TrimPrefix(permalink, "/")
	return filepath.Join(outDir, filepath.FromSlash(rel), "index.html")
}

func writeXML(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// copyDir copies the contents of src into dst, keeping relative paths.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(p, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
