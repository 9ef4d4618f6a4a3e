package pythontorust_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pverheijen/pythontorust"
	"github.com/Pverheijen/pythontorust/views"
)

func writeFile(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testApp(t *testing.T, opts ...pythontorust.Option) (*pythontorust.App, string) {
	t.Helper()
	root := t.TempDir()
	content := filepath.Join(root, "content")
	static := filepath.Join(root, "static")
	out := filepath.Join(root, "public")

	writeFile(t, content, "index.md", "---\ntitle: Home\n---\n\nWelcome to the blog.\n")
	writeFile(t, content, "learning-path/why-rust-after-python.md",
		"---\ntitle: Why Rust After Python\ndate: 2024-09-25\n---\n\nBecause of the borrow checker.\n")
	writeFile(t, content, "learning-path/ownership-for-python-programmers.md",
		"---\ntitle: Ownership for Python Programmers\ndate: 2024-09-26\n---\n\nValues move.\n")
	writeFile(t, content, "learning-path/traits-vs-duck-typing.md",
		"---\ntitle: Traits vs Duck Typing\ndate: 2024-09-27\n---\n\nExplicit interfaces.\n")
	writeFile(t, content, "learning-path/not-yet.md",
		"---\ntitle: Not Yet\ndate: 2024-10-01\ndraft: true\n---\n\nSoon.\n")
	writeFile(t, static, "css/main.css", "body { margin: 0 }\n")

	cfg := pythontorust.SiteConfig{
		Name:       "Python to Rust",
		URL:        "https://example.com",
		Author:     "Peter",
		ContentDir: content,
		StaticDir:  static,
		OutputDir:  out,
	}
	app := pythontorust.New(cfg, views.Funcs(), opts...)
	t.Cleanup(func() { app.Close() })
	return app, out
}

func readOutput(t *testing.T, out, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(b)
}

func TestBuildWritesSite(t *testing.T) {
	app, out := testApp(t)

	res, err := app.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if res.Pages != 4 {
		t.Errorf("built %d pages, want 4", res.Pages)
	}

	for _, rel := range []string{
		"index.html",
		"learning-path/why-rust-after-python/index.html",
		"learning-path/index.html",
		"404.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"css/main.css",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing output file %s: %v", rel, err)
		}
	}

	if _, err := os.Stat(filepath.Join(out, "learning-path/not-yet/index.html")); !os.IsNotExist(err) {
		t.Error("draft page was built without the drafts option")
	}
}

func TestBuildArticleSiblingListing(t *testing.T) {
	app, out := testApp(t)
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	page := readOutput(t, out, "learning-path/why-rust-after-python/index.html")
	if !strings.Contains(page, "More from this series") {
		t.Fatal("article page missing the series listing")
	}
	if strings.Contains(page, `href="/learning-path/why-rust-after-python/"`) {
		t.Error("article lists itself in its own series listing")
	}

	traits := strings.Index(page, "/learning-path/traits-vs-duck-typing/")
	ownership := strings.Index(page, "/learning-path/ownership-for-python-programmers/")
	if traits < 0 || ownership < 0 {
		t.Fatal("sibling links missing from article page")
	}
	if traits > ownership {
		t.Error("siblings not listed most recent first")
	}
}

func TestBuildIncludesDrafts(t *testing.T) {
	app, out := testApp(t, pythontorust.WithDrafts())
	res, err := app.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 5 {
		t.Errorf("built %d pages, want 5", res.Pages)
	}
	if _, ok := res.Drafts["/learning-path/not-yet/"]; !ok {
		t.Errorf("draft permalink not recorded: %v", res.Drafts)
	}
	if _, err := os.Stat(filepath.Join(out, "learning-path/not-yet/index.html")); err != nil {
		t.Errorf("draft page not built: %v", err)
	}

	// Rendering drafts must not leak them into the feed or sitemap.
	if feed := readOutput(t, out, "feed.xml"); strings.Contains(feed, "not-yet") {
		t.Error("feed.xml lists a draft in a drafts build")
	}
	if sitemap := readOutput(t, out, "sitemap.xml"); strings.Contains(sitemap, "not-yet") {
		t.Error("sitemap.xml lists a draft in a drafts build")
	}
}

func TestBuildFeedAndSitemap(t *testing.T) {
	app, out := testApp(t)
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	feed := readOutput(t, out, "feed.xml")
	if !strings.Contains(feed, "<rss") ||
		!strings.Contains(feed, "https://example.com/learning-path/traits-vs-duck-typing/") {
		t.Errorf("feed.xml missing expected entries:\n%s", feed)
	}
	if strings.Contains(feed, "not-yet") {
		t.Error("feed.xml lists a draft")
	}

	sitemap := readOutput(t, out, "sitemap.xml")
	if !strings.Contains(sitemap, "<urlset") ||
		!strings.Contains(sitemap, "https://example.com/") {
		t.Errorf("sitemap.xml malformed:\n%s", sitemap)
	}

	robots := readOutput(t, out, "robots.txt")
	if !strings.Contains(robots, "Sitemap: https://example.com/sitemap.xml") {
		t.Errorf("robots.txt missing sitemap line:\n%s", robots)
	}
}

func TestBuiltSiteHasNoBrokenLinks(t *testing.T) {
	app, out := testApp(t)
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	problems, err := pythontorust.CheckLinks(out)
	if err != nil {
		t.Fatalf("CheckLinks() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("broken reference: %s", p)
	}
}

func TestBuildWithRenderCache(t *testing.T) {
	root := t.TempDir()
	cachePath := filepath.Join(root, "cache.db")
	app, out := testApp(t, pythontorust.WithRenderCache(cachePath))

	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := readOutput(t, out, "learning-path/why-rust-after-python/index.html")

	// Second build goes through the cache and must produce the same page.
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	second := readOutput(t, out, "learning-path/why-rust-after-python/index.html")
	if first != second {
		t.Error("cached rebuild differs from fresh build")
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Errorf("render cache not created: %v", err)
	}
}
