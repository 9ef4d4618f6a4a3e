package pythontorust

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeContent(t *testing.T, dir, rel, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoaderBuildsSiteGraph(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "index.md", "---\ntitle: Home\n---\n\nWelcome.\n")
	writeContent(t, dir, "learning-path/why-rust-after-python.md",
		"---\ntitle: Why Rust After Python\ndate: 2024-09-25\ntags: [rust, python]\n---\n\nBecause.\n")
	writeContent(t, dir, "learning-path/ownership-for-python-programmers.md",
		"---\ntitle: Ownership for Python Programmers\ndate: 2024-09-26\n---\n\nMoves.\n")
	writeContent(t, dir, "learning-path/traits-vs-duck-typing.md",
		"---\ntitle: Traits vs Duck Typing\ndate: 2024-09-27\n---\n\nTraits.\n")
	writeContent(t, dir, "notes.txt", "not an article")

	site, err := Loader{ContentDir: dir}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(site.Pages) != 4 {
		t.Fatalf("got %d pages, want 4", len(site.Pages))
	}
	sec, ok := site.Section("learning-path")
	if !ok {
		t.Fatal("section learning-path missing")
	}
	if len(sec.Pages) != 3 {
		t.Fatalf("learning-path has %d pages, want 3", len(sec.Pages))
	}
	wantOrder := []string{
		"traits-vs-duck-typing",
		"ownership-for-python-programmers",
		"why-rust-after-python",
	}
	for i, want := range wantOrder {
		if sec.Pages[i].Slug != want {
			t.Errorf("section page %d = %q, want %q", i, sec.Pages[i].Slug, want)
		}
	}

	home := site.Home()
	if home == nil || home.Title != "Home" {
		t.Fatalf("Home() = %v, want the index page", home)
	}
	if _, ok := site.Section(DefaultSection); !ok {
		t.Error("default section missing")
	}
}

func TestLoaderDrafts(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "learning-path/published.md",
		"---\ntitle: Published\ndate: 2024-09-25\n---\n\nHi.\n")
	writeContent(t, dir, "learning-path/wip.md",
		"---\ntitle: WIP\ndate: 2024-09-26\ndraft: true\n---\n\nNot yet.\n")

	site, err := Loader{ContentDir: dir}.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(site.Pages) != 1 {
		t.Fatalf("got %d pages without drafts, want 1", len(site.Pages))
	}

	site, err = Loader{ContentDir: dir, IncludeDrafts: true}.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(site.Pages) != 2 {
		t.Fatalf("got %d pages with drafts, want 2", len(site.Pages))
	}
	var draft *Page
	for _, p := range site.Pages {
		if p.Draft {
			draft = p
		}
	}
	if draft == nil || draft.Slug != "wip" {
		t.Fatalf("draft page = %v, want wip", draft)
	}
}

func TestLoaderTitleFallback(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "learning-path/borrow_checker-basics.md",
		"---\ndate: 2024-09-25\n---\n\nBody.\n")

	site, err := Loader{ContentDir: dir}.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(site.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(site.Pages))
	}
	if got := site.Pages[0].Title; got != "Borrow Checker Basics" {
		t.Errorf("fallback title = %q, want %q", got, "Borrow Checker Basics")
	}
}

func TestLoaderBadDateIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "bad.md", "---\ntitle: Bad\ndate: someday\n---\n\nBody.\n")

	loader := Loader{ContentDir: dir}
	if _, err := loader.Load(); err == nil {
		t.Fatal("Load() with unparseable date: want error, got nil")
	}
}

func TestLoaderRendersBody(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "learning-path/post.md",
		"---\ntitle: Post\ndate: 2024-09-25\n---\n\n## Heading\n\nSome `code` here.\n")

	site, err := Loader{ContentDir: dir}.Load()
	if err != nil {
		t.Fatal(err)
	}
	body := string(site.Pages[0].Body)
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "<code>code</code>") {
		t.Errorf("rendered body missing expected HTML:\n%s", body)
	}
}

func TestAncestorsOf(t *testing.T) {
	tests := []struct {
		rel  string
		want []string
	}{
		{"index.md", nil},
		{"about.md", nil},
		{"learning-path/why-rust.md", []string{"learning-path"}},
		{"a/b/post.md", []string{"a", "a/b"}},
	}
	for _, tt := range tests {
		got := ancestorsOf(tt.rel)
		if len(got) != len(tt.want) {
			t.Errorf("ancestorsOf(%q) = %v, want %v", tt.rel, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("ancestorsOf(%q)[%d] = %q, want %q", tt.rel, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2024-09-25",
		"2024-09-25T10:30:00",
		"2024-09-25T10:30:00Z",
		"2024-09-25 10:30",
	} {
		if _, err := parseDate(s); err != nil {
			t.Errorf("parseDate(%q) error = %v", s, err)
		}
	}
	if _, err := parseDate("25/09/2024"); err == nil {
		t.Error("parseDate with unknown layout: want error, got nil")
	}
}
