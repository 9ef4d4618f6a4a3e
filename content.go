package pythontorust

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Pverheijen/pythontorust/markdown"
)

// frontMatter is the YAML metadata block prefixed to every article file.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Draft   bool     `yaml:"draft"`
	Unsafe  bool     `yaml:"unsafe"`
}

// dateFormats are accepted front-matter date layouts, most specific first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var titleCaser = cases.Title(language.English)

// Loader reads the content tree and produces the site object graph.
type Loader struct {
	ContentDir    string
	IncludeDrafts bool
	Cache         *RenderCache // optional; skips re-rendering unchanged files
}

// Load walks the content directory and builds the Site: one Page per
// Markdown file, one Section per directory. The default section exists
// even when no page lives at the content root. Malformed front matter or
// an unparseable date is fatal.
func (l Loader) Load() (*Site, error) {
	site := &Site{
		Sections: map[string]*Section{
			DefaultSection: {ID: DefaultSection},
		},
	}

	err := filepath.WalkDir(l.ContentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		rel, err := filepath.Rel(l.ContentDir, p)
		if err != nil {
			return err
		}
		page, err := l.loadPage(p, filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		if page.Draft && !l.IncludeDrafts {
			return nil
		}
		site.addPage(page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	for _, sec := range site.Sections {
		sortPages(sec.Pages)
	}
	sortPages(site.Pages)
	return site, nil
}

func (l Loader) loadPage(fsPath, rel string) (*Page, error) {
	raw, err := os.ReadFile(fsPath)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fm)
	if err != nil {
		return nil, fmt.Errorf("%s: parse front matter: %w", rel, err)
	}

	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	title := fm.Title
	if title == "" {
		title = titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
	}

	var date time.Time
	if fm.Date != "" {
		date, err = parseDate(fm.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
	}

	html, err := l.renderBody(rel, raw, body, fm.Unsafe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	ancestors := ancestorsOf(rel)
	return &Page{
		Title:     title,
		Date:      date,
		Tags:      FilterEmpty(fm.Tags),
		Summary:   fm.Summary,
		Slug:      base,
		Ancestors: ancestors,
		Permalink: permalink(ancestors, base),
		Body:      template.HTML(html),
		Draft:     fm.Draft,
		Source:    rel,
	}, nil
}

// renderBody converts the article body, going through the render cache
// when one is attached. The cache key is the source path; the content
// hash covers the whole file so front-matter edits also invalidate.
func (l Loader) renderBody(rel string, raw, body []byte, unsafe bool) ([]byte, error) {
	var hash string
	if l.Cache != nil {
		sum := sha256.Sum256(raw)
		hash = hex.EncodeToString(sum[:])
		if cached, ok, err := l.Cache.Get(rel, hash); err == nil && ok {
			return cached, nil
		}
	}
	html, err := markdown.Render(body, unsafe)
	if err != nil {
		return nil, err
	}
	if l.Cache != nil {
		if err := l.Cache.Put(rel, hash, html); err != nil {
			return nil, err
		}
	}
	return html, nil
}

// addPage files the page under its parent section, creating the chain of
// ancestor sections on the way.
func (s *Site) addPage(p *Page) {
	for _, id := range p.Ancestors {
		if _, ok := s.Sections[id]; !ok {
			s.Sections[id] = &Section{ID: id}
		}
	}
	parent := ListingSection(p)
	sec := s.Sections[parent]
	sec.Pages = append(sec.Pages, p)
	s.Pages = append(s.Pages, p)
}

// ancestorsOf derives the chain of section identifiers for a content
// path, root to immediate parent: "a/b/post.md" -> ["a", "a/b"].
func ancestorsOf(rel string) []string {
	dir := path.Dir(rel)
	if dir == "." {
		return nil
	}
	parts := strings.Split(dir, "/")
	out := make([]string, len(parts))
	for i := range parts {
		out[i] = path.Join(parts[:i+1]...)
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q, use YYYY-MM-DD", s)
}
