package pythontorust

import (
	"fmt"
	"html/template"
	"sort"
	"time"
)

// DefaultSection is the section that pages without ancestors fall back to
// when their sibling listing is resolved. It always exists, even when no
// page lives at the content root.
const DefaultSection = "index"

// Page is one article, fully materialized at load time. Pages are immutable
// once the site graph has been built.
type Page struct {
	Title     string
	Date      time.Time
	Tags      []string
	Summary   string
	Slug      string
	Ancestors []string // section identifiers, root to immediate parent
	Permalink string
	Body      template.HTML
	Draft     bool
	Source    string // markdown file path relative to the content dir
}

// Section groups the pages that share a content directory. Pages are held
// in date-descending order; equal dates keep the order the loader found
// them in.
type Section struct {
	ID    string
	Pages []*Page
}

// Site is the read-only object graph a build renders from.
type Site struct {
	Sections map[string]*Section
	Pages    []*Page // every article, date descending
}

// ListingSection returns the identifier of the section a page's sibling
// listing is drawn from: the last ancestor when the page has any, the
// default section otherwise.
func ListingSection(p *Page) string {
	if len(p.Ancestors) > 0 {
		return p.Ancestors[len(p.Ancestors)-1]
	}
	return DefaultSection
}

// Home returns the page addressing the content root, if any.
func (s *Site) Home() *Page {
	for _, p := range s.Pages {
		if p.Permalink == "/" {
			return p
		}
	}
	return nil
}

// Section returns the section with the given identifier.
func (s *Site) Section(id string) (*Section, bool) {
	sec, ok := s.Sections[id]
	return sec, ok
}

// Siblings returns the other pages of p's listing section, most recent
// first. The page itself is never part of its own listing. A missing
// section is a configuration error and fatal to the build.
func (s *Site) Siblings(p *Page) ([]*Page, error) {
	id := ListingSection(p)
	sec, ok := s.Sections[id]
	if !ok {
		return nil, fmt.Errorf("page %q: listing section %q does not exist", p.Source, id)
	}
	siblings := make([]*Page, 0, len(sec.Pages))
	for _, other := range sec.Pages {
		if other.Permalink == p.Permalink {
			continue
		}
		siblings = append(siblings, other)
	}
	return siblings, nil
}

// sortPages orders pages date-descending in place. The sort is stable so
// pages sharing a date keep their insertion order.
func sortPages(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Date.After(pages[j].Date)
	})
}

// permalink builds the public URL path for a page. A page named "index"
// addresses its directory rather than a subdirectory of it.
func permalink(ancestors []string, slug string) string {
	dir := "/"
	if len(ancestors) > 0 {
		dir = "/" + ancestors[len(ancestors)-1] + "/"
	}
	if slug == "index" {
		return dir
	}
	return dir + slug + "/"
}
