// Package views renders the site's pages from the embedded html/template
// layouts. Each page template is a full document; the shared header and
// the subscription form are partials imported by every layout.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/Pverheijen/pythontorust"
)

//go:embed templates/*.html templates/partials/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate": pythontorust.FormatDate,
	"joinTags":   pythontorust.JoinTags,
	"pageURL":    pythontorust.PageURL,
	// template.JS keeps the script context from re-escaping the JSON.
	"websiteJsonLD": func(cfg pythontorust.SiteConfig) template.JS {
		return template.JS(pythontorust.WebsiteJsonLD(cfg))
	},
	"postingJsonLD": func(p *pythontorust.Page, cfg pythontorust.SiteConfig) template.JS {
		return template.JS(pythontorust.BlogPostingJsonLD(p, cfg))
	},
}

var tmpl = template.Must(template.New("").Funcs(funcs).
	ParseFS(templateFS, "templates/*.html", "templates/partials/*.html"))

// Funcs returns the engine's ViewFuncs backed by the embedded layouts.
func Funcs() pythontorust.ViewFuncs {
	return pythontorust.ViewFuncs{
		Home:     Home,
		Article:  Article,
		Section:  Section,
		NotFound: NotFound,
	}
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

// Home renders the landing page with the most recent articles.
func Home(site *pythontorust.Site, cfg pythontorust.SiteConfig) templ.Component {
	return component("home.html", HomeData{Site: site, Cfg: cfg})
}

// Article renders one article page including its sibling listing.
func Article(page *pythontorust.Page, siblings []*pythontorust.Page, cfg pythontorust.SiteConfig) templ.Component {
	return component("article.html", ArticleData{Page: page, Siblings: siblings, Cfg: cfg})
}

// Section renders a section's article listing page.
func Section(section *pythontorust.Section, cfg pythontorust.SiteConfig) templ.Component {
	return component("section.html", SectionData{Section: section, Cfg: cfg})
}

// NotFound renders the static 404 page.
func NotFound(cfg pythontorust.SiteConfig) templ.Component {
	return component("notfound.html", NotFoundData{Cfg: cfg})
}
