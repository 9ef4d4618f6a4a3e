package pythontorust

import (
	"encoding/xml"
	"io"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a sitemap of the home page and every article to w.
func WriteSitemap(w io.Writer, pages []*Page, cfg SiteConfig) error {
	urls := []sitemapURL{
		{Loc: BuildURL(cfg.URL)},
	}
	for _, p := range pages {
		if p.Permalink == "/" || p.Draft {
			continue
		}
		lastMod := ""
		if !p.Date.IsZero() {
			lastMod = p.Date.Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{
			Loc:     PageURL(cfg, p),
			LastMod: lastMod,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(sitemap)
}
