package pythontorust

import (
	"encoding/xml"
	"io"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// WriteFeed writes an RSS 2.0 feed of pages to w. Pages are expected in
// date-descending order, the order the site graph keeps them in.
func WriteFeed(w io.Writer, pages []*Page, cfg SiteConfig) error {
	items := make([]rssItem, 0, len(pages))
	for _, p := range pages {
		// Drafts stay out even when a preview build rendered them.
		if p.Permalink == "/" || p.Draft {
			continue
		}
		pubDate := ""
		if !p.Date.IsZero() {
			pubDate = p.Date.Format(time.RFC1123Z)
		}
		pageURL := PageURL(cfg, p)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        pageURL,
			Description: p.Summary,
			PubDate:     pubDate,
			GUID:        pageURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       cfg.Name,
			Link:        cfg.URL,
			Description: cfg.Description,
			Items:       items,
		},
	}
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(feed)
}
