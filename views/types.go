package views

import "github.com/Pverheijen/pythontorust"

// HomeData feeds the landing page template.
type HomeData struct {
	Site *pythontorust.Site
	Cfg  pythontorust.SiteConfig
}

// ArticleData feeds the article template. Siblings are the other pages
// of the article's section, most recent first.
type ArticleData struct {
	Page     *pythontorust.Page
	Siblings []*pythontorust.Page
	Cfg      pythontorust.SiteConfig
}

// SectionData feeds the section listing template.
type SectionData struct {
	Section *pythontorust.Section
	Cfg     pythontorust.SiteConfig
}

// NotFoundData feeds the 404 template.
type NotFoundData struct {
	Cfg pythontorust.SiteConfig
}
