package site

// Route is a page of the site
type Route struct {
	Path  string
	Name  string
	Title string
}

// Routes is the page table served by the site
var Routes = []Route{
	{Path: "/", Name: "home", Title: "Home"},
	{Path: "/about", Name: "about", Title: "About"},
	{Path: "/projects", Name: "projects", Title: "Projects"},
	{Path: "/gallery", Name: "gallery", Title: "Gallery"},
	{Path: "/contact", Name: "contact", Title: "Contact"},
}

// FindRoute looks up a route by its path
func FindRoute(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// DocumentTitle returns "<page> · <site>", or the site title alone when page is empty
func (c Config) DocumentTitle(page string) string {
	if page == "" {
		return c.SiteTitle
	}
	return page + " · " + c.SiteTitle
}
