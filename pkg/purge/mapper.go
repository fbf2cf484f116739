package purge

import "strings"

// Rule maps a repository-relative path onto the deployed site.
// Rewrite receives the site root without a trailing slash.
type Rule struct {
	Name    string
	Match   func(p string) bool
	Rewrite func(root, p string) string
}

func prefixRule(name, prefix, target string) Rule {
	return Rule{
		Name:  name,
		Match: func(p string) bool { return strings.HasPrefix(p, prefix) },
		Rewrite: func(root, p string) string {
			return root + target + strings.TrimPrefix(p, prefix)
		},
	}
}

// DefaultRules lists the predictable build output locations, first match wins
var DefaultRules = []Rule{
	{
		Name:    "index",
		Match:   func(p string) bool { return p == "index.html" },
		Rewrite: func(root, _ string) string { return root + "/" },
	},
	prefixRule("public", "public/", "/"),
	prefixRule("src-assets", "src/assets/", "/assets/"),
	prefixRule("assets", "assets/", "/"),
}

// Mapper turns changed file paths into site URLs
type Mapper struct {
	BaseURL string
	Rules   []Rule
}

// NewMapper creates a mapper using DefaultRules
func NewMapper(baseURL string) Mapper {
	return Mapper{BaseURL: baseURL, Rules: DefaultRules}
}

// Map returns the URL for p, or false when no rule applies
func (m Mapper) Map(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	p = strings.TrimPrefix(p, "./")

	root := strings.TrimRight(m.BaseURL, "/")
	for _, rule := range m.Rules {
		if rule.Match(p) {
			return rule.Rewrite(root, p), true
		}
	}
	return "", false
}

// MapPathToURL maps a single changed path with the default rules
func MapPathToURL(baseURL, p string) (string, bool) {
	return NewMapper(baseURL).Map(p)
}
