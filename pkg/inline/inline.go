// Package inline rewrites built HTML so local stylesheets ship inside the page.
package inline

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InlineCSS replaces every <link rel="stylesheet"> that points at a file inside distDir with a
// <style> element holding that file's content. Remote stylesheets are left alone. It returns the
// HTML files that were rewritten, relative to distDir, in lexical order.
func InlineCSS(fs afero.Fs, distDir string) ([]string, error) {
	var pages []string
	err := afero.Walk(fs, distDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", distDir, err)
	}
	sort.Strings(pages)

	var modified []string
	for _, p := range pages {
		changed, err := inlineFile(fs, distDir, p)
		if err != nil {
			return modified, err
		}
		if changed {
			rel, err := filepath.Rel(distDir, p)
			if err != nil {
				rel = p
			}
			modified = append(modified, filepath.ToSlash(rel))
		}
	}
	return modified, nil
}

func inlineFile(fs afero.Fs, distDir, page string) (bool, error) {
	data, err := afero.ReadFile(fs, page)
	if err != nil {
		return false, err
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", page, err)
	}

	var links []*html.Node
	collectStylesheets(doc, &links)

	changed := false
	for _, link := range links {
		cssPath, ok := localPath(distDir, filepath.Dir(page), attr(link, "href"))
		if !ok {
			continue
		}
		css, err := afero.ReadFile(fs, cssPath)
		if err != nil {
			return false, fmt.Errorf("read stylesheet for %s: %w", page, err)
		}

		style := &html.Node{Type: html.ElementNode, DataAtom: atom.Style, Data: "style"}
		if media := attr(link, "media"); media != "" {
			style.Attr = append(style.Attr, html.Attribute{Key: "media", Val: media})
		}
		style.AppendChild(&html.Node{Type: html.TextNode, Data: string(css)})

		link.Parent.InsertBefore(style, link)
		link.Parent.RemoveChild(link)
		changed = true
	}
	if !changed {
		return false, nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return false, fmt.Errorf("render %s: %w", page, err)
	}
	if err := afero.WriteFile(fs, page, buf.Bytes(), 0o644); err != nil {
		return false, err
	}
	return true, nil
}

func collectStylesheets(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Link && isStylesheet(n) {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectStylesheets(c, out)
	}
}

func isStylesheet(n *html.Node) bool {
	for _, rel := range strings.Fields(attr(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// localPath resolves href to a file under distDir. Absolute and protocol-relative URLs are not local.
func localPath(distDir, pageDir, href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "//") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	var resolved string
	if strings.HasPrefix(u.Path, "/") {
		resolved = filepath.Join(distDir, filepath.FromSlash(path.Clean(u.Path)))
	} else {
		resolved = filepath.Join(pageDir, filepath.FromSlash(u.Path))
	}

	rel, err := filepath.Rel(distDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}
