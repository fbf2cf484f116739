package gallery

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"profile-site/pkg/models"
)

// DefaultRootGroup is the group assigned to images sitting directly in the scan root
const DefaultRootGroup = "All"

// Options controls how a catalog is grouped and ordered
type Options struct {
	// GroupUseFullPath uses every directory segment as the group instead of only the first one
	GroupUseFullPath bool
	// RootGroupName is the group for files directly under the scan root
	RootGroupName string
	// SortGroups orders groups, default lexicographic
	SortGroups func(a, b string) int
	// SortItems orders items, default lexicographic by original path
	SortItems func(a, b models.GalleryItem) int
}

func (o Options) withDefaults() Options {
	if o.RootGroupName == "" {
		o.RootGroupName = DefaultRootGroup
	}
	if o.SortGroups == nil {
		o.SortGroups = strings.Compare
	}
	if o.SortItems == nil {
		o.SortItems = func(a, b models.GalleryItem) int {
			return strings.Compare(a.OriginalPath, b.OriginalPath)
		}
	}
	return o
}

var (
	extensionRegex = regexp.MustCompile(`\.[^/.]+$`)
	separatorRegex = regexp.MustCompile(`[_-]+`)
	spaceRegex     = regexp.MustCompile(`\s+`)
)

// NormalizeSlashes converts backslash separators to forward slashes
func NormalizeSlashes(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// TitleFromFilename derives a display title from a file name: the last extension is
// removed, runs of '_' and '-' become a single space and whitespace is collapsed.
func TitleFromFilename(filename string) string {
	noExt := extensionRegex.ReplaceAllString(filename, "")
	title := separatorRegex.ReplaceAllString(noExt, " ")
	title = spaceRegex.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// PickGroup returns the group for a catalog-relative path
func PickGroup(relPath string, useFullPath bool, rootGroupName string) string {
	parts := splitPath(relPath)
	if len(parts) <= 1 {
		return rootGroupName
	}
	if !useFullPath {
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], "/")
}

// itemTitle falls back to the bare file name when the cleaned title is empty,
// e.g. for "_.jpg" or ".png".
func itemTitle(filename string) string {
	if title := TitleFromFilename(filename); title != "" {
		return title
	}
	if noExt := extensionRegex.ReplaceAllString(filename, ""); noExt != "" {
		return noExt
	}
	return filename
}

func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// relativePath normalizes a discovered path and strips the scan root prefix
func relativePath(rawPath, scanRoot string) string {
	p := NormalizeSlashes(rawPath)
	root := strings.TrimPrefix(NormalizeSlashes(scanRoot), "./")
	p = strings.TrimPrefix(p, "./")
	if root != "" && root != "." {
		prefix := strings.TrimSuffix(root, "/") + "/"
		p = strings.TrimPrefix(p, prefix)
	}
	return strings.Join(splitPath(p), "/")
}

// BuildCatalog turns a resolved asset map (discovered path -> URL) into a sorted catalog.
// Files outside the image allow-list and entries without a URL are skipped.
// An empty input yields an empty catalog; substituting a fallback is up to the caller.
func BuildCatalog(assets map[string]string, scanRoot string, opts Options) models.GalleryCatalog {
	opts = opts.withDefaults()

	rawPaths := make([]string, 0, len(assets))
	for p := range assets {
		rawPaths = append(rawPaths, p)
	}
	// Visit in a stable order so collisions after normalization resolve the same way every run.
	slices.Sort(rawPaths)

	items := make([]models.GalleryItem, 0, len(rawPaths))
	seen := make(map[string]struct{}, len(rawPaths))
	groupSet := make(map[string]struct{})

	for _, rawPath := range rawPaths {
		src := assets[rawPath]
		if src == "" || !IsImage(rawPath) {
			continue
		}

		rel := relativePath(rawPath, scanRoot)
		if rel == "" {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}

		group := PickGroup(rel, opts.GroupUseFullPath, opts.RootGroupName)
		items = append(items, models.GalleryItem{
			Title:        itemTitle(path.Base(rel)),
			Src:          src,
			Group:        group,
			OriginalPath: rel,
		})
		groupSet[group] = struct{}{}
	}

	slices.SortStableFunc(items, opts.SortItems)

	groups := make([]string, 0, len(groupSet))
	for g := range groupSet {
		groups = append(groups, g)
	}
	slices.SortStableFunc(groups, opts.SortGroups)

	if idx := slices.Index(groups, opts.RootGroupName); idx > 0 {
		groups = append(groups[:idx], groups[idx+1:]...)
		groups = append([]string{opts.RootGroupName}, groups...)
	}

	return models.GalleryCatalog{
		Items:  items,
		Groups: groups,
	}
}

// Build resolves the assets under scanRoot and indexes them into a catalog
func Build(ctx context.Context, resolver AssetResolver, scanRoot string, opts Options) (models.GalleryCatalog, error) {
	assets, err := resolver.Resolve(ctx)
	if err != nil {
		return models.GalleryCatalog{}, fmt.Errorf("resolve gallery assets: %w", err)
	}
	return BuildCatalog(assets, scanRoot, opts), nil
}
