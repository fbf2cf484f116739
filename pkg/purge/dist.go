package purge

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// DistURLs lists the site URL of every file in a build output directory. An index.html is
// addressed by its directory with a trailing slash.
func DistURLs(fs afero.Fs, distDir, baseURL string) ([]string, error) {
	root := strings.TrimRight(baseURL, "/")

	var urls []string
	err := afero.Walk(fs, distDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(distDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if path.Base(rel) == "index.html" {
			dir := path.Dir(rel)
			if dir == "." {
				urls = append(urls, root+"/")
			} else {
				urls = append(urls, root+"/"+dir+"/")
			}
			return nil
		}
		urls = append(urls, root+"/"+rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", distDir, err)
	}

	sort.Strings(urls)
	return urls, nil
}
