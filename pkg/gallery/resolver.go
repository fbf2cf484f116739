package gallery

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ImageExtensions is the allow-list of raster formats picked up by the indexer
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// IsImage reports whether the file name carries an allow-listed extension
func IsImage(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}

// AssetResolver discovers gallery files and maps each discovered path to a loadable URL.
// The whole mapping is produced eagerly on every call.
type AssetResolver interface {
	Resolve(ctx context.Context) (map[string]string, error)
}

// FSResolver resolves images from a directory tree. URLs are BaseURL joined with the
// path relative to Root.
type FSResolver struct {
	Fs      afero.Fs
	Root    string
	BaseURL string
	Log     *zap.Logger
}

// NewFSResolver creates a resolver over the host filesystem
func NewFSResolver(root, baseURL string, log *zap.Logger) *FSResolver {
	return &FSResolver{
		Fs:      afero.NewOsFs(),
		Root:    root,
		BaseURL: baseURL,
		Log:     log,
	}
}

// Resolve walks Root and returns every allow-listed image. A missing Root yields an empty map.
func (r *FSResolver) Resolve(ctx context.Context) (map[string]string, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	assets := make(map[string]string)

	exists, err := afero.DirExists(r.Fs, r.Root)
	if err != nil {
		return nil, fmt.Errorf("stat gallery root %s: %w", r.Root, err)
	}
	if !exists {
		log.Warn("Gallery root does not exist", zap.String("root", r.Root))
		return assets, nil
	}

	err = afero.Walk(r.Fs, r.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() || !IsImage(info.Name()) {
			return nil
		}

		rel, err := filepath.Rel(r.Root, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}
		assets[p] = assetURL(r.BaseURL, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk gallery root %s: %w", r.Root, err)
	}

	log.Debug("Resolved gallery assets", zap.String("root", r.Root), zap.Int("count", len(assets)))
	return assets, nil
}

// assetURL joins base and a slash-separated relative path, escaping each segment
func assetURL(base, rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(segments, "/")
}
