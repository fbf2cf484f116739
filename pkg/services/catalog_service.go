package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"profile-site/pkg/gallery"
	"profile-site/pkg/metrics"
	"profile-site/pkg/models"
	"profile-site/pkg/site"
)

const (
	catalogCacheKey = "catalog"
	catalogTTL      = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
	buildTimeout    = 30 * time.Second
)

// Service serves the gallery catalog and site content
type Service struct {
	site         site.Config
	resolver     gallery.AssetResolver
	scanRoot     string
	options      gallery.Options
	catalogCache *cache.Cache
	mu           sync.RWMutex
	log          *zap.Logger
}

// NewService creates a service indexing the assets found by resolver under scanRoot
func NewService(siteCfg site.Config, resolver gallery.AssetResolver, scanRoot string, opts gallery.Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		site:         siteCfg,
		resolver:     resolver,
		scanRoot:     scanRoot,
		options:      opts,
		catalogCache: cache.New(catalogTTL, cleanupInterval),
		log:          log,
	}
}

var (
	// defaultService is the singleton instance of Service
	defaultService *Service
	once           sync.Once
)

// InitService initializes the shared service
func InitService(siteCfg site.Config, resolver gallery.AssetResolver, scanRoot string, opts gallery.Options, log *zap.Logger) *Service {
	once.Do(func() {
		defaultService = NewService(siteCfg, resolver, scanRoot, opts, log)
	})
	return defaultService
}

// Site returns the site content
func (s *Service) Site() site.Config {
	return s.site
}

// Catalog returns the cached catalog, rebuilding it when the cache is cold.
// When the indexer finds no images, or fails, the site's placeholder gallery is returned.
func (s *Service) Catalog(ctx context.Context) models.GalleryCatalog {
	s.mu.RLock()
	if cached, found := s.catalogCache.Get(catalogCacheKey); found {
		s.mu.RUnlock()
		s.log.Debug("Using cached catalog")
		return cached.(models.GalleryCatalog)
	}
	s.mu.RUnlock()

	catalog, err := s.Build(ctx)
	if err != nil {
		s.log.Error("Failed to build gallery catalog", zap.Error(err))
		return s.fallback()
	}
	if catalog.Empty() {
		s.log.Info("No gallery images found, using placeholder gallery", zap.String("root", s.scanRoot))
		catalog = s.fallback()
	}

	s.mu.Lock()
	s.catalogCache.Set(catalogCacheKey, catalog, cache.DefaultExpiration)
	s.mu.Unlock()

	return catalog
}

// Build indexes the gallery without consulting the cache
func (s *Service) Build(ctx context.Context) (models.GalleryCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, buildTimeout)
	defer cancel()

	start := time.Now()
	catalog, err := gallery.Build(ctx, s.resolver, s.scanRoot, s.options)
	if err != nil {
		metrics.GalleryBuildsTotal.WithLabelValues("error").Inc()
		return models.GalleryCatalog{}, err
	}

	metrics.GalleryBuildsTotal.WithLabelValues("success").Inc()
	metrics.GalleryItems.Set(float64(len(catalog.Items)))
	s.log.Info("Built gallery catalog",
		zap.Int("items", len(catalog.Items)),
		zap.Int("groups", len(catalog.Groups)),
		zap.Duration("took", time.Since(start)))

	return catalog, nil
}

func (s *Service) fallback() models.GalleryCatalog {
	metrics.GalleryFallbackTotal.Inc()
	return s.site.Gallery
}

// Invalidate drops the cached catalog so the next request rebuilds it
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.catalogCache.Delete(catalogCacheKey)
	s.mu.Unlock()
	s.log.Debug("Gallery catalog invalidated")
}

// Groups returns the catalog groups in display order
func (s *Service) Groups(ctx context.Context) []string {
	return s.Catalog(ctx).Groups
}

// Group returns the items of a single group
func (s *Service) Group(ctx context.Context, name string) ([]models.GalleryItem, error) {
	catalog := s.Catalog(ctx)
	if !catalog.HasGroup(name) {
		return nil, fmt.Errorf("group not found: %s", name)
	}
	return catalog.ItemsInGroup(name), nil
}
