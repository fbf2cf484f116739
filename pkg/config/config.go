package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL      = "https://www.furry.ist"
	defaultAPIBase      = "https://api.cloudflare.com/client/v4"
	defaultPort         = "3287"
	defaultGalleryDir   = "src/assets/gallery"
	defaultAssetBaseURL = "/assets/gallery/"
	defaultSiteConfig   = "site.yml"
	defaultBucketPrefix = "gallery/"
)

// ErrZoneIDNotSet is returned when the CF_ZONE_ID environment variable is not set
var ErrZoneIDNotSet = errors.New("CF_ZONE_ID environment variable not set")

// ErrAPITokenNotSet is returned when the CF_API_TOKEN environment variable is not set
var ErrAPITokenNotSet = errors.New("CF_API_TOKEN environment variable not set")

// PurgeConfig holds configuration for a cache purge run
type PurgeConfig struct {
	ZoneID       string
	APIToken     string
	BaseURL      string
	APIBase      string
	PurgeURLs    string
	ChangedPaths string
}

// SiteConfig holds configuration for the site server and gallery tooling
type SiteConfig struct {
	Port          string
	ConfigFile    string
	GalleryDir    string
	GalleryBucket string
	GalleryPrefix string
	AssetBaseURL  string
	PublicDir     string
}

// LoadEnvFile loads variables from a .env file when one exists. Variables that are
// already set are left untouched.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadPurge loads purge configuration from environment variables
func LoadPurge() (*PurgeConfig, error) {
	zoneID := os.Getenv("CF_ZONE_ID")
	if zoneID == "" {
		return nil, ErrZoneIDNotSet
	}

	token := os.Getenv("CF_API_TOKEN")
	if token == "" {
		return nil, ErrAPITokenNotSet
	}

	return &PurgeConfig{
		ZoneID:       zoneID,
		APIToken:     token,
		BaseURL:      BaseURL(),
		APIBase:      getenv("CF_API_BASE", defaultAPIBase),
		PurgeURLs:    firstEnv("PURGE_URLS", "INPUT_PURGE_URLS"),
		ChangedPaths: firstEnv("CHANGED_PATHS", "INPUT_CHANGED_PATHS"),
	}, nil
}

// LoadSite loads site configuration from environment variables
func LoadSite() *SiteConfig {
	return &SiteConfig{
		Port:          getenv("PORT", defaultPort),
		ConfigFile:    getenv("SITE_CONFIG", defaultSiteConfig),
		GalleryDir:    getenv("GALLERY_DIR", defaultGalleryDir),
		GalleryBucket: os.Getenv("GALLERY_BUCKET"),
		GalleryPrefix: getenv("GALLERY_PREFIX", defaultBucketPrefix),
		AssetBaseURL:  getenv("ASSET_BASE_URL", defaultAssetBaseURL),
		PublicDir:     getenv("PUBLIC_DIR", "public"),
	}
}

// BaseURL returns the public site origin used to build purge and build-output URLs
func BaseURL() string {
	return getenv("BASE_URL", defaultBaseURL)
}

// ServerAddress returns the server address with port
func (c *SiteConfig) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
