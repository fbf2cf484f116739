package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPurgeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CF_ZONE_ID", "CF_API_TOKEN", "BASE_URL", "CF_API_BASE",
		"PURGE_URLS", "INPUT_PURGE_URLS", "CHANGED_PATHS", "INPUT_CHANGED_PATHS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadPurgeMissingZone(t *testing.T) {
	clearPurgeEnv(t)
	t.Setenv("CF_API_TOKEN", "token")

	_, err := LoadPurge()
	assert.ErrorIs(t, err, ErrZoneIDNotSet)
}

func TestLoadPurgeMissingToken(t *testing.T) {
	clearPurgeEnv(t)
	t.Setenv("CF_ZONE_ID", "zone")

	_, err := LoadPurge()
	assert.ErrorIs(t, err, ErrAPITokenNotSet)
}

func TestLoadPurgeDefaults(t *testing.T) {
	clearPurgeEnv(t)
	t.Setenv("CF_ZONE_ID", "zone")
	t.Setenv("CF_API_TOKEN", "token")
	t.Setenv("INPUT_CHANGED_PATHS", `["index.html"]`)

	cfg, err := LoadPurge()
	require.NoError(t, err)
	assert.Equal(t, "zone", cfg.ZoneID)
	assert.Equal(t, "token", cfg.APIToken)
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultAPIBase, cfg.APIBase)
	assert.Equal(t, `["index.html"]`, cfg.ChangedPaths)
	assert.Empty(t, cfg.PurgeURLs)
}

func TestLoadPurgePrefersPrimaryVariables(t *testing.T) {
	clearPurgeEnv(t)
	t.Setenv("CF_ZONE_ID", "zone")
	t.Setenv("CF_API_TOKEN", "token")
	t.Setenv("PURGE_URLS", `["a"]`)
	t.Setenv("INPUT_PURGE_URLS", `["b"]`)

	cfg, err := LoadPurge()
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, cfg.PurgeURLs)
}

func TestLoadPurgeKeepsBaseURLVerbatim(t *testing.T) {
	clearPurgeEnv(t)
	t.Setenv("CF_ZONE_ID", "zone")
	t.Setenv("CF_API_TOKEN", "token")
	t.Setenv("BASE_URL", "www.example.com")

	cfg, err := LoadPurge()
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", cfg.BaseURL)
}

func TestBaseURL(t *testing.T) {
	t.Setenv("BASE_URL", "")
	assert.Equal(t, defaultBaseURL, BaseURL())

	t.Setenv("BASE_URL", "https://example.com")
	assert.Equal(t, "https://example.com", BaseURL())
}

func TestLoadSiteDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "SITE_CONFIG", "GALLERY_DIR", "GALLERY_BUCKET", "GALLERY_PREFIX", "ASSET_BASE_URL", "PUBLIC_DIR"} {
		t.Setenv(key, "")
	}

	cfg := LoadSite()
	assert.Equal(t, ":3287", cfg.ServerAddress())
	assert.Equal(t, defaultGalleryDir, cfg.GalleryDir)
	assert.Equal(t, defaultAssetBaseURL, cfg.AssetBaseURL)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Empty(t, cfg.GalleryBucket)
	assert.Equal(t, "gallery/", cfg.GalleryPrefix)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CF_ZONE_ID=from-file\nCF_API_TOKEN=file-token\n"), 0o600))

	t.Setenv("CF_ZONE_ID", "")
	require.NoError(t, os.Unsetenv("CF_ZONE_ID"))
	t.Setenv("CF_API_TOKEN", "already-set")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CF_ZONE_ID"))
	assert.Equal(t, "already-set", os.Getenv("CF_API_TOKEN"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}
